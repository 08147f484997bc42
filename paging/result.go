package paging

// A Result is the outcome of running a reference string through an engine.
type Result struct {
	Policy     string
	NumFrames  int
	References []Page
	Trace      []TraceEntry
	Faults     int
}

// Hits returns the number of references that did not fault.
func (r Result) Hits() int {
	return len(r.Trace) - r.Faults
}

// FaultFlags returns, for every reference, whether it faulted.
func (r Result) FaultFlags() []bool {
	flags := make([]bool, len(r.Trace))
	for i, entry := range r.Trace {
		flags[i] = entry.Fault
	}

	return flags
}

// FaultRate returns the fraction of references that faulted. An empty run has
// a fault rate of 0.
func (r Result) FaultRate() float64 {
	if len(r.Trace) == 0 {
		return 0
	}

	return float64(r.Faults) / float64(len(r.Trace))
}

// States returns the rendered frame contents after every reference.
func (r Result) States() [][]string {
	states := make([][]string, len(r.Trace))
	for i, entry := range r.Trace {
		states[i] = entry.States()
	}

	return states
}
