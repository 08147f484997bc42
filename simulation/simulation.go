// Package simulation wires engines to the tracers, recorders and monitor
// selected for one program run.
package simulation

import (
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/hooking"
	"github.com/sarchlab/memsim/monitoring"
	"github.com/sarchlab/memsim/tracing"
)

// A Simulation owns the observers shared by every engine of a run.
type Simulation struct {
	id string

	dataRecorder datarecording.DataRecorder
	dbTracer     *tracing.DBTracer
	csvWriter    *tracing.CSVTraceWriter
	monitor      *monitoring.Monitor
	stats        *tracing.StatsTracer
	hooks        []hooking.Hook

	domains         []hooking.Hookable
	domainNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Hooks returns the hooks every engine of the simulation should carry.
func (s *Simulation) Hooks() []hooking.Hook {
	return append([]hooking.Hook(nil), s.hooks...)
}

// RegisterDomain attaches the hooks of the simulation to an engine or an
// allocator. Names must be unique.
func (s *Simulation) RegisterDomain(d hooking.Hookable) {
	name := d.Name()
	if _, found := s.domainNameIndex[name]; found {
		panic("domain " + name + " already registered")
	}

	for _, h := range s.hooks {
		d.AcceptHook(h)
	}

	s.domains = append(s.domains, d)
	s.domainNameIndex[name] = len(s.domains) - 1
}

// Domains returns all registered domains.
func (s *Simulation) Domains() []hooking.Hookable {
	return s.domains
}

// GetDomainByName returns the domain with the given name, or nil.
func (s *Simulation) GetDomainByName(name string) hooking.Hookable {
	i, found := s.domainNameIndex[name]
	if !found {
		return nil
	}

	return s.domains[i]
}

// GetDataRecorder returns the data recorder, or nil if nothing is recorded.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetDBTracer returns the tracer that writes to the data recorder.
func (s *Simulation) GetDBTracer() *tracing.DBTracer {
	return s.dbTracer
}

// GetCSVTraceWriter returns the CSV writer, or nil.
func (s *Simulation) GetCSVTraceWriter() *tracing.CSVTraceWriter {
	return s.csvWriter
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetStats returns the event counts of the run.
func (s *Simulation) GetStats() *tracing.StatsTracer {
	return s.stats
}

// Terminate flushes and closes the outputs.
func (s *Simulation) Terminate() error {
	if s.csvWriter != nil {
		if err := s.csvWriter.Close(); err != nil {
			return err
		}
	}

	if s.dataRecorder != nil {
		if s.dbTracer != nil {
			s.dbTracer.Terminate()
		}

		return s.dataRecorder.Close()
	}

	return nil
}
