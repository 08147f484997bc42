package tracing

import (
	"strings"

	"github.com/sarchlab/memsim/paging"
)

// Tables written by a DBTracer.
const (
	TablePagingRun    = "paging_run"
	TablePageAccess   = "page_access"
	TableSegmentEvent = "segment_event"
)

// A PagingRunRecord summarizes one paging run.
type PagingRunRecord struct {
	RunID     string
	Domain    string
	Policy    string
	NumFrames int
	RefString string
	Accesses  int
	Faults    int
	FaultRate float64
}

// A PageAccessRecord is one row of the step table.
type PageAccessRecord struct {
	RunID      string
	Domain     string
	Step       int
	Page       int
	Frames     string
	Fault      bool
	HasEvicted bool
	Evicted    int
}

// A SegmentEventRecord is one segment command and the state it left.
type SegmentEventRecord struct {
	SessionID   string
	Domain      string
	Seq         int
	Op          string
	SegmentID   string
	Start       uint64
	Length      uint64
	Size        int64
	Error       string
	NumSegments int
	TotalFree   uint64
	LargestFree uint64
}

func renderFrames(entry paging.TraceEntry) string {
	return strings.Join(entry.States(), " ")
}
