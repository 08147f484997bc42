package tracing

import (
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/segmentation"
	"github.com/tebeka/atexit"
)

// DBTracer is a tracer that stores paging traces and segment commands in a
// DataRecorder. Every paging run and every allocator session gets its own
// ID so that one database can hold many of them.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	runIDs     map[string]string
	sessionIDs map[string]string
	segmentSeq map[string]int
}

// NewDBTracer creates a new DBTracer and the tables it writes to.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	dataRecorder.CreateTable(TablePagingRun, PagingRunRecord{})
	dataRecorder.CreateTable(TablePageAccess, PageAccessRecord{})
	dataRecorder.CreateTable(TableSegmentEvent, SegmentEventRecord{})

	t := &DBTracer{
		backend:    dataRecorder,
		runIDs:     make(map[string]string),
		sessionIDs: make(map[string]string),
		segmentSeq: make(map[string]int),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// RunID returns the ID of the current run of a paging engine, or "" if the
// engine has not been seen.
func (t *DBTracer) RunID(domain string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.runIDs[domain]
}

// SessionID returns the ID given to an allocator, or "" if the allocator has
// not been seen.
func (t *DBTracer) SessionID(domain string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sessionIDs[domain]
}

// StartRun gives the run a new ID.
func (t *DBTracer) StartRun(domain string, _ paging.Run) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.runIDs[domain] = xid.New().String()
}

// PageAccess records one step.
func (t *DBTracer) PageAccess(domain string, entry paging.TraceEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(TablePageAccess, PageAccessRecord{
		RunID:      t.runID(domain),
		Domain:     domain,
		Step:       entry.Step,
		Page:       int(entry.Page),
		Frames:     renderFrames(entry),
		Fault:      entry.Fault,
		HasEvicted: entry.HasEvicted,
		Evicted:    int(entry.Evicted),
	})
}

// PageEvict does nothing. Evictions are part of the access records.
func (t *DBTracer) PageEvict(string, paging.Eviction) {}

// EndRun records the run summary.
func (t *DBTracer) EndRun(domain string, result paging.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(TablePagingRun, PagingRunRecord{
		RunID:     t.runID(domain),
		Domain:    domain,
		Policy:    result.Policy,
		NumFrames: result.NumFrames,
		RefString: paging.FormatReferences(result.References),
		Accesses:  len(result.Trace),
		Faults:    result.Faults,
		FaultRate: result.FaultRate(),
	})
}

// SegmentEvent records a segment command.
func (t *DBTracer) SegmentEvent(
	domain string,
	event segmentation.SegmentEvent,
) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.sessionIDs[domain]
	if !ok {
		id = xid.New().String()
		t.sessionIDs[domain] = id
	}

	t.segmentSeq[domain]++

	record := SegmentEventRecord{
		SessionID:   id,
		Domain:      domain,
		Seq:         t.segmentSeq[domain],
		Op:          event.Op,
		SegmentID:   event.Segment.ID,
		Start:       event.Segment.Range.Start,
		Length:      event.Segment.Range.Length,
		Size:        event.Size,
		NumSegments: len(event.Snapshot.Segments),
		TotalFree:   event.Snapshot.TotalFree(),
		LargestFree: event.Snapshot.LargestFree(),
	}

	if event.Err != nil {
		record.Error = event.Err.Error()
	}

	t.backend.InsertData(TableSegmentEvent, record)
}

// Terminate flushes the recorded rows.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}

// runID returns the current run of the domain. Accesses made outside Run get
// a run of their own.
func (t *DBTracer) runID(domain string) string {
	id, ok := t.runIDs[domain]
	if !ok {
		id = xid.New().String()
		t.runIDs[domain] = id
	}

	return id
}
