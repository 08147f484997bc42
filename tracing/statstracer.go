package tracing

import (
	"sync"

	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/segmentation"
)

// Stats are the event counts collected by a StatsTracer.
type Stats struct {
	Runs      int
	Accesses  int
	Faults    int
	Hits      int
	Evictions int

	Allocations   int
	Deallocations int
	Shows         int
	Rejections    int
}

// FaultRate returns the fraction of accesses that faulted.
func (s Stats) FaultRate() float64 {
	if s.Accesses == 0 {
		return 0
	}

	return float64(s.Faults) / float64(s.Accesses)
}

// StatsTracer counts events, in total and per domain.
type StatsTracer struct {
	lock     sync.Mutex
	total    Stats
	byDomain map[string]*Stats
}

// NewStatsTracer creates a new StatsTracer.
func NewStatsTracer() *StatsTracer {
	return &StatsTracer{
		byDomain: make(map[string]*Stats),
	}
}

// Total returns the counts over all domains.
func (t *StatsTracer) Total() Stats {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.total
}

// Domain returns the counts of one domain.
func (t *StatsTracer) Domain(name string) Stats {
	t.lock.Lock()
	defer t.lock.Unlock()

	if s, ok := t.byDomain[name]; ok {
		return *s
	}

	return Stats{}
}

func (t *StatsTracer) update(domain string, f func(s *Stats)) {
	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.byDomain[domain]
	if !ok {
		s = &Stats{}
		t.byDomain[domain] = s
	}

	f(s)
	f(&t.total)
}

// StartRun counts a run.
func (t *StatsTracer) StartRun(domain string, _ paging.Run) {
	t.update(domain, func(s *Stats) { s.Runs++ })
}

// PageAccess counts a hit or a fault.
func (t *StatsTracer) PageAccess(domain string, entry paging.TraceEntry) {
	t.update(domain, func(s *Stats) {
		s.Accesses++
		if entry.Fault {
			s.Faults++
		} else {
			s.Hits++
		}
	})
}

// PageEvict counts an eviction.
func (t *StatsTracer) PageEvict(domain string, _ paging.Eviction) {
	t.update(domain, func(s *Stats) { s.Evictions++ })
}

// EndRun does nothing.
func (t *StatsTracer) EndRun(string, paging.Result) {}

// SegmentEvent counts a segment command.
func (t *StatsTracer) SegmentEvent(
	domain string,
	event segmentation.SegmentEvent,
) {
	t.update(domain, func(s *Stats) {
		switch {
		case event.Err != nil:
			s.Rejections++
		case event.Op == segmentation.OpAllocate:
			s.Allocations++
		case event.Op == segmentation.OpDeallocate:
			s.Deallocations++
		case event.Op == segmentation.OpShow:
			s.Shows++
		}
	})
}
