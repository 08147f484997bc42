package tracing

import (
	"log"
	"strings"

	"github.com/sarchlab/memsim/hooking"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/segmentation"
)

// A LogHook writes one line per event to a logger.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func logs the event.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	domain := ""
	if ctx.Domain != nil {
		domain = ctx.Domain.Name()
	}

	switch item := ctx.Item.(type) {
	case paging.Run:
		h.Printf("%s: start %s, %d frames, %d references",
			domain, item.Policy, item.NumFrames, len(item.References))
	case paging.TraceEntry:
		h.Printf("%s: step %d, page %d: %s",
			domain, item.Step, item.Page, item)
	case paging.Eviction:
		h.Printf("%s: step %d, page %d replaces page %d in frame %d",
			domain, item.Step, item.Page, item.Victim, item.Slot)
	case paging.Result:
		h.Printf("%s: end %s, %d faults, %d hits",
			domain, item.Policy, item.Faults, item.Hits())
	case segmentation.SegmentEvent:
		h.logSegmentEvent(domain, item)
	default:
		h.Printf("%s: %s", domain, ctx.Pos.Name)
	}
}

func (h *LogHook) logSegmentEvent(domain string, e segmentation.SegmentEvent) {
	if e.Err != nil {
		h.Printf("%s: %s %s rejected: %v", domain, e.Op, e.Segment.ID, e.Err)
		return
	}

	if e.Op == segmentation.OpShow {
		free := make([]string, 0, len(e.Snapshot.Free))
		for _, r := range e.Snapshot.Free {
			free = append(free, r.String())
		}

		h.Printf("%s: show, %d segments, free %s",
			domain, len(e.Snapshot.Segments), strings.Join(free, " "))

		return
	}

	h.Printf("%s: %s %s %s, %d free",
		domain, e.Op, e.Segment.ID, e.Segment.Range, e.Snapshot.TotalFree())
}
