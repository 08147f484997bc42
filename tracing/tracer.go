// Package tracing turns the events raised by paging engines and segment
// allocators into logs, counters, database tables and CSV files.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/memsim/hooking"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/segmentation"
)

// A Tracer consumes simulation events. The domain argument is the name of the
// engine or allocator that raised the event.
type Tracer interface {
	StartRun(domain string, run paging.Run)
	PageAccess(domain string, entry paging.TraceEntry)
	PageEvict(domain string, eviction paging.Eviction)
	EndRun(domain string, result paging.Result)
	SegmentEvent(domain string, event segmentation.SegmentEvent)
}

// CollectTrace lets the tracer collect the events of a domain.
func CollectTrace(domain hooking.Hookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(NewTraceHook(tracer))
}

// NewTraceHook wraps a tracer in a hook. It can be passed to the engine
// builders.
func NewTraceHook(tracer Tracer) hooking.Hook {
	return &traceHook{t: tracer}
}

// A traceHook is a hook that forwards events to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx hooking.HookCtx) {
	domain := ""
	if ctx.Domain != nil {
		domain = ctx.Domain.Name()
	}

	switch ctx.Pos {
	case paging.HookPosRunStart:
		h.t.StartRun(domain, ctx.Item.(paging.Run))
	case paging.HookPosPageAccess:
		h.t.PageAccess(domain, ctx.Item.(paging.TraceEntry))
	case paging.HookPosPageEvict:
		h.t.PageEvict(domain, ctx.Item.(paging.Eviction))
	case paging.HookPosRunEnd:
		h.t.EndRun(domain, ctx.Item.(paging.Result))
	case segmentation.HookPosSegmentAllocate,
		segmentation.HookPosSegmentDeallocate,
		segmentation.HookPosSegmentShow,
		segmentation.HookPosSegmentReject:
		h.t.SegmentEvent(domain, ctx.Item.(segmentation.SegmentEvent))
	}
}
