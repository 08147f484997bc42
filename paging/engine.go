package paging

import (
	"github.com/sarchlab/memsim/hooking"
)

// Hook positions raised by an Engine.
var (
	// HookPosRunStart is raised by Run before the first reference. The item
	// is the Run being started.
	HookPosRunStart = &hooking.HookPos{Name: "PagingRunStart"}

	// HookPosPageAccess is raised once per reference. The item is the
	// TraceEntry produced by the reference.
	HookPosPageAccess = &hooking.HookPos{Name: "PageAccess"}

	// HookPosPageEvict is raised when a resident page is replaced, before the
	// matching HookPosPageAccess. The item is an Eviction.
	HookPosPageEvict = &hooking.HookPos{Name: "PageEvict"}

	// HookPosRunEnd is raised by Run after the last reference. The item is the
	// Result.
	HookPosRunEnd = &hooking.HookPos{Name: "PagingRunEnd"}
)

// A Run describes a reference string about to be processed.
type Run struct {
	Policy     string
	NumFrames  int
	References []Page
}

// An Engine owns a frame table and processes page references against it.
type Engine struct {
	*hooking.HookableBase

	name   string
	policy ReplacementPolicy

	frames      []Frame
	slotOf      map[Page]int
	numResident int

	steps  int
	faults int
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// Policy returns the replacement policy used by the engine.
func (e *Engine) Policy() ReplacementPolicy {
	return e.policy
}

// NumFrames returns the capacity of the frame table.
func (e *Engine) NumFrames() int {
	return len(e.frames)
}

// Steps returns the number of references processed since the last reset.
func (e *Engine) Steps() int {
	return e.steps
}

// Faults returns the number of page faults since the last reset.
func (e *Engine) Faults() int {
	return e.faults
}

// Frames returns a copy of the frame table.
func (e *Engine) Frames() []Frame {
	return append([]Frame(nil), e.frames...)
}

// IsResident tells if the page currently occupies a frame.
func (e *Engine) IsResident(page Page) bool {
	_, found := e.slotOf[page]
	return found
}

// Reset empties the frame table and the policy.
func (e *Engine) Reset() {
	for i := range e.frames {
		e.frames[i] = Frame{}
	}

	e.slotOf = make(map[Page]int)
	e.numResident = 0
	e.steps = 0
	e.faults = 0
	e.policy.Reset()
}

// Access processes one page reference and returns the resulting trace entry.
func (e *Engine) Access(page Page) TraceEntry {
	e.steps++

	entry := TraceEntry{
		Step: e.steps,
		Page: page,
	}

	if e.IsResident(page) {
		e.policy.Visit(page)
	} else {
		entry.Fault = true
		e.faults++
		e.placePage(page, &entry)
	}

	entry.Frames = e.Frames()

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    HookPosPageAccess,
		Item:   entry,
	})

	return entry
}

func (e *Engine) placePage(page Page, entry *TraceEntry) {
	if e.numResident < len(e.frames) {
		slot := e.firstEmptySlot()
		e.fill(slot, page)
		e.numResident++

		return
	}

	if e.numResident == 0 {
		// No frame at all; nothing can become resident.
		return
	}

	victim, ok := e.policy.FindVictim()
	if !ok {
		panic("replacement policy has no victim while frames are full")
	}

	slot, found := e.slotOf[victim]
	if !found {
		panic("replacement policy chose a page that is not resident")
	}

	delete(e.slotOf, victim)
	e.fill(slot, page)

	entry.Evicted = victim
	entry.HasEvicted = true

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    HookPosPageEvict,
		Item: Eviction{
			Step:   e.steps,
			Slot:   slot,
			Victim: victim,
			Page:   page,
		},
	})
}

func (e *Engine) firstEmptySlot() int {
	for i, f := range e.frames {
		if !f.Valid {
			return i
		}
	}

	panic("no empty frame while resident set is not full")
}

func (e *Engine) fill(slot int, page Page) {
	e.frames[slot] = Frame{Page: page, Valid: true}
	e.slotOf[page] = slot
	e.policy.Insert(page)
}

// Run processes every reference in order and returns the trace. The engine is
// not reset first, so consecutive runs continue from the current frame table.
func (e *Engine) Run(refs []Page) Result {
	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    HookPosRunStart,
		Item: Run{
			Policy:     e.policy.Name(),
			NumFrames:  len(e.frames),
			References: append([]Page(nil), refs...),
		},
	})

	res := Result{
		Policy:     e.policy.Name(),
		NumFrames:  len(e.frames),
		References: append([]Page(nil), refs...),
		Trace:      make([]TraceEntry, 0, len(refs)),
	}

	for _, page := range refs {
		entry := e.Access(page)
		if entry.Fault {
			res.Faults++
		}

		res.Trace = append(res.Trace, entry)
	}

	e.InvokeHook(hooking.HookCtx{
		Domain: e,
		Pos:    HookPosRunEnd,
		Item:   res,
	})

	return res
}
