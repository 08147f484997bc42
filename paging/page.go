// Package paging simulates demand paging over a fixed-size frame table.
//
// An Engine feeds a reference string through the frame table one page at a
// time. When a referenced page is not resident, the engine records a page
// fault and, if every frame is taken, asks its ReplacementPolicy which
// resident page to evict. Every reference yields a TraceEntry so that the
// whole run can be replayed step by step.
package paging

import (
	"strconv"
	"strings"
)

// EmptyMarker is how an unoccupied frame is rendered.
const EmptyMarker = "-"

// A Page is the identifier of a virtual page.
type Page int

// A Frame is one slot of the frame table.
type Frame struct {
	Page  Page
	Valid bool
}

// String renders the frame as its page number, or EmptyMarker if the frame
// does not hold a page.
func (f Frame) String() string {
	if !f.Valid {
		return EmptyMarker
	}

	return strconv.Itoa(int(f.Page))
}

// A TraceEntry is the state of the frame table right after one reference.
type TraceEntry struct {
	// Step is the 1-based position of the reference in the reference string.
	Step int

	// Page is the page that was referenced.
	Page Page

	// Frames holds one element per frame, in slot order. Unused frames are
	// not Valid.
	Frames []Frame

	// Fault tells if the reference caused a page fault.
	Fault bool

	// Evicted is the page that was replaced. Only meaningful if HasEvicted.
	Evicted    Page
	HasEvicted bool
}

// States renders the frames of the entry, EmptyMarker for unused frames.
func (e TraceEntry) States() []string {
	states := make([]string, len(e.Frames))
	for i, f := range e.Frames {
		states[i] = f.String()
	}

	return states
}

// String renders the entry the way the step table prints it, for example
// "[7 0 -] Fault".
func (e TraceEntry) String() string {
	s := "[" + strings.Join(e.States(), " ") + "]"
	if e.Fault {
		s += " Fault"
	}

	return s
}

// An Eviction records that a resident page was replaced.
type Eviction struct {
	Step   int
	Slot   int
	Victim Page
	Page   Page
}
