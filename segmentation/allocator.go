package segmentation

import (
	"fmt"
	"sort"

	"github.com/sarchlab/memsim/hooking"
)

// Hook positions raised by an Allocator. The item is always a SegmentEvent.
var (
	HookPosSegmentAllocate   = &hooking.HookPos{Name: "SegmentAllocate"}
	HookPosSegmentDeallocate = &hooking.HookPos{Name: "SegmentDeallocate"}
	HookPosSegmentShow       = &hooking.HookPos{Name: "SegmentShow"}

	// HookPosSegmentReject is raised when a command fails. The state did not
	// change.
	HookPosSegmentReject = &hooking.HookPos{Name: "SegmentReject"}
)

// Operation names carried by SegmentEvent.
const (
	OpAllocate   = "allocate"
	OpDeallocate = "deallocate"
	OpShow       = "show"
)

// A Segment is an allocated, named address range.
type Segment struct {
	ID    string
	Range AddressRange
}

// A SegmentEvent describes one command applied to an allocator.
type SegmentEvent struct {
	Op      string
	Segment Segment

	// Size is the requested size of a rejected allocation.
	Size int64

	// Err is set for rejected commands.
	Err error

	// Snapshot is the allocator state after the command.
	Snapshot Snapshot
}

// An Allocator places segments in one linear address space with first-fit.
type Allocator struct {
	*hooking.HookableBase

	name       string
	memorySize uint64
	free       *FreeList
	segments   map[string]AddressRange
}

// NewAllocator creates an allocator with nothing allocated.
func NewAllocator(memorySize uint64) *Allocator {
	return MakeBuilder().WithMemorySize(memorySize).Build("Allocator")
}

// Name returns the name of the allocator.
func (a *Allocator) Name() string {
	return a.name
}

// MemorySize returns the size of the address space.
func (a *Allocator) MemorySize() uint64 {
	return a.memorySize
}

// NumSegments returns the number of live segments.
func (a *Allocator) NumSegments() int {
	return len(a.segments)
}

// Segment looks up a live segment.
func (a *Allocator) Segment(id string) (Segment, bool) {
	r, found := a.segments[id]
	if !found {
		return Segment{}, false
	}

	return Segment{ID: id, Range: r}, true
}

// FreeRanges returns the free ranges in address order.
func (a *Allocator) FreeRanges() []AddressRange {
	return a.free.Ranges()
}

// Allocate creates a segment of size addresses at the lowest address where it
// fits. Nothing changes if the allocation fails.
func (a *Allocator) Allocate(id string, size int64) (Segment, error) {
	if _, found := a.segments[id]; found {
		return a.reject(OpAllocate, id, size,
			fmt.Errorf("%w: %s", ErrDuplicateSegment, id))
	}

	if size <= 0 {
		return a.reject(OpAllocate, id, size,
			fmt.Errorf("%w: %d is not positive", ErrInvalidSize, size))
	}

	start, err := a.free.Allocate(uint64(size))
	if err != nil {
		return a.reject(OpAllocate, id, size, err)
	}

	seg := Segment{
		ID:    id,
		Range: AddressRange{Start: start, Length: uint64(size)},
	}
	a.segments[id] = seg.Range

	a.notify(HookPosSegmentAllocate, SegmentEvent{
		Op:      OpAllocate,
		Segment: seg,
		Size:    size,
	})

	return seg, nil
}

// Deallocate removes a segment and returns its range to the free list.
func (a *Allocator) Deallocate(id string) (Segment, error) {
	r, found := a.segments[id]
	if !found {
		return a.reject(OpDeallocate, id, 0,
			fmt.Errorf("%w: %s", ErrUnknownSegment, id))
	}

	if err := a.free.Insert(r); err != nil {
		return a.reject(OpDeallocate, id, 0,
			fmt.Errorf("%w: %w", ErrCorruptedState, err))
	}

	delete(a.segments, id)

	seg := Segment{ID: id, Range: r}
	a.notify(HookPosSegmentDeallocate, SegmentEvent{
		Op:      OpDeallocate,
		Segment: seg,
	})

	return seg, nil
}

// Show returns the current state without changing it.
func (a *Allocator) Show() Snapshot {
	snapshot := a.snapshot()

	if a.NumHooks() > 0 {
		a.InvokeHook(hooking.HookCtx{
			Domain: a,
			Pos:    HookPosSegmentShow,
			Item:   SegmentEvent{Op: OpShow, Snapshot: snapshot},
		})
	}

	return snapshot
}

func (a *Allocator) snapshot() Snapshot {
	segments := make([]Segment, 0, len(a.segments))
	for id, r := range a.segments {
		segments = append(segments, Segment{ID: id, Range: r})
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Range.Start < segments[j].Range.Start
	})

	return Snapshot{
		MemorySize: a.memorySize,
		Segments:   segments,
		Free:       a.free.Ranges(),
	}
}

func (a *Allocator) reject(
	op, id string,
	size int64,
	err error,
) (Segment, error) {
	a.notify(HookPosSegmentReject, SegmentEvent{
		Op:      op,
		Segment: Segment{ID: id},
		Size:    size,
		Err:     err,
	})

	return Segment{}, err
}

func (a *Allocator) notify(pos *hooking.HookPos, event SegmentEvent) {
	if a.NumHooks() == 0 {
		return
	}

	event.Snapshot = a.snapshot()

	a.InvokeHook(hooking.HookCtx{
		Domain: a,
		Pos:    pos,
		Item:   event,
	})
}

// Verify checks that segments and free ranges tile [0, MemorySize) without
// gaps or overlaps and that no two free ranges touch.
func (a *Allocator) Verify() error {
	return a.snapshot().Verify()
}
