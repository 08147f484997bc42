package segmentation

import (
	"fmt"
	"slices"
	"sort"
)

// A FreeList holds the unallocated part of the address space as ranges sorted
// by start address. After every Insert no two ranges overlap or touch.
type FreeList struct {
	ranges []AddressRange
}

// NewFreeList creates a free list covering [0, memorySize).
func NewFreeList(memorySize uint64) *FreeList {
	l := &FreeList{}
	if memorySize > 0 {
		l.ranges = []AddressRange{{Start: 0, Length: memorySize}}
	}

	return l
}

// NewFreeListFromRanges creates a free list from arbitrary ranges. The ranges
// are coalesced.
func NewFreeListFromRanges(ranges ...AddressRange) (*FreeList, error) {
	l := &FreeList{}
	for _, r := range ranges {
		if err := l.Insert(r); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Len returns the number of free ranges.
func (l *FreeList) Len() int {
	return len(l.ranges)
}

// Ranges returns a copy of the free ranges in address order.
func (l *FreeList) Ranges() []AddressRange {
	return slices.Clone(l.ranges)
}

// TotalFree returns the number of free addresses.
func (l *FreeList) TotalFree() uint64 {
	var total uint64
	for _, r := range l.ranges {
		total += r.Length
	}

	return total
}

// LargestRange returns the longest free range, the lowest one on ties. It
// returns the zero range if nothing is free.
func (l *FreeList) LargestRange() AddressRange {
	var largest AddressRange
	for _, r := range l.ranges {
		if r.Length > largest.Length {
			largest = r
		}
	}

	return largest
}

// Insert returns a range to the free list and merges it with its neighbours.
// The range must not overlap free memory. The list is left unchanged if the
// range is rejected.
func (l *FreeList) Insert(r AddressRange) error {
	if r.Length == 0 {
		return fmt.Errorf("%w: %v is empty", ErrInvalidRange, r)
	}

	i := sort.Search(len(l.ranges), func(i int) bool {
		return l.ranges[i].Start >= r.Start
	})

	if i > 0 && l.ranges[i-1].Overlaps(r) {
		return fmt.Errorf("%w: %v overlaps free range %v",
			ErrInvalidRange, r, l.ranges[i-1])
	}

	if i < len(l.ranges) && l.ranges[i].Overlaps(r) {
		return fmt.Errorf("%w: %v overlaps free range %v",
			ErrInvalidRange, r, l.ranges[i])
	}

	l.ranges = slices.Insert(l.ranges, i, r)
	l.Coalesce()

	return nil
}

// Coalesce sorts the ranges and merges every range that ends where the next
// one starts. Coalescing a coalesced list changes nothing.
func (l *FreeList) Coalesce() {
	if len(l.ranges) < 2 {
		return
	}

	slices.SortStableFunc(l.ranges, func(a, b AddressRange) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})

	merged := l.ranges[:1]
	for _, r := range l.ranges[1:] {
		last := &merged[len(merged)-1]
		if last.End() == r.Start {
			last.Length += r.Length
			continue
		}

		merged = append(merged, r)
	}

	clear(l.ranges[len(merged):])
	l.ranges = merged
}

// Allocate takes size addresses from the first free range, in address order,
// that is large enough and returns the start of the taken block. An exact fit
// removes the range; otherwise the range shrinks from its start.
func (l *FreeList) Allocate(size uint64) (uint64, error) {
	if size == 0 {
		return 0, fmt.Errorf("%w: size must be positive", ErrInvalidSize)
	}

	for i := range l.ranges {
		r := &l.ranges[i]
		if r.Length < size {
			continue
		}

		start := r.Start
		if r.Length == size {
			l.ranges = slices.Delete(l.ranges, i, i+1)
		} else {
			r.Start += size
			r.Length -= size
		}

		return start, nil
	}

	return 0, fmt.Errorf("%w: requested %d, largest free block is %d",
		ErrOutOfMemory, size, l.LargestRange().Length)
}
