package segmentation

import (
	"fmt"
	"sort"
)

// A Snapshot is a copy of the allocator state. Segments and free ranges are
// sorted by start address.
type Snapshot struct {
	MemorySize uint64
	Segments   []Segment
	Free       []AddressRange
}

// TotalAllocated returns the number of allocated addresses.
func (s Snapshot) TotalAllocated() uint64 {
	var total uint64
	for _, seg := range s.Segments {
		total += seg.Range.Length
	}

	return total
}

// TotalFree returns the number of free addresses.
func (s Snapshot) TotalFree() uint64 {
	var total uint64
	for _, r := range s.Free {
		total += r.Length
	}

	return total
}

// LargestFree returns the length of the longest free range.
func (s Snapshot) LargestFree() uint64 {
	var largest uint64
	for _, r := range s.Free {
		largest = max(largest, r.Length)
	}

	return largest
}

// Fragmentation returns the external fragmentation of the free memory, that is
// 1 - largest free range / total free memory. It is 0 when free memory is a
// single range or there is none.
func (s Snapshot) Fragmentation() float64 {
	total := s.TotalFree()
	if total == 0 {
		return 0
	}

	return 1 - float64(s.LargestFree())/float64(total)
}

type taggedRange struct {
	AddressRange
	owner string
}

// Verify checks that segments and free ranges tile [0, MemorySize) without
// gaps or overlaps and that no two free ranges touch.
func (s Snapshot) Verify() error {
	all := make([]taggedRange, 0, len(s.Segments)+len(s.Free))
	for _, seg := range s.Segments {
		all = append(all, taggedRange{seg.Range, "segment " + seg.ID})
	}

	for _, r := range s.Free {
		all = append(all, taggedRange{r, "free range"})
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Start < all[j].Start
	})

	var next uint64
	for _, r := range all {
		if r.Length == 0 {
			return fmt.Errorf("%w: %s %v is empty", ErrCorruptedState, r.owner, r.AddressRange)
		}

		if r.Start < next {
			return fmt.Errorf("%w: %s %v overlaps address %d",
				ErrCorruptedState, r.owner, r.AddressRange, r.Start)
		}

		if r.Start > next {
			return fmt.Errorf("%w: addresses [%d, %d) are neither free nor allocated",
				ErrCorruptedState, next, r.Start)
		}

		next = r.End()
	}

	if next != s.MemorySize {
		return fmt.Errorf("%w: ranges cover [0, %d), memory size is %d",
			ErrCorruptedState, next, s.MemorySize)
	}

	for i := 1; i < len(s.Free); i++ {
		if s.Free[i-1].End() >= s.Free[i].Start {
			return fmt.Errorf("%w: free ranges %v and %v are not coalesced",
				ErrCorruptedState, s.Free[i-1], s.Free[i])
		}
	}

	return nil
}
