// Package segmentation simulates segmented memory over one linear address
// space.
//
// Free memory is kept in a FreeList of disjoint address ranges. An Allocator
// places segments with first-fit and returns their ranges to the free list
// when they are deallocated, merging free ranges that touch. An Interpreter
// drives an Allocator with textual commands.
package segmentation

import "fmt"

// An AddressRange is the half-open range [Start, Start+Length).
type AddressRange struct {
	Start  uint64
	Length uint64
}

// End returns the first address after the range.
func (r AddressRange) End() uint64 {
	return r.Start + r.Length
}

// Contains tells if addr falls inside the range.
func (r AddressRange) Contains(addr uint64) bool {
	return addr >= r.Start && addr < r.End()
}

// Overlaps tells if the two ranges share at least one address.
func (r AddressRange) Overlaps(o AddressRange) bool {
	return r.Start < o.End() && o.Start < r.End()
}

// Adjacent tells if one range ends exactly where the other starts.
func (r AddressRange) Adjacent(o AddressRange) bool {
	return r.End() == o.Start || o.End() == r.Start
}

func (r AddressRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End())
}
