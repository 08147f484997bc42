package paging

import (
	"fmt"
	"strings"
)

// Supported replacement policy names.
const (
	PolicyFIFO = "FIFO"
	PolicyLRU  = "LRU"
)

// A ReplacementPolicy decides which resident page leaves the frame table when
// a page fault happens and every frame is in use.
//
// The policy keeps its own ordering of the resident pages. The engine keeps
// that ordering in step with the frame table: every page it places in a frame
// is Inserted, every hit is Visited, and FindVictim removes the page it
// returns.
type ReplacementPolicy interface {
	// Name returns the name of the policy, for example "LRU".
	Name() string

	// Visit records a reference to a page that is already resident.
	Visit(page Page)

	// Insert records that a page became resident.
	Insert(page Page)

	// FindVictim removes and returns the page to evict. It returns false if
	// the policy tracks no page.
	FindVictim() (Page, bool)

	// Len returns the number of pages the policy tracks.
	Len() int

	// Reset forgets every tracked page.
	Reset()
}

// PolicyNames lists the supported policies.
func PolicyNames() []string {
	return []string{PolicyFIFO, PolicyLRU}
}

// NewPolicy creates an empty policy from its name. Names are matched without
// regard to case or surrounding spaces.
func NewPolicy(name string) (ReplacementPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case PolicyFIFO:
		return NewFIFOPolicy(), nil
	case PolicyLRU:
		return NewLRUPolicy(), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)",
			ErrUnknownPolicy, name, strings.Join(PolicyNames(), ", "))
	}
}
