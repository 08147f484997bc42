package paging

import "container/list"

// LRUPolicy evicts the page that has not been referenced for the longest
// time.
type LRUPolicy struct {
	recency *list.List
	index   map[Page]*list.Element
}

// NewLRUPolicy returns an empty LRU policy.
func NewLRUPolicy() *LRUPolicy {
	return &LRUPolicy{
		recency: list.New(),
		index:   make(map[Page]*list.Element),
	}
}

// Name returns "LRU".
func (p *LRUPolicy) Name() string {
	return PolicyLRU
}

// Visit moves the page to the most recently used end.
func (p *LRUPolicy) Visit(page Page) {
	elem, found := p.index[page]
	if !found {
		return
	}

	p.recency.MoveToBack(elem)
}

// Insert adds the page as the most recently used one. Inserting a page that
// is already tracked counts as a visit.
func (p *LRUPolicy) Insert(page Page) {
	if elem, found := p.index[page]; found {
		p.recency.MoveToBack(elem)
		return
	}

	p.index[page] = p.recency.PushBack(page)
}

// FindVictim removes and returns the least recently used page.
func (p *LRUPolicy) FindVictim() (Page, bool) {
	oldest := p.recency.Front()
	if oldest == nil {
		return 0, false
	}

	victim := p.recency.Remove(oldest).(Page)
	delete(p.index, victim)

	return victim, true
}

// Len returns the number of tracked pages.
func (p *LRUPolicy) Len() int {
	return p.recency.Len()
}

// Reset forgets every page.
func (p *LRUPolicy) Reset() {
	p.recency.Init()
	p.index = make(map[Page]*list.Element)
}

// Order returns the tracked pages from least to most recently used.
func (p *LRUPolicy) Order() []Page {
	order := make([]Page, 0, p.recency.Len())
	for e := p.recency.Front(); e != nil; e = e.Next() {
		order = append(order, e.Value.(Page))
	}

	return order
}
