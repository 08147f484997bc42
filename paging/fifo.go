package paging

// FIFOPolicy evicts the page that has been resident the longest. Hits do not
// change the order.
type FIFOPolicy struct {
	queue []Page
}

// NewFIFOPolicy returns an empty FIFO policy.
func NewFIFOPolicy() *FIFOPolicy {
	return &FIFOPolicy{}
}

// Name returns "FIFO".
func (p *FIFOPolicy) Name() string {
	return PolicyFIFO
}

// Visit does nothing. Arrival order is all that matters.
func (p *FIFOPolicy) Visit(Page) {}

// Insert appends the page to the tail of the queue.
func (p *FIFOPolicy) Insert(page Page) {
	p.queue = append(p.queue, page)
}

// FindVictim pops the head of the queue.
func (p *FIFOPolicy) FindVictim() (Page, bool) {
	if len(p.queue) == 0 {
		return 0, false
	}

	victim := p.queue[0]
	p.queue = p.queue[1:]

	return victim, true
}

// Len returns the number of queued pages.
func (p *FIFOPolicy) Len() int {
	return len(p.queue)
}

// Reset empties the queue.
func (p *FIFOPolicy) Reset() {
	p.queue = nil
}

// Queue returns the queued pages, oldest first.
func (p *FIFOPolicy) Queue() []Page {
	return append([]Page(nil), p.queue...)
}
