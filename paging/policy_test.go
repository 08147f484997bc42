package paging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FIFOPolicy", func() {
	var p *FIFOPolicy

	BeforeEach(func() {
		p = NewFIFOPolicy()
	})

	It("should have no victim when empty", func() {
		_, ok := p.FindVictim()
		Expect(ok).To(BeFalse())
	})

	It("should evict in insertion order", func() {
		p.Insert(7)
		p.Insert(0)
		p.Insert(1)

		victim, ok := p.FindVictim()
		Expect(ok).To(BeTrue())
		Expect(victim).To(Equal(Page(7)))
		Expect(p.Queue()).To(Equal([]Page{0, 1}))
	})

	It("should ignore hits", func() {
		p.Insert(7)
		p.Insert(0)
		p.Visit(7)

		victim, _ := p.FindVictim()
		Expect(victim).To(Equal(Page(7)))
	})

	It("should forget everything on reset", func() {
		p.Insert(1)
		p.Reset()

		Expect(p.Len()).To(Equal(0))
	})
})

var _ = Describe("LRUPolicy", func() {
	var p *LRUPolicy

	BeforeEach(func() {
		p = NewLRUPolicy()
	})

	It("should have no victim when empty", func() {
		_, ok := p.FindVictim()
		Expect(ok).To(BeFalse())
	})

	It("should move visited pages to the most recent end", func() {
		p.Insert(7)
		p.Insert(0)
		p.Insert(1)
		p.Visit(7)

		Expect(p.Order()).To(Equal([]Page{0, 1, 7}))

		victim, ok := p.FindVictim()
		Expect(ok).To(BeTrue())
		Expect(victim).To(Equal(Page(0)))
		Expect(p.Len()).To(Equal(2))
	})

	It("should ignore visits to untracked pages", func() {
		p.Insert(1)
		p.Visit(2)

		Expect(p.Order()).To(Equal([]Page{1}))
	})

	It("should not track a page twice", func() {
		p.Insert(1)
		p.Insert(2)
		p.Insert(1)

		Expect(p.Order()).To(Equal([]Page{2, 1}))
	})

	It("should forget everything on reset", func() {
		p.Insert(1)
		p.Insert(2)
		p.Reset()

		Expect(p.Len()).To(Equal(0))
		Expect(p.Order()).To(BeEmpty())
	})
})

var _ = Describe("NewPolicy", func() {
	DescribeTable("should create policies by name",
		func(name, want string) {
			p, err := NewPolicy(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(want))
		},
		Entry("fifo", "fifo", PolicyFIFO),
		Entry("FIFO", "FIFO", PolicyFIFO),
		Entry("padded lru", "  Lru ", PolicyLRU),
	)

	It("should reject unknown names", func() {
		_, err := NewPolicy("clock")
		Expect(err).To(MatchError(ErrUnknownPolicy))
		Expect(err.Error()).To(ContainSubstring("clock"))
	})
})
