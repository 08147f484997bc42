package segmentation

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func r(start, length uint64) AddressRange {
	return AddressRange{Start: start, Length: length}
}

var _ = Describe("AddressRange", func() {
	It("should tell overlaps and adjacency apart", func() {
		Expect(r(0, 10).Overlaps(r(5, 10))).To(BeTrue())
		Expect(r(0, 10).Overlaps(r(10, 5))).To(BeFalse())
		Expect(r(0, 10).Adjacent(r(10, 5))).To(BeTrue())
		Expect(r(10, 5).Adjacent(r(0, 10))).To(BeTrue())
		Expect(r(0, 10).Contains(9)).To(BeTrue())
		Expect(r(0, 10).Contains(10)).To(BeFalse())
		Expect(r(3, 4).String()).To(Equal("[3, 7)"))
	})
})

var _ = Describe("FreeList", func() {
	It("should start with the whole memory free", func() {
		l := NewFreeList(100)
		Expect(l.Ranges()).To(Equal([]AddressRange{r(0, 100)}))
		Expect(l.TotalFree()).To(Equal(uint64(100)))
	})

	It("should be empty for a zero sized memory", func() {
		l := NewFreeList(0)
		Expect(l.Len()).To(Equal(0))

		_, err := l.Allocate(1)
		Expect(err).To(MatchError(ErrOutOfMemory))
	})

	Context("first fit", func() {
		var l *FreeList

		BeforeEach(func() {
			var err error
			l, err = NewFreeListFromRanges(r(0, 10), r(20, 5), r(30, 8))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should take the lowest range that is large enough", func() {
			start, err := l.Allocate(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(start).To(Equal(uint64(0)))
			Expect(l.Ranges()).To(Equal([]AddressRange{
				r(5, 5), r(20, 5), r(30, 8),
			}))
		})

		It("should skip ranges that are too small", func() {
			start, err := l.Allocate(8)
			Expect(err).NotTo(HaveOccurred())
			Expect(start).To(Equal(uint64(0)))

			start, err = l.Allocate(6)
			Expect(err).NotTo(HaveOccurred())
			Expect(start).To(Equal(uint64(30)))
			Expect(l.Ranges()).To(Equal([]AddressRange{
				r(8, 2), r(20, 5), r(36, 2),
			}))
		})

		It("should remove a range on an exact fit", func() {
			_, err := l.Allocate(10)
			Expect(err).NotTo(HaveOccurred())

			start, err := l.Allocate(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(start).To(Equal(uint64(20)))
			Expect(l.Ranges()).To(Equal([]AddressRange{r(30, 8)}))
		})

		It("should fail without changes when nothing fits", func() {
			before := l.Ranges()

			_, err := l.Allocate(11)
			Expect(err).To(MatchError(ErrOutOfMemory))
			Expect(l.Ranges()).To(Equal(before))
		})

		It("should reject a zero size", func() {
			_, err := l.Allocate(0)
			Expect(err).To(MatchError(ErrInvalidSize))
		})

		It("should report the largest range", func() {
			Expect(l.LargestRange()).To(Equal(r(0, 10)))
			Expect(l.TotalFree()).To(Equal(uint64(23)))
		})
	})

	Context("inserting", func() {
		It("should merge with both neighbours", func() {
			l, err := NewFreeListFromRanges(r(0, 10), r(20, 5))
			Expect(err).NotTo(HaveOccurred())

			Expect(l.Insert(r(10, 10))).To(Succeed())
			Expect(l.Ranges()).To(Equal([]AddressRange{r(0, 25)}))
		})

		It("should keep ranges that do not touch apart", func() {
			l, err := NewFreeListFromRanges(r(30, 5), r(0, 10))
			Expect(err).NotTo(HaveOccurred())

			Expect(l.Insert(r(15, 5))).To(Succeed())
			Expect(l.Ranges()).To(Equal([]AddressRange{
				r(0, 10), r(15, 5), r(30, 5),
			}))
		})

		It("should reject overlapping ranges without changes", func() {
			l, err := NewFreeListFromRanges(r(0, 10), r(20, 5))
			Expect(err).NotTo(HaveOccurred())

			Expect(l.Insert(r(5, 3))).To(MatchError(ErrInvalidRange))
			Expect(l.Insert(r(15, 6))).To(MatchError(ErrInvalidRange))
			Expect(l.Insert(r(20, 1))).To(MatchError(ErrInvalidRange))
			Expect(l.Insert(r(12, 0))).To(MatchError(ErrInvalidRange))
			Expect(l.Ranges()).To(Equal([]AddressRange{r(0, 10), r(20, 5)}))
		})
	})

	Context("coalescing", func() {
		It("should merge unsorted touching ranges", func() {
			l := &FreeList{ranges: []AddressRange{
				r(10, 5), r(0, 10), r(40, 2), r(15, 5), r(30, 10),
			}}

			l.Coalesce()

			Expect(l.Ranges()).To(Equal([]AddressRange{r(0, 20), r(30, 12)}))
		})

		It("should be idempotent", func() {
			l := &FreeList{ranges: []AddressRange{
				r(7, 3), r(0, 2), r(2, 5), r(50, 1), r(12, 1),
			}}

			l.Coalesce()
			once := l.Ranges()
			l.Coalesce()

			Expect(l.Ranges()).To(Equal(once))
			Expect(once).To(Equal([]AddressRange{r(0, 10), r(12, 1), r(50, 1)}))
		})
	})
})
