package paging

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsim/hooking"
)

func residentPages(frames []Frame) []Page {
	pages := []Page{}
	for _, f := range frames {
		if f.Valid {
			pages = append(pages, f.Page)
		}
	}

	return pages
}

var _ = Describe("Engine", func() {
	var (
		mockCtrl *gomock.Controller
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("with FIFO on the textbook reference string", func() {
		var res Result

		BeforeEach(func() {
			var err error
			res, err = Simulate(DefaultReferences(), 3, "fifo")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should count the faults", func() {
			Expect(res.Faults).To(Equal(10))
			Expect(res.Hits()).To(Equal(3))
			Expect(res.Policy).To(Equal(PolicyFIFO))
		})

		It("should pad the first step with empty frames", func() {
			Expect(res.Trace[0].States()).To(Equal([]string{"7", "-", "-"}))
			Expect(res.Trace[0].Fault).To(BeTrue())
			Expect(res.Trace[0].String()).To(Equal("[7 - -] Fault"))
		})

		It("should keep the slot of the evicted page", func() {
			step := res.Trace[3]
			Expect(step.Page).To(Equal(Page(2)))
			Expect(step.HasEvicted).To(BeTrue())
			Expect(step.Evicted).To(Equal(Page(7)))
			Expect(step.States()).To(Equal([]string{"2", "0", "1"}))
		})

		It("should not reorder on a hit", func() {
			Expect(res.Trace[4].Fault).To(BeFalse())
			Expect(res.Trace[5].Evicted).To(Equal(Page(0)))
			Expect(res.Trace[5].States()).To(Equal([]string{"2", "3", "1"}))
		})

		It("should end with the expected frames", func() {
			last := res.Trace[len(res.Trace)-1]
			Expect(last.States()).To(Equal([]string{"0", "2", "3"}))
			Expect(last.Fault).To(BeFalse())
		})
	})

	Context("with LRU on the textbook reference string", func() {
		var res Result

		BeforeEach(func() {
			var err error
			res, err = Simulate(DefaultReferences(), 3, "LRU")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should count the faults", func() {
			Expect(res.Faults).To(Equal(9))
		})

		It("should evict the least recently used page", func() {
			// After 7,0,1,2,0 the least recently used page is 1.
			Expect(res.Trace[5].Evicted).To(Equal(Page(1)))
			Expect(res.Trace[5].States()).To(Equal([]string{"2", "0", "3"}))
		})

		It("should end with the expected frames", func() {
			last := res.Trace[len(res.Trace)-1]
			Expect(last.States()).To(Equal([]string{"0", "3", "2"}))
		})
	})

	It("should fault on every reference without frames", func() {
		res, err := Simulate([]Page{1, 1, 2}, 0, "lru")
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Faults).To(Equal(3))
		for _, entry := range res.Trace {
			Expect(entry.Frames).To(BeEmpty())
			Expect(entry.HasEvicted).To(BeFalse())
		}
	})

	It("should produce an empty trace for an empty reference string", func() {
		res, err := Simulate(nil, 3, "fifo")
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Trace).To(BeEmpty())
		Expect(res.Faults).To(Equal(0))
		Expect(res.FaultRate()).To(Equal(0.0))
	})

	It("should reject unknown policies and negative frame counts", func() {
		_, err := Simulate(DefaultReferences(), 3, "optimal")
		Expect(err).To(MatchError(ErrUnknownPolicy))

		_, err = Simulate(DefaultReferences(), -1, "fifo")
		Expect(err).To(MatchError(ErrInvalidFrameCount))
	})

	It("should panic when built with a negative frame count", func() {
		Expect(func() {
			MakeBuilder().WithNumFrames(-2).Build("bad")
		}).To(Panic())
	})

	It("should keep the trace independent of later references", func() {
		e := MakeBuilder().WithNumFrames(1).Build("e")

		first := e.Access(1)
		e.Access(2)

		Expect(first.States()).To(Equal([]string{"1"}))
	})

	It("should drive the policy", func() {
		policy := NewMockReplacementPolicy(mockCtrl)
		policy.EXPECT().Reset()

		e := MakeBuilder().WithNumFrames(2).WithPolicy(policy).Build("e")

		gomock.InOrder(
			policy.EXPECT().Insert(Page(1)),
			policy.EXPECT().Insert(Page(2)),
			policy.EXPECT().FindVictim().Return(Page(2), true),
			policy.EXPECT().Insert(Page(3)),
			policy.EXPECT().Visit(Page(1)),
		)

		e.Access(1)
		e.Access(2)
		entry := e.Access(3)
		Expect(entry.States()).To(Equal([]string{"1", "3"}))

		entry = e.Access(1)
		Expect(entry.Fault).To(BeFalse())
		Expect(e.Faults()).To(Equal(3))
		Expect(e.Steps()).To(Equal(4))
	})

	It("should panic if the policy picks a page that is not resident", func() {
		policy := NewMockReplacementPolicy(mockCtrl)
		policy.EXPECT().Reset()
		policy.EXPECT().Insert(Page(1))
		policy.EXPECT().FindVictim().Return(Page(9), true)

		e := MakeBuilder().WithNumFrames(1).WithPolicy(policy).Build("e")
		e.Access(1)

		Expect(func() { e.Access(2) }).To(Panic())
	})

	It("should invoke hooks for every step", func() {
		hook := NewMockHook(mockCtrl)
		positions := []*hooking.HookPos{}
		hook.EXPECT().
			Func(gomock.Any()).
			Do(func(ctx hooking.HookCtx) {
				positions = append(positions, ctx.Pos)
			}).
			AnyTimes()

		_, err := Simulate([]Page{1, 2, 1, 3}, 2, "fifo", hook)
		Expect(err).NotTo(HaveOccurred())

		Expect(positions).To(Equal([]*hooking.HookPos{
			HookPosRunStart,
			HookPosPageAccess,
			HookPosPageAccess,
			HookPosPageAccess,
			HookPosPageEvict,
			HookPosPageAccess,
			HookPosRunEnd,
		}))
	})

	It("should report evictions with the victim and slot", func() {
		var evictions []Eviction
		e := MakeBuilder().
			WithNumFrames(2).
			WithHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				if ctx.Pos == HookPosPageEvict {
					evictions = append(evictions, ctx.Item.(Eviction))
				}
			})).
			Build("e")

		e.Run([]Page{1, 2, 3})

		Expect(evictions).To(Equal([]Eviction{
			{Step: 3, Slot: 0, Victim: 1, Page: 3},
		}))
	})

	It("should start over after a reset", func() {
		e := MakeBuilder().WithNumFrames(2).WithPolicy(NewLRUPolicy()).Build("e")
		e.Run([]Page{1, 2})

		e.Reset()

		Expect(e.Faults()).To(Equal(0))
		Expect(residentPages(e.Frames())).To(BeEmpty())
		Expect(e.Policy().Len()).To(Equal(0))
		Expect(e.Access(1).Fault).To(BeTrue())
	})

	It("should compare every policy", func() {
		results, err := Compare(DefaultReferences(), 3)
		Expect(err).NotTo(HaveOccurred())

		Expect(results).To(HaveLen(2))
		Expect(results[0].Policy).To(Equal(PolicyFIFO))
		Expect(results[0].Faults).To(Equal(10))
		Expect(results[1].Policy).To(Equal(PolicyLRU))
		Expect(results[1].Faults).To(Equal(9))
	})

	DescribeTable("should keep its invariants on random reference strings",
		func(policyName string, numFrames int, seed int64) {
			rng := rand.New(rand.NewSource(seed))
			refs := make([]Page, 200)
			for i := range refs {
				refs[i] = Page(rng.Intn(8))
			}

			e, err := NewEngine(numFrames, policyName)
			Expect(err).NotTo(HaveOccurred())

			faults := 0
			for i, page := range refs {
				entry := e.Access(page)
				if entry.Fault {
					faults++
				}

				Expect(entry.Step).To(Equal(i + 1))
				Expect(entry.Frames).To(HaveLen(numFrames))

				resident := residentPages(entry.Frames)
				Expect(len(resident)).To(BeNumerically("<=", numFrames))
				Expect(resident).To(HaveLen(e.Policy().Len()))

				seen := map[Page]bool{}
				for _, p := range resident {
					Expect(seen[p]).To(BeFalse(), "page %d twice", p)
					seen[p] = true
				}

				var tracked []Page
				switch p := e.Policy().(type) {
				case *FIFOPolicy:
					tracked = p.Queue()
				case *LRUPolicy:
					tracked = p.Order()
				}
				Expect(tracked).To(ConsistOf(resident))

				if numFrames > 0 {
					Expect(e.IsResident(page)).To(BeTrue())
				}
			}

			Expect(e.Faults()).To(Equal(faults))
		},
		Entry("FIFO, 1 frame", "fifo", 1, int64(1)),
		Entry("FIFO, 3 frames", "fifo", 3, int64(2)),
		Entry("FIFO, 8 frames", "fifo", 8, int64(3)),
		Entry("LRU, 1 frame", "lru", 1, int64(4)),
		Entry("LRU, 4 frames", "lru", 4, int64(5)),
		Entry("LRU, 0 frames", "lru", 0, int64(6)),
	)
})
