package simulation

import (
	"bytes"
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/segmentation"
	"github.com/sarchlab/memsim/tracing"
)

var _ = Describe("Simulation", func() {
	var (
		simulation *Simulation
	)

	BeforeEach(func() {
		simulation = MakeBuilder().Build()
	})

	AfterEach(func() {
		Expect(simulation.Terminate()).To(Succeed())
	})

	It("should register a domain", func() {
		engine, err := paging.NewEngine(3, paging.PolicyFIFO)
		Expect(err).NotTo(HaveOccurred())

		simulation.RegisterDomain(engine)

		Expect(simulation.GetDomainByName("FIFO")).To(BeIdenticalTo(engine))
		Expect(simulation.GetDomainByName("LRU")).To(BeNil())
		Expect(engine.NumHooks()).To(Equal(len(simulation.Hooks())))
	})

	It("should return all registered domains", func() {
		fifo, _ := paging.NewEngine(3, paging.PolicyFIFO)
		lru, _ := paging.NewEngine(3, paging.PolicyLRU)
		alloc := segmentation.NewAllocator(100)

		simulation.RegisterDomain(fifo)
		simulation.RegisterDomain(lru)
		simulation.RegisterDomain(alloc)

		Expect(simulation.Domains()).To(HaveLen(3))
		Expect(simulation.GetDomainByName("Allocator")).
			To(BeIdenticalTo(alloc))
	})

	It("should panic when registering a name twice", func() {
		a, _ := paging.NewEngine(3, paging.PolicyFIFO)
		b, _ := paging.NewEngine(4, paging.PolicyFIFO)

		simulation.RegisterDomain(a)

		Expect(func() { simulation.RegisterDomain(b) }).To(Panic())
	})

	It("should count the events of every domain", func() {
		fifo, _ := paging.NewEngine(3, paging.PolicyFIFO)
		lru, _ := paging.NewEngine(3, paging.PolicyLRU)

		simulation.RegisterDomain(fifo)
		simulation.RegisterDomain(lru)

		fifo.Run(paging.DefaultReferences())
		lru.Run(paging.DefaultReferences())

		Expect(simulation.GetStats().Domain("FIFO").Faults).To(Equal(10))
		Expect(simulation.GetStats().Domain("LRU").Faults).To(Equal(9))
		Expect(simulation.GetStats().Total().Runs).To(Equal(2))
	})

	It("should have no optional outputs by default", func() {
		Expect(simulation.GetDataRecorder()).To(BeNil())
		Expect(simulation.GetDBTracer()).To(BeNil())
		Expect(simulation.GetCSVTraceWriter()).To(BeNil())
		Expect(simulation.GetMonitor()).To(BeNil())
		Expect(simulation.ID()).NotTo(BeEmpty())
	})
})

var _ = Describe("Builder", func() {
	It("should reject a monitor port without monitoring", func() {
		Expect(func() { MakeBuilder().WithMonitorPort(8080).Build() }).
			To(Panic())
	})

	It("should reject a browser without monitoring", func() {
		Expect(func() { MakeBuilder().WithBrowser().Build() }).To(Panic())
	})

	It("should reject two recorders", func() {
		Expect(func() {
			MakeBuilder().
				WithRecording("x").
				WithClickHouse(datarecording.ClickHouseOptions{}).
				Build()
		}).To(Panic())
	})

	It("should log events", func() {
		buf := &bytes.Buffer{}
		s := MakeBuilder().WithLogOutput(buf).Build()
		defer s.Terminate()

		alloc := segmentation.NewAllocator(100)
		s.RegisterDomain(alloc)

		_, err := alloc.Allocate("A", 10)
		Expect(err).NotTo(HaveOccurred())

		Expect(buf.String()).To(ContainSubstring("Allocator"))
	})

	It("should record paging runs into SQLite", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		s := MakeBuilder().
			WithRecording(path).
			WithCSVTrace(path).
			Build()

		engine, _ := paging.NewEngine(3, paging.PolicyLRU)
		s.RegisterDomain(engine)
		engine.Run(paging.DefaultReferences())

		Expect(s.GetCSVTraceWriter().Filename()).To(Equal(path + ".csv"))
		Expect(s.Terminate()).To(Succeed())

		reader := datarecording.NewReader(path + ".sqlite3")
		defer reader.Close()

		reader.MapTable(tracing.TablePagingRun, tracing.PagingRunRecord{})
		reader.MapTable(tracing.TablePageAccess, tracing.PageAccessRecord{})

		runs, total, err := reader.Query(context.Background(),
			tracing.TablePagingRun, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(1))

		run := runs[0].(*tracing.PagingRunRecord)
		Expect(run.Policy).To(Equal("LRU"))
		Expect(run.Faults).To(Equal(9))

		_, steps, err := reader.Query(context.Background(),
			tracing.TablePageAccess, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(steps).To(Equal(13))
	})
})
