// Package monitoring serves the state of running simulations over HTTP.
//
// A Monitor is a tracer. Attach it to paging engines and segment allocators
// with tracing.NewTraceHook and it keeps a copy of what they publish.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/memsim/monitoring/web"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/segmentation"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Kinds of monitored domains.
const (
	KindPaging       = "paging"
	KindSegmentation = "segmentation"
)

// minPortNumber is the lowest port the monitor accepts.
const minPortNumber = 1000

// PagingState is what the monitor knows about a paging engine.
type PagingState struct {
	Run    paging.Run
	Trace  []paging.TraceEntry
	Faults int
	Done   bool
}

// SegmentState is what the monitor knows about an allocator.
type SegmentState struct {
	Snapshot  segmentation.Snapshot
	Commands  int
	Rejected  int
	LastError string
}

// DomainState is the latest published state of one engine or allocator.
type DomainState struct {
	Name     string
	Kind     string
	Paging   *PagingState
	Segments *SegmentState
}

// Monitor can turn a simulation into a server and allows external monitoring
// of the simulation.
type Monitor struct {
	portNumber      int
	port            int
	profileDuration time.Duration

	lock    sync.Mutex
	domains map[string]*DomainState
	order   []string

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
	runBars          map[string]*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		domains:         make(map[string]*DomainState),
		runBars:         make(map[string]*ProgressBar),
	}
}

// WithPortNumber sets the port number of the monitor. Port 0 picks a free
// port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < minPortNumber {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// Domain returns a copy of the state of a domain.
func (m *Monitor) Domain(name string) (DomainState, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	d, ok := m.domains[name]
	if !ok {
		return DomainState{}, false
	}

	return copyDomain(d), true
}

func copyDomain(d *DomainState) DomainState {
	c := *d

	if d.Paging != nil {
		p := *d.Paging
		p.Trace = append([]paging.TraceEntry(nil), d.Paging.Trace...)
		c.Paging = &p
	}

	if d.Segments != nil {
		s := *d.Segments
		c.Segments = &s
	}

	return c
}

func (m *Monitor) domain(name, kind string) *DomainState {
	d, ok := m.domains[name]
	if !ok {
		d = &DomainState{Name: name, Kind: kind}
		m.domains[name] = d
		m.order = append(m.order, name)
	}

	return d
}

// StartRun resets the trace of the engine.
func (m *Monitor) StartRun(domain string, run paging.Run) {
	m.lock.Lock()
	d := m.domain(domain, KindPaging)
	d.Paging = &PagingState{Run: run}
	m.lock.Unlock()

	m.createProgressBar(domain, run)
}

// PageAccess appends to the trace.
func (m *Monitor) PageAccess(domain string, entry paging.TraceEntry) {
	m.lock.Lock()
	d := m.domain(domain, KindPaging)
	if d.Paging == nil {
		d.Paging = &PagingState{}
	}

	d.Paging.Trace = append(d.Paging.Trace, entry)
	if entry.Fault {
		d.Paging.Faults++
	}
	m.lock.Unlock()

	m.progressBarsLock.Lock()
	bar := m.runBars[domain]
	m.progressBarsLock.Unlock()

	if bar != nil {
		bar.IncrementFinished(1)
	}
}

// PageEvict does nothing. Evictions are visible in the trace.
func (m *Monitor) PageEvict(string, paging.Eviction) {}

// EndRun marks the run as done.
func (m *Monitor) EndRun(domain string, _ paging.Result) {
	m.lock.Lock()
	d := m.domain(domain, KindPaging)
	if d.Paging != nil {
		d.Paging.Done = true
	}
	m.lock.Unlock()

	m.progressBarsLock.Lock()
	bar := m.runBars[domain]
	delete(m.runBars, domain)
	m.progressBarsLock.Unlock()

	if bar != nil {
		bar.Complete()
	}
}

// SegmentEvent keeps the state left by the command.
func (m *Monitor) SegmentEvent(
	domain string,
	event segmentation.SegmentEvent,
) {
	m.lock.Lock()
	defer m.lock.Unlock()

	d := m.domain(domain, KindSegmentation)
	if d.Segments == nil {
		d.Segments = &SegmentState{}
	}

	d.Segments.Commands++
	d.Segments.Snapshot = event.Snapshot

	if event.Err != nil {
		d.Segments.Rejected++
		d.Segments.LastError = event.Err.Error()
	}
}

func (m *Monitor) createProgressBar(name string, run paging.Run) {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name + " " + run.Policy,
		StartTime: time.Now(),
		Total:     uint64(len(run.References)),
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)
	m.runBars[name] = bar
}

// Router returns the handler of the monitoring server.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/domains", m.listDomains)
	r.HandleFunc("/api/domain/{name}", m.domainDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/paging/{name}", m.pagingTrace)
	r.HandleFunc("/api/segments/{name}", m.segmentState)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(web.Handler())

	return r
}

// StartServer starts the monitor as a web server in the background.
func (m *Monitor) StartServer() {
	listener, err := net.Listen("tcp", m.listenAddress())
	dieOnErr(err)

	m.port = listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.URL())

	router := m.Router()

	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()
}

// listenAddress is the address StartServer binds. Ports below
// minPortNumber were refused by WithPortNumber, so 0 means any free port.
func (m *Monitor) listenAddress() string {
	if m.portNumber < minPortNumber {
		return ":0"
	}

	return ":" + strconv.Itoa(m.portNumber)
}

// URL returns the address of the server started by StartServer.
func (m *Monitor) URL() string {
	return fmt.Sprintf("http://localhost:%d", m.port)
}

// OpenInBrowser opens the monitoring page.
func (m *Monitor) OpenInBrowser() error {
	return browser.OpenURL(m.URL())
}

type domainRsp struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (m *Monitor) listDomains(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := make([]domainRsp, 0, len(m.order))
	for _, name := range m.order {
		rsp = append(rsp, domainRsp{Name: name, Kind: m.domains[name].Kind})
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

func (m *Monitor) findDomainOr404(
	w http.ResponseWriter,
	name string,
) *DomainState {
	d, ok := m.Domain(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Domain not found"))
		dieOnErr(err)

		return nil
	}

	return &d
}

func (m *Monitor) domainDetails(w http.ResponseWriter, r *http.Request) {
	d := m.findDomainOr404(w, mux.Vars(r)["name"])
	if d == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(d)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	Domain    string `json:"domain,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	d := m.findDomainOr404(w, req.Domain)
	if d == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(d)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type stepRsp struct {
	Step    int      `json:"step"`
	Page    int      `json:"page"`
	Frames  []string `json:"frames"`
	Fault   bool     `json:"fault"`
	Evicted *int     `json:"evicted,omitempty"`
}

type pagingRsp struct {
	Policy     string    `json:"policy"`
	NumFrames  int       `json:"num_frames"`
	References string    `json:"references"`
	Faults     int       `json:"faults"`
	Hits       int       `json:"hits"`
	FaultRate  float64   `json:"fault_rate"`
	Done       bool      `json:"done"`
	Steps      []stepRsp `json:"steps"`
}

func (m *Monitor) pagingTrace(w http.ResponseWriter, r *http.Request) {
	d := m.findDomainOr404(w, mux.Vars(r)["name"])
	if d == nil {
		return
	}

	if d.Paging == nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "%s is not a paging engine", d.Name)

		return
	}

	p := d.Paging
	rsp := pagingRsp{
		Policy:     p.Run.Policy,
		NumFrames:  p.Run.NumFrames,
		References: paging.FormatReferences(p.Run.References),
		Faults:     p.Faults,
		Hits:       len(p.Trace) - p.Faults,
		Done:       p.Done,
		Steps:      make([]stepRsp, 0, len(p.Trace)),
	}

	if len(p.Trace) > 0 {
		rsp.FaultRate = float64(p.Faults) / float64(len(p.Trace))
	}

	for _, e := range p.Trace {
		step := stepRsp{
			Step:   e.Step,
			Page:   int(e.Page),
			Frames: e.States(),
			Fault:  e.Fault,
		}

		if e.HasEvicted {
			evicted := int(e.Evicted)
			step.Evicted = &evicted
		}

		rsp.Steps = append(rsp.Steps, step)
	}

	writeJSON(w, rsp)
}

type blockRsp struct {
	ID     string `json:"id"`
	Start  uint64 `json:"start"`
	Length uint64 `json:"length"`
	Free   bool   `json:"free"`
}

type segmentRsp struct {
	MemorySize    uint64     `json:"memory_size"`
	TotalFree     uint64     `json:"total_free"`
	LargestFree   uint64     `json:"largest_free"`
	Fragmentation float64    `json:"fragmentation"`
	Commands      int        `json:"commands"`
	Rejected      int        `json:"rejected"`
	LastError     string     `json:"last_error,omitempty"`
	Blocks        []blockRsp `json:"blocks"`
}

func (m *Monitor) segmentState(w http.ResponseWriter, r *http.Request) {
	d := m.findDomainOr404(w, mux.Vars(r)["name"])
	if d == nil {
		return
	}

	if d.Segments == nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "%s is not an allocator", d.Name)

		return
	}

	s := d.Segments.Snapshot
	rsp := segmentRsp{
		MemorySize:    s.MemorySize,
		TotalFree:     s.TotalFree(),
		LargestFree:   s.LargestFree(),
		Fragmentation: s.Fragmentation(),
		Commands:      d.Segments.Commands,
		Rejected:      d.Segments.Rejected,
		LastError:     d.Segments.LastError,
		Blocks:        make([]blockRsp, 0, len(s.Segments)+len(s.Free)),
	}

	for _, seg := range s.Segments {
		rsp.Blocks = append(rsp.Blocks, blockRsp{
			ID:     seg.ID,
			Start:  seg.Range.Start,
			Length: seg.Range.Length,
		})
	}

	for _, f := range s.Free {
		rsp.Blocks = append(rsp.Blocks, blockRsp{
			ID:     "free",
			Start:  f.Start,
			Length: f.Length,
			Free:   true,
		})
	}

	sort.Slice(rsp.Blocks, func(i, j int) bool {
		return rsp.Blocks[i].Start < rsp.Blocks[j].Start
	})

	writeJSON(w, rsp)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	rsp := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		rsp = append(rsp, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
