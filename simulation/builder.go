package simulation

import (
	"io"
	"log"

	"github.com/rs/xid"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/monitoring"
	"github.com/sarchlab/memsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	recordOn       bool
	outputFileName string
	clickHouse     *datarecording.ClickHouseOptions
	csvOn          bool
	csvFileName    string
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	logOutput      io.Writer
}

// MakeBuilder creates a new builder. By default nothing is recorded and no
// monitoring server is started.
func MakeBuilder() Builder {
	return Builder{}
}

// WithRecording records the events into an SQLite file. An empty file name
// picks a unique one.
func (b Builder) WithRecording(filename string) Builder {
	b.recordOn = true
	b.outputFileName = filename

	return b
}

// WithClickHouse records the events into a ClickHouse database.
func (b Builder) WithClickHouse(opts datarecording.ClickHouseOptions) Builder {
	b.clickHouse = &opts
	return b
}

// WithCSVTrace writes the paging step tables into a CSV file. An empty file
// name picks a unique one.
func (b Builder) WithCSVTrace(filename string) Builder {
	b.csvOn = true
	b.csvFileName = filename

	return b
}

// WithMonitoring starts a monitoring server.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page once the server is up.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithLogOutput logs every event to w.
func (b Builder) WithLogOutput(w io.Writer) Builder {
	b.logOutput = w
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}

	if b.recordOn && b.clickHouse != nil {
		panic("cannot record into both SQLite and ClickHouse")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:              xid.New().String(),
		domainNameIndex: make(map[string]int),
		stats:           tracing.NewStatsTracer(),
	}

	s.hooks = append(s.hooks, tracing.NewTraceHook(s.stats))

	if b.logOutput != nil {
		s.hooks = append(s.hooks,
			tracing.NewLogHook(log.New(b.logOutput, "", log.Lmicroseconds)))
	}

	b.buildRecorder(s)
	b.buildCSVTraceWriter(s)
	b.buildMonitor(s)

	return s
}

func (b Builder) buildRecorder(s *Simulation) {
	switch {
	case b.clickHouse != nil:
		s.dataRecorder = datarecording.NewClickHouseRecorder(*b.clickHouse)
	case b.recordOn:
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "memsim_sim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
	default:
		return
	}

	s.dbTracer = tracing.NewDBTracer(s.dataRecorder)
	s.hooks = append(s.hooks, tracing.NewTraceHook(s.dbTracer))
}

func (b Builder) buildCSVTraceWriter(s *Simulation) {
	if !b.csvOn {
		return
	}

	s.csvWriter = tracing.NewCSVTraceWriter(b.csvFileName)
	s.csvWriter.Init()
	s.hooks = append(s.hooks, tracing.NewTraceHook(s.csvWriter))
}

func (b Builder) buildMonitor(s *Simulation) {
	if !b.monitorOn {
		return
	}

	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.StartServer()
	s.hooks = append(s.hooks, tracing.NewTraceHook(s.monitor))

	if b.openBrowser {
		if err := s.monitor.OpenInBrowser(); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}
}
