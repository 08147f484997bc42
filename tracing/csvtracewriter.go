package tracing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/xid"
	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/segmentation"
	"github.com/tebeka/atexit"
)

var csvHeader = []string{
	"Domain", "Run", "Step", "Page", "Fault", "Evicted", "Frames",
}

// CSVTraceWriter is a tracer that writes the paging step table into a CSV
// file. Segment events are ignored.
type CSVTraceWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer

	runs map[string]int

	rows       [][]string
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. The file is path.csv. An
// empty path picks a unique name.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		runs:       make(map[string]int),
		bufferSize: 1000,
	}
}

// Init creates the CSV file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "memsim_trace_" + xid.New().String()
	}

	filename := t.Filename()

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}

	t.file = file
	t.start(file)

	atexit.Register(func() {
		if err := t.Close(); err != nil {
			panic(err)
		}
	})
}

func (t *CSVTraceWriter) start(w io.Writer) {
	t.writer = csv.NewWriter(w)
	t.rows = append(t.rows, csvHeader)
}

// Filename returns the name of the CSV file.
func (t *CSVTraceWriter) Filename() string {
	return t.path + ".csv"
}

// StartRun numbers the run.
func (t *CSVTraceWriter) StartRun(domain string, _ paging.Run) {
	t.runs[domain]++
}

// PageAccess writes one row.
func (t *CSVTraceWriter) PageAccess(domain string, entry paging.TraceEntry) {
	evicted := ""
	if entry.HasEvicted {
		evicted = strconv.Itoa(int(entry.Evicted))
	}

	t.rows = append(t.rows, []string{
		domain,
		strconv.Itoa(t.runs[domain]),
		strconv.Itoa(entry.Step),
		strconv.Itoa(int(entry.Page)),
		strconv.FormatBool(entry.Fault),
		evicted,
		renderFrames(entry),
	})

	if len(t.rows) >= t.bufferSize {
		t.Flush()
	}
}

// PageEvict does nothing.
func (t *CSVTraceWriter) PageEvict(string, paging.Eviction) {}

// EndRun flushes the rows of the run.
func (t *CSVTraceWriter) EndRun(string, paging.Result) {
	t.Flush()
}

// SegmentEvent does nothing.
func (t *CSVTraceWriter) SegmentEvent(string, segmentation.SegmentEvent) {}

// Flush writes the buffered rows.
func (t *CSVTraceWriter) Flush() {
	if t.writer == nil {
		return
	}

	if err := t.writer.WriteAll(t.rows); err != nil {
		panic(err)
	}

	t.rows = nil
}

// Close flushes and closes the file.
func (t *CSVTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	t.Flush()

	err := t.file.Close()
	t.file = nil
	t.writer = nil

	return err
}
