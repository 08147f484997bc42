package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/fatih/structs"
	"github.com/tebeka/atexit"
)

// ClickHouseOptions locates a ClickHouse server.
type ClickHouseOptions struct {
	Addr      string
	Database  string
	Username  string
	Password  string
	BatchSize int
}

// ClickHouseRecorder records tables into a ClickHouse database. It accepts
// the same flat structs as the SQLite recorder.
type ClickHouseRecorder struct {
	conn      clickhouse.Conn
	mu        sync.Mutex
	batchSize int

	tables     map[string]*table
	entryCount int

	exec *execRecorder
}

// NewClickHouseRecorder connects to a ClickHouse server. It panics if the
// server cannot be reached.
func NewClickHouseRecorder(opts ClickHouseOptions) *ClickHouseRecorder {
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("failed to ping ClickHouse: %w", err))
	}

	r := &ClickHouseRecorder{
		conn:      conn,
		batchSize: opts.BatchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() {
		r.Flush()
	})

	r.exec = newExecRecorder(r)
	r.exec.Start()

	return r
}

var clickHouseColumnTypes = map[reflect.Kind]string{
	reflect.Bool:    "Bool",
	reflect.Int:     "Int64",
	reflect.Int8:    "Int64",
	reflect.Int16:   "Int64",
	reflect.Int32:   "Int64",
	reflect.Int64:   "Int64",
	reflect.Uint:    "UInt64",
	reflect.Uint8:   "UInt64",
	reflect.Uint16:  "UInt64",
	reflect.Uint32:  "UInt64",
	reflect.Uint64:  "UInt64",
	reflect.Float32: "Float64",
	reflect.Float64: "Float64",
	reflect.String:  "String",
}

// clickHouseCreateTableSQL builds the DDL of a table holding sampleEntry.
func clickHouseCreateTableSQL(tableName string, sampleEntry any) string {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	t := reflect.TypeOf(sampleEntry)
	columns := make([]string, 0, t.NumField())

	for _, name := range structs.Names(sampleEntry) {
		field, _ := t.FieldByName(name)
		columns = append(columns,
			name+" "+clickHouseColumnTypes[field.Type.Kind()])
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) ENGINE = MergeTree()\nORDER BY tuple()",
		tableName, strings.Join(columns, ",\n\t"))
}

// clickHouseRow converts an entry to the column types of its table.
func clickHouseRow(entry any) []any {
	v := reflect.ValueOf(entry)
	row := make([]any, 0, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		switch f.Kind() {
		case reflect.Bool:
			row = append(row, f.Bool())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
			reflect.Int64:
			row = append(row, f.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
			reflect.Uint64:
			row = append(row, f.Uint())
		case reflect.Float32, reflect.Float64:
			row = append(row, f.Float())
		default:
			row = append(row, f.String())
		}
	}

	return row
}

// CreateTable creates a MergeTree table with one column per field.
func (r *ClickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	createSQL := clickHouseCreateTableSQL(tableName, sampleEntry)

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.conn.Exec(context.Background(), createSQL)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
}

// InsertData buffers an entry.
func (r *ClickHouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()

	t, exists := r.tables[tableName]
	if !exists {
		r.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.structType {
		r.mu.Unlock()
		panic(fmt.Sprintf("table %s stores %s, got %T",
			tableName, t.structType, entry))
	}

	t.entries = append(t.entries, entry)
	r.entryCount++
	full := r.entryCount >= r.batchSize

	r.mu.Unlock()

	if full {
		r.Flush()
	}
}

// ListTables returns the names of the tables created, sorted.
func (r *ClickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

// Flush sends one batch per table.
func (r *ClickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		r.flushTable(ctx, tableName, t)
	}

	r.entryCount = 0
}

func (r *ClickHouseRecorder) flushTable(
	ctx context.Context,
	tableName string,
	t *table,
) {
	batch, err := r.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w", tableName, err))
	}

	for _, entry := range t.entries {
		err = batch.Append(clickHouseRow(entry)...)
		if err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	err = batch.Send()
	if err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	t.entries = t.entries[:0]
}

// Close flushes remaining data and closes the connection
func (r *ClickHouseRecorder) Close() error {
	if r.exec != nil {
		r.exec.End()
		r.exec = nil
	}

	r.Flush()

	err := r.conn.Close()
	if err != nil {
		return fmt.Errorf("failed to close ClickHouse connection: %w", err)
	}

	return nil
}
