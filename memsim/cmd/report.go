package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/fatih/structs"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/tracing"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the content of a recording.",
	Long: "`report --db run.sqlite3` lists the tables of a recording and " +
		"their sizes. `--table page_access` prints the rows of one table.",
	Run: func(cmd *cobra.Command, _ []string) {
		db := stringFlag(cmd, "db", "")
		if db == "" {
			log.Fatalf("Error: --db is required")
		}

		if _, err := os.Stat(db); err != nil {
			log.Fatalf("Error: %v", err)
		}

		reader := datarecording.NewReader(db)
		defer reader.Close()

		mapRecordTables(reader)

		ctx := context.Background()
		table := stringFlag(cmd, "table", "")
		limit := intFlag(cmd, "limit", "")

		var err error
		if table == "" {
			err = printTableSummary(ctx, os.Stdout, reader)
		} else {
			err = printTable(ctx, os.Stdout, reader, table, limit)
		}

		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("db", "", "The SQLite file to read")
	reportCmd.Flags().String("table", "", "Print the rows of this table")
	reportCmd.Flags().Int("limit", 20, "Maximum number of rows, 0 for all")
}

func mapRecordTables(reader datarecording.DataReader) {
	reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})
	reader.MapTable(tracing.TablePagingRun, tracing.PagingRunRecord{})
	reader.MapTable(tracing.TablePageAccess, tracing.PageAccessRecord{})
	reader.MapTable(tracing.TableSegmentEvent, tracing.SegmentEventRecord{})
}

func printTableSummary(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	stored, err := reader.StoredTables(ctx)
	if err != nil {
		return err
	}

	mapped := make(map[string]bool)
	for _, t := range reader.ListTables() {
		mapped[t] = true
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Table\tRows")

	for _, t := range stored {
		if !mapped[t] {
			fmt.Fprintf(tw, "%s\t?\n", t)
			continue
		}

		_, count, err := reader.Query(ctx, t,
			datarecording.QueryParams{Limit: 1})
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%d\n", t, count)
	}

	return tw.Flush()
}

func printTable(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
	table string,
	limit int,
) error {
	rows, total, err := reader.Query(ctx, table,
		datarecording.QueryParams{Limit: limit})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, row := range rows {
		s := structs.New(reflect.ValueOf(row).Elem().Interface())

		if i == 0 {
			fmt.Fprintln(tw, strings.Join(s.Names(), "\t"))
		}

		values := make([]string, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			values = append(values, fmt.Sprint(f.Value()))
		}

		fmt.Fprintln(tw, strings.Join(values, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d of %d rows\n", len(rows), total)

	return nil
}
