package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sarchlab/memsim/paging"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a reference string with every replacement policy.",
	Run: func(cmd *cobra.Command, _ []string) {
		refs := referencesFlag(cmd)
		frames := intFlag(cmd, "frames", envFrames)

		s := buildSimulation(cmd)

		results := make([]paging.Result, 0, len(paging.PolicyNames()))

		for _, name := range paging.PolicyNames() {
			engine, err := paging.NewEngine(frames, name)
			if err != nil {
				log.Fatalf("Error: %v", err)
			}

			s.RegisterDomain(engine)
			results = append(results, engine.Run(refs))
		}

		printComparison(os.Stdout, results)

		waitForMonitor(s)
		terminate(s)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("refs", paging.DefaultReferenceString,
		"Comma separated page reference string")
	compareCmd.Flags().Int("frames", 3, "Number of frames")
	compareCmd.Flags().String("csv", "",
		"Write the step tables into <path>.csv")
	addOutputFlags(compareCmd)
}

func printComparison(w io.Writer, results []paging.Result) {
	if len(results) == 0 {
		return
	}

	fmt.Fprintf(w, "Reference string: %s\n",
		paging.FormatReferences(results[0].References))
	fmt.Fprintf(w, "Frames: %d\n", results[0].NumFrames)
	fmt.Fprintf(w, "%-6s %6s %6s %10s\n", "Policy", "Faults", "Hits", "Fault rate")

	for _, res := range results {
		fmt.Fprintf(w, "%-6s %6d %6d %9.2f%%\n",
			res.Policy, res.Faults, res.Hits(), res.FaultRate()*100)
	}
}
