package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/sarchlab/memsim/paging"
	"github.com/sarchlab/memsim/simulation"
	"github.com/spf13/cobra"
)

var pagingCmd = &cobra.Command{
	Use:   "paging",
	Short: "Run a reference string through the paging simulator.",
	Long: "`paging --refs 7,0,1,2 --frames 3 --policy lru` prints the frame " +
		"table after every reference and the number of page faults.",
	Run: func(cmd *cobra.Command, _ []string) {
		refs := referencesFlag(cmd)
		frames := intFlag(cmd, "frames", envFrames)
		policy := stringFlag(cmd, "policy", envPolicy)

		engine, err := paging.NewEngine(frames, policy)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		s := buildSimulation(cmd)
		s.RegisterDomain(engine)

		res := engine.Run(refs)
		printPagingResult(os.Stdout, res)

		waitForMonitor(s)
		terminate(s)
	},
}

func init() {
	rootCmd.AddCommand(pagingCmd)

	pagingCmd.Flags().String("refs", paging.DefaultReferenceString,
		"Comma separated page reference string")
	pagingCmd.Flags().Int("frames", 3, "Number of frames")
	pagingCmd.Flags().String("policy", "fifo",
		"Replacement policy, fifo or lru")
	pagingCmd.Flags().String("csv", "",
		"Write the step table into <path>.csv")
	addOutputFlags(pagingCmd)
}

func referencesFlag(cmd *cobra.Command) []paging.Page {
	refs, err := paging.ParseReferenceString(stringFlag(cmd, "refs", ""))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	return refs
}

func printPagingResult(w io.Writer, res paging.Result) {
	fmt.Fprintf(w, "%s Paging Simulation complete. Total page faults: %d\n",
		res.Policy, res.Faults)

	for _, entry := range res.Trace {
		fmt.Fprintf(w, "After page %d: %s\n", entry.Page, entry)
	}

	fmt.Fprintf(w, "Hits: %d, fault rate: %.2f%%\n",
		res.Hits(), res.FaultRate()*100)
}

// waitForMonitor keeps the monitoring server alive until interrupted.
func waitForMonitor(s *simulation.Simulation) {
	m := s.GetMonitor()
	if m == nil {
		return
	}

	fmt.Fprintf(os.Stderr,
		"Run finished, monitor still serving at %s. Press Ctrl+C to exit.\n",
		m.URL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	<-ctx.Done()
}
