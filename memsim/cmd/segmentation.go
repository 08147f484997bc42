package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/sarchlab/memsim/segmentation"
	"github.com/spf13/cobra"
)

const segmentationPrompt = "Enter command: "

var segmentationCmd = &cobra.Command{
	Use:   "segmentation",
	Short: "Allocate and free segments interactively.",
	Long: "`segmentation --memory 100` reads allocate, deallocate, show and " +
		"exit commands from stdin, or from the file given with --script, and " +
		"prints the final memory allocation.",
	Run: func(cmd *cobra.Command, _ []string) {
		memory := intFlag(cmd, "memory", envMemory)
		if memory < 0 {
			log.Fatalf("Error: memory size %d is negative", memory)
		}

		in := io.Reader(os.Stdin)
		prompt := segmentationPrompt

		if script := stringFlag(cmd, "script", ""); script != "" {
			f, err := os.Open(script)
			if err != nil {
				log.Fatalf("Error opening script: %v", err)
			}
			defer f.Close()

			in = f
			prompt = ""
		}

		s := buildSimulation(cmd)

		alloc := segmentation.MakeBuilder().
			WithMemorySize(uint64(memory)).
			Build("Allocator")
		s.RegisterDomain(alloc)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		session := segmentationSession{
			interp: segmentation.NewInterpreter(alloc),
			out:    os.Stdout,
			prompt: prompt,
			verify: boolFlag(cmd, "verify"),
		}

		err := session.run(ctx, in)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		terminate(s)
	},
}

func init() {
	rootCmd.AddCommand(segmentationCmd)

	segmentationCmd.Flags().Int("memory", int(segmentation.DefaultMemorySize),
		"Total memory size in units")
	segmentationCmd.Flags().String("script", "",
		"Read the commands from a file instead of stdin")
	segmentationCmd.Flags().Bool("verify", false,
		"Check the allocator state after every command")
	addOutputFlags(segmentationCmd)
}

type segmentationSession struct {
	interp *segmentation.Interpreter
	out    io.Writer
	prompt string
	verify bool
}

// run executes commands until exit, the end of the input or cancellation,
// then prints the final allocation. Cancellation does not wait for the
// pending line.
func (s segmentationSession) run(ctx context.Context, in io.Reader) error {
	printCommandHelp(s.out)

	done := make(chan struct{})
	defer close(done)

	lines, readErr := readLines(in, done)

loop:
	for ctx.Err() == nil && !s.interp.Exited() {
		fmt.Fprint(s.out, s.prompt)

		var (
			line string
			ok   bool
		)

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			break loop
		case line, ok = <-lines:
		}

		if !ok {
			if err := <-readErr; err != nil {
				return err
			}

			break
		}

		outcome, err := s.interp.Exec(line)

		if msg := commandMessage(line, outcome, err); msg != "" {
			fmt.Fprintln(s.out, msg)
		}

		if s.verify {
			if err := s.interp.Allocator().Verify(); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Final Memory Allocation:")
	printSnapshot(s.out, s.interp.Allocator().Show())

	return nil
}

// readLines scans in on its own goroutine. The line channel is closed at the
// end of the input, after the scan error has been sent. Closing done stops the
// goroutine at the next line.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				readErr <- nil
				return
			}
		}

		readErr <- scanner.Err()
	}()

	return lines, readErr
}

func printCommandHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintf(w, "  %-29s - Allocate memory for a segment\n",
		segmentation.UsageAllocate)
	fmt.Fprintf(w, "  %-29s - Deallocate a segment\n",
		segmentation.UsageDeallocate)
	fmt.Fprintf(w, "  %-29s - Show current memory allocation\n",
		segmentation.UsageShow)
	fmt.Fprintf(w, "  %-29s - Finish simulation\n",
		segmentation.UsageExit)
}

// commandMessage renders the response to one command line. Successful show
// commands render the whole snapshot.
func commandMessage(
	line string,
	outcome segmentation.Outcome,
	err error,
) string {
	if err != nil {
		return errorMessage(line, err)
	}

	seg := outcome.Segment

	switch outcome.Command.Kind {
	case segmentation.CommandAllocate:
		return fmt.Sprintf("Allocated segment %s at address %d with size %d.",
			seg.ID, seg.Range.Start, seg.Range.Length)
	case segmentation.CommandDeallocate:
		return fmt.Sprintf("Deallocated segment %s from address %d with size %d.",
			seg.ID, seg.Range.Start, seg.Range.Length)
	case segmentation.CommandShow:
		b := &strings.Builder{}
		printSnapshot(b, outcome.Snapshot)

		return strings.TrimSuffix(b.String(), "\n")
	default:
		return ""
	}
}

var commandUsages = map[string]string{
	"allocate":   segmentation.UsageAllocate,
	"deallocate": segmentation.UsageDeallocate,
	"show":       segmentation.UsageShow,
	"exit":       segmentation.UsageExit,
}

func errorMessage(line string, err error) string {
	fields := strings.Fields(strings.ToLower(line))

	switch {
	case errors.Is(err, segmentation.ErrInvalidSize):
		return "Invalid size. Must be a positive integer."
	case errors.Is(err, segmentation.ErrMalformedCommand):
		if usage, ok := commandUsages[fields[0]]; ok {
			return "Invalid command format. Use: " + usage
		}

		return "Unknown command. Valid commands: allocate, deallocate, show, exit."
	case errors.Is(err, segmentation.ErrDuplicateSegment):
		return fmt.Sprintf("Segment %s is already allocated.", fields[1])
	case errors.Is(err, segmentation.ErrUnknownSegment):
		return fmt.Sprintf("Segment %s not found.", fields[1])
	case errors.Is(err, segmentation.ErrOutOfMemory):
		return "Allocation failed: Not enough free memory."
	default:
		return "Error: " + err.Error()
	}
}

func printSnapshot(w io.Writer, s segmentation.Snapshot) {
	fmt.Fprintln(w, "Allocated segments:")

	for _, seg := range s.Segments {
		fmt.Fprintf(w, "  %s: Address %d, Size %d\n",
			seg.ID, seg.Range.Start, seg.Range.Length)
	}

	fmt.Fprintln(w, "Free memory blocks:")

	for _, r := range s.Free {
		fmt.Fprintf(w, "  Address %d, Size %d\n", r.Start, r.Length)
	}

	fmt.Fprintf(w, "Total free: %d, largest free block: %d, fragmentation: %.2f\n",
		s.TotalFree(), s.LargestFree(), s.Fragmentation())
}
