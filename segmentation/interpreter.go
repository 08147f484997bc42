package segmentation

import "fmt"

// An Outcome is the result of a successfully executed command.
type Outcome struct {
	Command Command

	// Segment is the allocated or deallocated segment.
	Segment Segment

	// Snapshot is the state reported by show.
	Snapshot Snapshot

	// Exit is set by the exit command.
	Exit bool
}

// An Interpreter applies commands to one allocator. The allocator lives as
// long as the interpreter session.
type Interpreter struct {
	alloc  *Allocator
	exited bool
}

// NewInterpreter creates an interpreter that drives the allocator.
func NewInterpreter(alloc *Allocator) *Interpreter {
	return &Interpreter{alloc: alloc}
}

// Allocator returns the allocator driven by the interpreter.
func (in *Interpreter) Allocator() *Allocator {
	return in.alloc
}

// Exited tells if the exit command has been executed.
func (in *Interpreter) Exited() bool {
	return in.exited
}

// Exec parses and applies one command line. A failed command leaves the
// allocator unchanged.
func (in *Interpreter) Exec(line string) (Outcome, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return Outcome{}, err
	}

	return in.Apply(cmd)
}

// Apply applies a parsed command. Once exit has been applied, every command
// fails with ErrSessionEnded.
func (in *Interpreter) Apply(cmd Command) (Outcome, error) {
	if in.exited {
		return Outcome{}, fmt.Errorf("%w: %s refused", ErrSessionEnded, cmd.Kind)
	}

	out := Outcome{Command: cmd}

	switch cmd.Kind {
	case CommandAllocate:
		seg, err := in.alloc.Allocate(cmd.SegmentID, cmd.Size)
		if err != nil {
			return Outcome{}, err
		}

		out.Segment = seg
	case CommandDeallocate:
		seg, err := in.alloc.Deallocate(cmd.SegmentID)
		if err != nil {
			return Outcome{}, err
		}

		out.Segment = seg
	case CommandShow:
		out.Snapshot = in.alloc.Show()
	case CommandExit:
		in.exited = true
		out.Exit = true
	}

	return out, nil
}
