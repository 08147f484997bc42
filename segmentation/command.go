package segmentation

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind identifies a command.
type CommandKind int

// The commands understood by ParseCommand.
const (
	CommandNone CommandKind = iota
	CommandAllocate
	CommandDeallocate
	CommandShow
	CommandExit
)

var commandNames = map[CommandKind]string{
	CommandNone:       "none",
	CommandAllocate:   "allocate",
	CommandDeallocate: "deallocate",
	CommandShow:       "show",
	CommandExit:       "exit",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}

	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Usage lines for the supported commands.
const (
	UsageAllocate   = "allocate <segment_id> <size>"
	UsageDeallocate = "deallocate <segment_id>"
	UsageShow       = "show"
	UsageExit       = "exit"
)

// A Command is one parsed command line.
type Command struct {
	Kind      CommandKind
	SegmentID string
	Size      int64
}

// ParseCommand parses one command line. The line is lower-cased before it is
// split into words, so segment IDs are case-insensitive. A blank line parses
// to CommandNone.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{Kind: CommandNone}, nil
	}

	switch fields[0] {
	case "allocate":
		if len(fields) != 3 {
			return Command{}, usageError(UsageAllocate)
		}

		size, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %w: %q must be an integer",
				ErrMalformedCommand, ErrInvalidSize, fields[2])
		}

		return Command{
			Kind:      CommandAllocate,
			SegmentID: fields[1],
			Size:      size,
		}, nil
	case "deallocate":
		if len(fields) != 2 {
			return Command{}, usageError(UsageDeallocate)
		}

		return Command{Kind: CommandDeallocate, SegmentID: fields[1]}, nil
	case "show":
		if len(fields) != 1 {
			return Command{}, usageError(UsageShow)
		}

		return Command{Kind: CommandShow}, nil
	case "exit":
		if len(fields) != 1 {
			return Command{}, usageError(UsageExit)
		}

		return Command{Kind: CommandExit}, nil
	default:
		return Command{}, fmt.Errorf(
			"%w: unknown command %q, valid commands: allocate, deallocate, show, exit",
			ErrMalformedCommand, fields[0])
	}
}

func usageError(usage string) error {
	return fmt.Errorf("%w: use: %s", ErrMalformedCommand, usage)
}
