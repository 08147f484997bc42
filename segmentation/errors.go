package segmentation

import "errors"

var (
	// ErrInvalidSize is returned for a size that is not a positive integer.
	ErrInvalidSize = errors.New("invalid size")

	// ErrDuplicateSegment is returned when allocating a segment ID that is
	// already allocated.
	ErrDuplicateSegment = errors.New("segment already allocated")

	// ErrUnknownSegment is returned when deallocating a segment ID that is
	// not allocated.
	ErrUnknownSegment = errors.New("segment not found")

	// ErrOutOfMemory is returned when no free range is large enough.
	ErrOutOfMemory = errors.New("not enough free memory")

	// ErrMalformedCommand is returned for a command that cannot be parsed.
	ErrMalformedCommand = errors.New("malformed command")

	// ErrInvalidRange is returned when a range cannot be added to a free
	// list.
	ErrInvalidRange = errors.New("invalid address range")

	// ErrSessionEnded is returned for commands executed after exit.
	ErrSessionEnded = errors.New("session has ended")

	// ErrCorruptedState is returned by Verify when segments and free ranges
	// do not tile the address space.
	ErrCorruptedState = errors.New("corrupted allocator state")
)
