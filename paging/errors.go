package paging

import "errors"

var (
	// ErrUnknownPolicy is returned when a replacement policy name is not
	// supported.
	ErrUnknownPolicy = errors.New("unknown replacement policy")

	// ErrInvalidFrameCount is returned for a negative number of frames.
	ErrInvalidFrameCount = errors.New("invalid frame count")

	// ErrInvalidReference is returned when a reference string cannot be
	// parsed.
	ErrInvalidReference = errors.New("invalid page reference")
)
