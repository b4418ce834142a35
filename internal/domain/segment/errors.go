package segment

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for contact-frame validation.
var (
	ErrUnordered  = errors.New("contact frames not strictly increasing")
	ErrOutOfRange = errors.New("contact frame out of range")
)

// OrderError reports a contact frame that does not exceed its predecessor,
// covering both unsorted and duplicate input.
type OrderError struct {
	Index    int
	Frame    int
	Previous int
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%v: frame %d at index %d follows frame %d", ErrUnordered, e.Frame, e.Index, e.Previous)
}

func (e *OrderError) Unwrap() error { return ErrUnordered }

// RangeError reports a contact frame outside the match.
type RangeError struct {
	Index       int
	Frame       int
	TotalFrames int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: frame %d at index %d, match has %d frames", ErrOutOfRange, e.Frame, e.Index, e.TotalFrames)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }
