package service

import (
	"errors"
	"fmt"
)

// ErrMissingObject is returned when the object was not located at a frame
// a segment needs.
var ErrMissingObject = errors.New("object position missing")

// MissingObjectError identifies the frame without an object position.
type MissingObjectError struct {
	Frame int
}

func (e *MissingObjectError) Error() string {
	return fmt.Sprintf("%s at frame %d", ErrMissingObject, e.Frame)
}

func (e *MissingObjectError) Unwrap() error { return ErrMissingObject }
