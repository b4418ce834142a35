package report

import "errors"

var (
	// ErrUnknownFormat is returned for an output format with no writer.
	ErrUnknownFormat = errors.New("unknown report format")
	// ErrWrite is returned when the report cannot be written.
	ErrWrite = errors.New("write report")
)
