package stats

import "errors"

// Sentinel kinds for accumulation errors.
var (
	ErrInvalidActor  = errors.New("invalid actor in delta")
	ErrOutOfOrder    = errors.New("delta out of order")
	ErrNegativeSpeed = errors.New("negative speed in delta")
)
