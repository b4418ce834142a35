package tracking

import "errors"

var (
	// ErrDecode is returned when a tracking document cannot be parsed.
	ErrDecode = errors.New("decode tracking document")
	// ErrEncode is returned when a tracking document cannot be written.
	ErrEncode = errors.New("encode tracking document")
	// ErrActorKey is returned for an actor key that is not a positive integer.
	ErrActorKey = errors.New("invalid actor key")
)
