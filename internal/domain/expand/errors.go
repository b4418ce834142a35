package expand

import "errors"

// Sentinel kinds for expansion errors.
var (
	ErrMissingSeed        = errors.New("snapshot sequence must start at frame 0")
	ErrUnorderedSnapshots = errors.New("snapshots not ordered by frame")
	ErrNegativeFrames     = errors.New("negative frame count")
	ErrUnknownDenominator = errors.New("unknown movement denominator")
)
