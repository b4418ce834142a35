package speed

import (
	"errors"
	"fmt"

	"github.com/okian/rallystats/internal/domain/model"
)

// Sentinel error kinds for speed derivation.
var (
	ErrDivideByZero       = errors.New("zero duration")
	ErrInvalidCalibration = errors.New("invalid calibration")
)

// DivideByZeroError reports a segment whose duration is zero.
type DivideByZeroError struct {
	Segment model.Segment
}

func (e *DivideByZeroError) Error() string {
	return fmt.Sprintf("%v: segment %s", ErrDivideByZero, e.Segment)
}

func (e *DivideByZeroError) Unwrap() error { return ErrDivideByZero }
