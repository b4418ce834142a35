// Package speed converts mini-court displacements into calibrated
// real-world speeds.
package speed

import (
	"fmt"

	"github.com/okian/rallystats/internal/domain/model"
)

// Default calibration constants.
const (
	// DefaultReferenceWidthMeters is the width of a doubles tennis court.
	DefaultReferenceWidthMeters = 10.97
	DefaultFrameRate            = 24.0

	metersPerSecondToKMH = 3.6
)

// Calculator derives speeds from positions in the shared coordinate space.
type Calculator struct {
	referenceWidthMeters float64
	projectionPixelWidth float64
	frameRate            float64
}

// New builds a Calculator. A projection width must be supplied through
// WithCalibration; every calibration value must be positive.
func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		referenceWidthMeters: DefaultReferenceWidthMeters,
		frameRate:            DefaultFrameRate,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.projectionPixelWidth <= 0:
		return nil, fmt.Errorf("%w: projection pixel width %v", ErrInvalidCalibration, c.projectionPixelWidth)
	case c.referenceWidthMeters <= 0:
		return nil, fmt.Errorf("%w: reference width %v m", ErrInvalidCalibration, c.referenceWidthMeters)
	case c.frameRate <= 0:
		return nil, fmt.Errorf("%w: frame rate %v", ErrInvalidCalibration, c.frameRate)
	}
	return c, nil
}

// Scale returns meters per mini-court unit.
func (c *Calculator) Scale() float64 {
	return c.referenceWidthMeters / c.projectionPixelWidth
}

// FrameRate returns the frames per second used for segment durations.
func (c *Calculator) FrameRate() float64 { return c.frameRate }

// PixelDistance is the distance between a and b in mini-court units.
func (c *Calculator) PixelDistance(a, b model.Position) float64 {
	return model.Distance(a, b)
}

// MeterDistance is the distance between a and b in meters.
func (c *Calculator) MeterDistance(a, b model.Position) float64 {
	return c.PixelDistance(a, b) * c.Scale()
}

// KMH converts meters covered in seconds to km/h.
func KMH(meters, seconds float64) (float64, error) {
	if seconds == 0 {
		return 0, ErrDivideByZero
	}
	return meters / seconds * metersPerSecondToKMH, nil
}

// SegmentSpeed returns the speed in km/h of something that moved from
// `from` at seg.Start to `to` at seg.End.
func (c *Calculator) SegmentSpeed(seg model.Segment, from, to model.Position) (float64, error) {
	kmh, err := KMH(c.MeterDistance(from, to), seg.DurationSeconds(c.frameRate))
	if err != nil {
		return 0, &DivideByZeroError{Segment: seg}
	}
	return kmh, nil
}
