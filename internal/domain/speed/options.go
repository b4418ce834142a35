package speed

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithCalibration sets the real-world court width and the width the
// projection reports for the same court.
func WithCalibration(referenceWidthMeters, projectionPixelWidth float64) Option {
	return func(c *Calculator) {
		c.referenceWidthMeters = referenceWidthMeters
		c.projectionPixelWidth = projectionPixelWidth
	}
}

// WithFrameRate sets the frames per second of the source video.
func WithFrameRate(fps float64) Option {
	return func(c *Calculator) {
		c.frameRate = fps
	}
}
