package service

import (
	"github.com/okian/rallystats/internal/domain/expand"
	"github.com/okian/rallystats/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFrameRate sets the frames per second used for segment durations.
func WithFrameRate(fps float64) Option {
	return func(s *Service) {
		s.frameRate = fps
	}
}

// WithReferenceWidthMeters sets the real-world court width used when a
// match does not carry its own.
func WithReferenceWidthMeters(m float64) Option {
	return func(s *Service) {
		s.referenceWidthMeters = m
	}
}

// WithProjectionPixelWidth overrides the projection width reported by the
// match. Zero keeps the match value.
func WithProjectionPixelWidth(w float64) Option {
	return func(s *Service) {
		s.projectionPixelWidth = w
	}
}

// WithDenominator selects the movement-average denominator.
func WithDenominator(d expand.Denominator) Option {
	return func(s *Service) {
		s.denominator = d
	}
}

// WithWorkerCount sets the number of segment analysis workers.
// Non-positive values keep the default.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}
