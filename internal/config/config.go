// Package config defines rallystats configuration and its loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load(ctx) layers defaults, an optional YAML file and RALLY_* env vars.
//   - Validation failures wrap ErrInvalidConfig and name the key.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/rallystats/internal/domain/expand"
	"github.com/okian/rallystats/internal/domain/speed"
	"github.com/okian/rallystats/pkg/logger"
)

// Output formats for the dense table.
const (
	OutputCSV  = "csv"
	OutputJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// FrameRate is the source video's frames per second.
	FrameRate float64 `koanf:"frame_rate"`

	// ReferenceWidthMeters is the real-world width of the playing surface.
	ReferenceWidthMeters float64 `koanf:"reference_width_meters"`

	// ProjectionPixelWidth overrides the mini-court width reported by the
	// input document when non-zero.
	ProjectionPixelWidth float64 `koanf:"projection_pixel_width"`

	// MovementDenominator is "cross" (historical output) or "self".
	MovementDenominator string `koanf:"movement_denominator"`

	// WorkerCount sets the number of segment analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// InputPath is the tracking document to read; empty or "-" is stdin.
	InputPath string `koanf:"input_path"`

	// OutputPath receives the dense table; empty is stdout.
	OutputPath string `koanf:"output_path"`

	// OutputFormat is csv or json.
	OutputFormat string `koanf:"output_format"`

	// MetricsTextfile, when set, receives a Prometheus textfile after the run.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		FrameRate:            speed.DefaultFrameRate,
		ReferenceWidthMeters: speed.DefaultReferenceWidthMeters,
		MovementDenominator:  expand.DenominatorCross.String(),
		WorkerCount:          runtime.NumCPU(),
		OutputFormat:         OutputCSV,
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.FrameRate <= 0:
		return invalid("frame_rate", "must be positive, got %v", c.FrameRate)
	case c.ReferenceWidthMeters <= 0:
		return invalid("reference_width_meters", "must be positive, got %v", c.ReferenceWidthMeters)
	case c.ProjectionPixelWidth < 0:
		return invalid("projection_pixel_width", "must not be negative, got %v", c.ProjectionPixelWidth)
	case c.WorkerCount < 0:
		return invalid("worker_count", "must not be negative, got %d", c.WorkerCount)
	}
	if _, err := expand.ParseDenominator(c.MovementDenominator); err != nil {
		return invalid("movement_denominator", "%v", err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return invalid("log_format", "%v", err)
	}
	switch strings.ToLower(c.OutputFormat) {
	case OutputCSV, OutputJSON:
	default:
		return invalid("output_format", "unknown format %q", c.OutputFormat)
	}
	return nil
}

// Denominator returns the parsed movement denominator.
func (c *Config) Denominator() expand.Denominator {
	d, err := expand.ParseDenominator(c.MovementDenominator)
	if err != nil {
		return expand.DenominatorCross
	}
	return d
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}
