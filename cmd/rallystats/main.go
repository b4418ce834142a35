package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/rallystats/internal/adapters/report"
	"github.com/okian/rallystats/internal/adapters/tracking"
	service "github.com/okian/rallystats/internal/app"
	"github.com/okian/rallystats/internal/config"
	"github.com/okian/rallystats/internal/domain/model"
	"github.com/okian/rallystats/pkg/logger"
	"github.com/okian/rallystats/pkg/metrics"
)

const stdioPath = "-"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if err != nil {
		os.Stderr.WriteString("rallystats: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// run loads configuration, reads one tracking document, runs the pipeline
// and writes the per-frame table.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("rallystats", flag.ContinueOnError)
	var (
		configPath = fs.String("config", os.Getenv(config.EnvConfig), "YAML config file")
		inputPath  = fs.String("input", "", "tracking document (default: input_path or stdin)")
		outputPath = fs.String("output", "", "report destination (default: output_path or stdout)")
		format     = fs.String("format", "", "report format: csv or json (default: output_format)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFile(ctx, *configPath)
	if err != nil {
		return err
	}
	if *inputPath != "" {
		cfg.InputPath = *inputPath
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if *format != "" {
		cfg.OutputFormat = *format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFormat, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(logFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("rallystats")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	match, err := readMatch(cfg.InputPath, stdin)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithLogger(log.Named("pipeline")),
		service.WithFrameRate(cfg.FrameRate),
		service.WithReferenceWidthMeters(cfg.ReferenceWidthMeters),
		service.WithProjectionPixelWidth(cfg.ProjectionPixelWidth),
		service.WithDenominator(cfg.Denominator()),
		service.WithWorkerCount(cfg.WorkerCount),
	)
	rep, runErr := svc.Run(ctx, match)

	// Failed runs are exported too.
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Error(ctx, "metrics export failed", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := writeReport(cfg.OutputPath, cfg.OutputFormat, stdout, rep.Rows); err != nil {
		return err
	}
	log.Info(ctx, "report written",
		logger.String("run_id", rep.RunID),
		logger.String("format", cfg.OutputFormat),
		logger.Int("rows", len(rep.Rows)),
	)
	return nil
}

func readMatch(path string, stdin io.Reader) (model.Match, error) {
	if path == "" || path == stdioPath {
		return tracking.Decode(stdin)
	}
	return tracking.DecodeFile(path)
}

func writeReport(path, format string, stdout io.Writer, rows []model.Row) error {
	if path == "" || path == stdioPath {
		return report.Write(stdout, format, rows)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", report.ErrWrite, err)
	}
	if err := report.Write(f, format, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", report.ErrWrite, err)
	}
	return nil
}
