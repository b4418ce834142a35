// Package service composes the rally statistics pipeline: contact frames are
// cut into segments, each segment is analysed on a worker pool, the deltas
// are folded into snapshots and the snapshots are expanded to one row per
// frame.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rallystats/internal/adapters/worker"
	"github.com/okian/rallystats/internal/domain/expand"
	"github.com/okian/rallystats/internal/domain/model"
	"github.com/okian/rallystats/internal/domain/segment"
	"github.com/okian/rallystats/internal/domain/speed"
	"github.com/okian/rallystats/internal/domain/stats"
	"github.com/okian/rallystats/pkg/logger"
	"github.com/okian/rallystats/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Report is the complete result of one run.
type Report struct {
	RunID     string
	MatchID   string
	Segments  []model.Segment
	Deltas    []stats.Delta
	Snapshots []model.Snapshot
	Rows      []model.Row
}

// Service runs the pipeline with a fixed calibration and worker setup.
type Service struct {
	frameRate            float64
	referenceWidthMeters float64
	projectionPixelWidth float64
	denominator          expand.Denominator
	workerCount          int

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		frameRate:            speed.DefaultFrameRate,
		referenceWidthMeters: speed.DefaultReferenceWidthMeters,
		denominator:          expand.DenominatorCross,
		workerCount:          runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Denominator reports the configured movement-average denominator.
func (s *Service) Denominator() expand.Denominator { return s.denominator }

// WorkerCount reports the configured number of analysis workers.
func (s *Service) WorkerCount() int { return s.workerCount }

// Run computes the statistics table of m. Any failure aborts the run and no
// partial result is returned.
func (s *Service) Run(ctx context.Context, m model.Match) (*Report, error) {
	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}

	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID), logger.String("match_id", m.ID))

	log.Info(ctx, "pipeline run started",
		logger.Int("frames", m.TotalFrames()),
		logger.Int("contacts", len(m.ContactFrames)),
		logger.String("denominator", s.denominator.String()),
	)

	rep, err := s.run(ctx, log, m)
	elapsedMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	if err != nil {
		metrics.RecordRun(metrics.OutcomeFailure, elapsedMs)
		log.Error(ctx, "pipeline run failed", logger.Error(err))
		return nil, err
	}
	metrics.RecordRun(metrics.OutcomeSuccess, elapsedMs)

	rep.RunID = runID
	rep.MatchID = m.ID
	log.Info(ctx, "pipeline run finished",
		logger.Int("segments", len(rep.Segments)),
		logger.Int("snapshots", len(rep.Snapshots)),
		logger.Int("rows", len(rep.Rows)),
		logger.Float64("duration_ms", elapsedMs),
	)
	return rep, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, m model.Match) (*Report, error) {
	total := m.TotalFrames()
	if err := segment.Validate(m.ContactFrames, total); err != nil {
		metrics.RecordErrorByComponent("segment", "validation")
		return nil, fmt.Errorf("contact frames: %w", err)
	}

	calc, err := s.calculator(m)
	if err != nil {
		metrics.RecordErrorByComponent("speed", "calibration")
		return nil, err
	}

	segs := segment.Build(m.ContactFrames)
	log.Debug(ctx, "segments built",
		logger.Int("segments", len(segs)),
		logger.Float64("scale", calc.Scale()),
	)

	pool := worker.NewPool(s.workerCount, worker.WithLogger(log.Named("worker")))
	deltas, err := pool.Process(ctx, segs, &segmentAnalyzer{frames: m.Frames, calc: calc})
	if err != nil {
		return nil, err
	}
	for _, d := range deltas {
		metrics.RecordSegment(d.Striker.String(), d.ShotSpeed, d.OpponentSpeed, d.Tie)
		log.Debug(ctx, "segment analysed",
			logger.String("segment", d.Segment.String()),
			logger.String("striker", d.Striker.String()),
			logger.Float64("shot_kmh", d.ShotSpeed),
			logger.Float64("opponent_kmh", d.OpponentSpeed),
			logger.Bool("tie", d.Tie),
		)
	}

	snaps, err := stats.Fold(deltas)
	if err != nil {
		metrics.RecordErrorByComponent("stats", "fold")
		return nil, err
	}

	rows, err := expand.New(expand.WithDenominator(s.denominator)).Expand(snaps, total)
	if err != nil {
		metrics.RecordErrorByComponent("expand", "expand")
		return nil, err
	}
	metrics.RecordFramesExpanded(len(rows))
	recordUndefined(rows)

	return &Report{
		Segments:  segs,
		Deltas:    deltas,
		Snapshots: snaps,
		Rows:      rows,
	}, nil
}

// calculator builds the speed calculator for m. A configured projection
// width overrides the match; a reference width carried by the match
// overrides the configured one.
func (s *Service) calculator(m model.Match) (*speed.Calculator, error) {
	projection := m.ProjectionPixelWidth
	if s.projectionPixelWidth != 0 {
		projection = s.projectionPixelWidth
	}
	reference := s.referenceWidthMeters
	if m.ReferenceWidthMeters != 0 {
		reference = m.ReferenceWidthMeters
	}
	return speed.New(
		speed.WithCalibration(reference, projection),
		speed.WithFrameRate(s.frameRate),
	)
}

func recordUndefined(rows []model.Row) {
	for _, id := range model.Actors {
		var shot, movement int
		for _, r := range rows {
			st := r.Of(id)
			if !st.AverageShotSpeed.Defined {
				shot++
			}
			if !st.AverageMovementSpeed.Defined {
				movement++
			}
		}
		metrics.RecordUndefinedAverages(id.String()+"_average_shot_speed", shot)
		metrics.RecordUndefinedAverages(id.String()+"_average_movement_speed", movement)
	}
}
