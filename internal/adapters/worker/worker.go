// Package worker runs per-segment analysis on a bounded pool of goroutines.
// Segments are independent of each other, so they can be analysed in any
// order; results are returned in segment order.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/rallystats/internal/domain/model"
	"github.com/okian/rallystats/internal/domain/stats"
	"github.com/okian/rallystats/pkg/logger"
	"github.com/okian/rallystats/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Analyzer computes the delta of a single segment.
type Analyzer interface {
	Analyze(ctx context.Context, seg model.Segment) (stats.Delta, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, seg model.Segment) (stats.Delta, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, seg model.Segment) (stats.Delta, error) {
	return f(ctx, seg)
}

// SegmentError wraps an analysis failure with the segment's position.
type SegmentError struct {
	Index   int
	Segment model.Segment
	Err     error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d %s: %v", e.Index, e.Segment, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

type job struct {
	index int
	seg   model.Segment
}

type result struct {
	delta stats.Delta
	err   error
}

// worker drains jobs until the channel closes or ctx is cancelled.
type worker struct {
	analyzer Analyzer
	logger   logger.Logger
}

func (w *worker) run(ctx context.Context, jobs <-chan job, results []result, failed func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			start := time.Now()
			d, err := w.analyzer.Analyze(ctx, j.seg)
			metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond)

			// Each index is written by exactly one worker.
			results[j.index] = result{delta: d, err: err}
			if err != nil {
				w.logger.Debug(ctx, "segment analysis failed",
					logger.Int("index", j.index),
					logger.String("segment", j.seg.String()),
					logger.Error(err),
				)
				failed()
				return
			}
		}
	}
}

// Pool analyses segments concurrently.
type Pool struct {
	workerCount int
	logger      logger.Logger
}

// NewPool creates a pool; a non-positive count uses runtime.NumCPU().
func NewPool(workerCount int, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{workerCount: workerCount}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}
	return p
}

// WorkerCount returns the configured number of workers.
func (p *Pool) WorkerCount() int { return p.workerCount }

// Process analyses every segment and returns the deltas in input order.
// The first failure stops outstanding work; the error reported is the one
// of the lowest-index failed segment, so the outcome does not depend on
// scheduling.
func (p *Pool) Process(ctx context.Context, segments []model.Segment, analyzer Analyzer) ([]stats.Delta, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	n := min(p.workerCount, len(segments))
	metrics.UpdateWorkerCount(n)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	results := make([]result, len(segments))

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		w := &worker{
			analyzer: analyzer,
			logger:   p.logger.Named("worker-" + strconv.Itoa(i)),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(runCtx, jobs, results, cancel)
		}()
	}

feed:
	for i, seg := range segments {
		select {
		case <-runCtx.Done():
			break feed
		case jobs <- job{index: i, seg: seg}:
		}
	}
	close(jobs)
	wg.Wait()

	for i, r := range results {
		if r.err != nil {
			metrics.RecordErrorByComponent("worker", "analysis")
			return nil, &SegmentError{Index: i, Segment: segments[i], Err: r.err}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("segment analysis cancelled: %w", err)
	}

	out := make([]stats.Delta, len(results))
	for i, r := range results {
		out[i] = r.delta
	}
	return out, nil
}
