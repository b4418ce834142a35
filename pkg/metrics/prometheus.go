// Package metrics provides Prometheus metrics for rallystats pipeline runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Default bucket layouts.
var (
	defaultLatencyBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000} //nolint:gochecknoglobals // bucket layout
	defaultSpeedBuckets   = []float64{1, 5, 10, 20, 40, 60, 80, 100, 130, 160, 200, 250}        //nolint:gochecknoglobals // bucket layout
)

// Manager owns every metric of one registry.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	speedBuckets   []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	pipelineRuns      *prometheus.CounterVec
	pipelineDuration  prometheus.Histogram
	segmentsAnalyzed  prometheus.Counter
	shotsByActor      *prometheus.CounterVec
	attributionTies   prometheus.Counter
	shotSpeed         prometheus.Histogram
	movementSpeed     prometheus.Histogram
	framesExpanded    prometheus.Counter
	undefinedAverages *prometheus.CounterVec
	workerLatency     prometheus.Histogram
	workerCount       prometheus.Gauge
	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// Custom registry to keep default Go collectors out of exported files.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "rallystats",
		subsystem:      "pipeline",
		latencyBuckets: defaultLatencyBuckets,
		speedBuckets:   defaultSpeedBuckets,
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounterVec(m.counterOpts("runs_total", "Pipeline runs by outcome"), []string{"outcome"})
	m.pipelineDuration = auto.NewHistogram(m.histogramOpts("run_duration_milliseconds", "Wall time of a pipeline run", m.latencyBuckets))
	m.segmentsAnalyzed = auto.NewCounter(m.counterOpts("segments_analyzed_total", "Segments attributed and measured"))
	m.shotsByActor = auto.NewCounterVec(m.counterOpts("shots_total", "Shots attributed per actor"), []string{"actor"})
	m.attributionTies = auto.NewCounter(m.counterOpts("attribution_ties_total", "Contact events where both actors were equidistant"))
	m.shotSpeed = auto.NewHistogram(m.histogramOpts("shot_speed_kmh", "Object speed per segment in km/h", m.speedBuckets))
	m.movementSpeed = auto.NewHistogram(m.histogramOpts("movement_speed_kmh", "Opponent movement speed per segment in km/h", m.speedBuckets))
	m.framesExpanded = auto.NewCounter(m.counterOpts("frames_expanded_total", "Rows produced by frame expansion"))
	m.undefinedAverages = auto.NewCounterVec(m.counterOpts("undefined_averages_total", "Table cells whose average had a zero denominator"), []string{"column"})
	m.workerLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Time to analyse one segment", m.latencyBuckets))
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "worker_count", Help: "Segment analysis workers of the last run",
	})
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and kind"), []string{"component", "error_type"})
}

// RecordRun counts a finished run and observes its duration.
func (m *Manager) RecordRun(outcome string, durationMs float64) {
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(durationMs)
}

// RecordSegment records the result of one analysed segment.
func (m *Manager) RecordSegment(striker string, shotKMH, movementKMH float64, tie bool) {
	m.segmentsAnalyzed.Inc()
	m.shotsByActor.WithLabelValues(striker).Inc()
	m.shotSpeed.Observe(shotKMH)
	m.movementSpeed.Observe(movementKMH)
	if tie {
		m.attributionTies.Inc()
	}
}

// RecordFramesExpanded adds n produced rows.
func (m *Manager) RecordFramesExpanded(n int) { m.framesExpanded.Add(float64(n)) }

// RecordUndefinedAverages adds n undefined cells for column.
func (m *Manager) RecordUndefinedAverages(column string, n int) {
	m.undefinedAverages.WithLabelValues(column).Add(float64(n))
}

// RecordWorkerProcessingLatency observes one segment analysis.
func (m *Manager) RecordWorkerProcessingLatency(latencyMs float64) {
	m.workerLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the worker gauge.
func (m *Manager) UpdateWorkerCount(n int) { m.workerCount.Set(float64(n)) }

// RecordErrorByComponent counts an error.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Package-level recorders delegate to the global manager.

// RecordRun counts a finished run on the global manager.
func RecordRun(outcome string, durationMs float64) { globalManager.RecordRun(outcome, durationMs) }

// RecordSegment records an analysed segment on the global manager.
func RecordSegment(striker string, shotKMH, movementKMH float64, tie bool) {
	globalManager.RecordSegment(striker, shotKMH, movementKMH, tie)
}

// RecordFramesExpanded adds produced rows on the global manager.
func RecordFramesExpanded(n int) { globalManager.RecordFramesExpanded(n) }

// RecordUndefinedAverages adds undefined cells on the global manager.
func RecordUndefinedAverages(column string, n int) { globalManager.RecordUndefinedAverages(column, n) }

// RecordWorkerProcessingLatency observes segment analysis latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.RecordWorkerProcessingLatency(latencyMs)
}

// UpdateWorkerCount sets the global worker gauge.
func UpdateWorkerCount(n int) { globalManager.UpdateWorkerCount(n) }

// RecordErrorByComponent counts an error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current registry in the text exposition format,
// suitable for the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}
