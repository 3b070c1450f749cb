package metrics

import (
	"time"

	"scribe-hq/proofread/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks validation runs.
//
// Metrics:
//   - proofread_validation_runs_total: Completed runs
//   - proofread_validation_documents_total: Documents validated
//   - proofread_validation_findings_total: Findings by validator and granularity
//   - proofread_validation_last_run_findings: Findings of the most recent run
//   - proofread_validation_run_duration_seconds: Run duration
//   - proofread_validation_phase_duration_seconds: Phase duration by phase
type ValidationMetrics struct {
	runsTotal      prometheus.Counter
	documentsTotal prometheus.Counter
	findingsTotal  *prometheus.CounterVec
	lastFindings   prometheus.Gauge
	runDuration    prometheus.Histogram
	phaseDuration  *prometheus.HistogramVec
}

// NewValidationMetrics creates and registers validation metrics with the provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		runsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of completed validation runs",
			},
		),

		documentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "documents_total",
				Help:      "Total number of validated documents",
			},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "findings_total",
				Help:      "Total number of findings by validator and granularity",
			},
			[]string{"validator", "granularity"},
		),

		lastFindings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_findings",
				Help:      "Number of findings of the most recent run",
			},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of validation runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
		),

		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "phase_duration_seconds",
				Help:      "Duration of pipeline phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
			},
			[]string{"phase"},
		),
	}

	registry.MustRegister(
		vm.runsTotal,
		vm.documentsTotal,
		vm.findingsTotal,
		vm.lastFindings,
		vm.runDuration,
		vm.phaseDuration,
	)

	return vm
}

// RecordRun records a completed run.
func (vm *ValidationMetrics) RecordRun(documents, findings int, duration time.Duration) {
	vm.runsTotal.Inc()
	vm.documentsTotal.Add(float64(documents))
	vm.lastFindings.Set(float64(findings))
	vm.runDuration.Observe(duration.Seconds())
}

// RecordPhase records the duration of a phase.
func (vm *ValidationMetrics) RecordPhase(phase string, duration time.Duration) {
	vm.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordFinding increments the finding counter.
func (vm *ValidationMetrics) RecordFinding(validator, granularity string) {
	vm.findingsTotal.WithLabelValues(validator, granularity).Inc()
}
