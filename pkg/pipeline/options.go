package pipeline

import (
	"log/slog"
	"time"

	"scribe-hq/proofread/pkg/distributor"
	"scribe-hq/proofread/pkg/telemetry/tracing"
)

// Recorder receives run measurements. *metrics.Collector implements it.
type Recorder interface {
	RecordFinding(validator, granularity string)
	RecordPhase(phase string, duration time.Duration)
	RecordRun(documents, findings int, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordFinding(string, string) {}
func (nopRecorder) RecordPhase(string, time.Duration) {}
func (nopRecorder) RecordRun(int, int, time.Duration) {}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDistributor streams findings to d. The default discards them.
func WithDistributor(d distributor.Distributor) Option {
	return func(p *Pipeline) {
		if d != nil {
			p.distributor = d
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records run, phase and finding measurements to r.
func WithMetrics(r Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithTracer wraps runs and phases in spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.tracer = t
		}
	}
}
