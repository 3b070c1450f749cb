// Package tracing provides OpenTelemetry tracing for proofread.
//
// A validation run is one trace: Check opens a proofread.check span with a
// child span per phase (document, section, sentence). Spans are exported to
// an OTLP gRPC collector when tracing is enabled; otherwise a noop tracer is
// used.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanCheck)
//	defer span.End()
//
// # Sampling
//
// telemetry.tracing.sample_ratio selects the fraction of runs traced. The
// sampler is parent-based, so a run started inside a sampled trace is
// always recorded.
package tracing
