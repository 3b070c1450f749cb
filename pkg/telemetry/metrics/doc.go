// Package metrics provides Prometheus metrics collection for proofread.
//
// # Metrics Categories
//
//   - Validation Metrics: runs, documents, findings per validator, run and
//     phase durations
//   - Plugin Metrics: plugin loads by result and hook failures
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	// The collector satisfies the pipeline and plugin loader recorders.
//	p, _ := pipeline.New(buckets, pipeline.WithMetrics(collector))
//	loader.SetRecorder(collector)
//
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// When metrics are disabled every Record method is a no-op.
//
// # Cardinality
//
// Validator and plugin names come from configuration and file names. After
// 1000 distinct values further ones are recorded as "other".
package metrics
