// Package telemetry groups the observability packages used by proofread.
//
// # Components
//
//   - logging: structured slog logging with credential redaction
//   - metrics: Prometheus counters and histograms for runs, findings and plugins
//   - tracing: OpenTelemetry spans around runs and pipeline phases
//   - health: liveness and readiness endpoints for watch sessions
//
// Each subpackage is configured from config.TelemetryConfig and is a no-op
// (or a cheap default) when disabled.
package telemetry
