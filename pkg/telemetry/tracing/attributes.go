package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on proofread spans.
const (
	AttrRunID       = "proofread.run_id"
	AttrDocuments   = "proofread.documents"
	AttrDocument    = "proofread.document"
	AttrPhase       = "proofread.phase"
	AttrValidators  = "proofread.validators"
	AttrFindings    = "proofread.findings"
	AttrGranularity = "proofread.granularity"

	AttrErrorMessage = "error.message"
)

// Span names used by the pipeline.
const (
	SpanCheck    = "proofread.check"
	SpanDocument = "proofread.phase.document"
	SpanSection  = "proofread.phase.section"
	SpanSentence = "proofread.phase.sentence"
)

// SetRunAttributes sets run-level attributes on a span.
func SetRunAttributes(span trace.Span, runID string, documents, validators int) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrDocuments, documents),
		attribute.Int(AttrValidators, validators),
	}
	if runID != "" {
		attrs = append(attrs, attribute.String(AttrRunID, runID))
	}
	span.SetAttributes(attrs...)
}

// SetPhaseAttributes sets the phase name, validator count and finding count.
func SetPhaseAttributes(span trace.Span, phase string, validators, findings int) {
	span.SetAttributes(
		attribute.String(AttrPhase, phase),
		attribute.Int(AttrValidators, validators),
		attribute.Int(AttrFindings, findings),
	)
}

// SetFindings records the number of findings on a span.
func SetFindings(span trace.Span, findings int) {
	span.SetAttributes(attribute.Int(AttrFindings, findings))
}
