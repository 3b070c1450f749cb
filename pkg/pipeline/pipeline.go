package pipeline

import (
	"context"
	"log/slog"
	"time"

	"scribe-hq/proofread/pkg/distributor"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/telemetry/logging"
	"scribe-hq/proofread/pkg/telemetry/tracing"
	"scribe-hq/proofread/pkg/validation"
)

// Phase names reported to metrics, traces and logs.
const (
	PhaseDocument = "document"
	PhaseSection  = "section"
	PhaseSentence = "sentence"
)

// Pipeline applies bucketed validators to document collections.
// A Pipeline is not safe for concurrent Check calls.
type Pipeline struct {
	buckets *validation.Buckets

	// Pre-processing capability, resolved once per validator
	sectionPre  []validation.SectionPreProcessor
	sentencePre []validation.SentencePreProcessor

	distributor distributor.Distributor
	logger      *slog.Logger
	recorder    Recorder
	tracer      *tracing.Tracer
}

// New creates a pipeline over buckets. A nil buckets value is a
// RegistrationError.
func New(buckets *validation.Buckets, opts ...Option) (*Pipeline, error) {
	if buckets == nil {
		return nil, &validation.RegistrationError{Message: "validator configuration is missing"}
	}

	p := &Pipeline{
		buckets:     buckets,
		distributor: distributor.Nop{},
		logger:      slog.Default(),
		recorder:    nopRecorder{},
		tracer:      tracing.Noop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pipeline")

	for _, v := range buckets.Section {
		if pre, ok := v.(validation.SectionPreProcessor); ok {
			p.sectionPre = append(p.sectionPre, pre)
		}
	}
	for _, v := range buckets.Sentence {
		if pre, ok := v.(validation.SentencePreProcessor); ok {
			p.sentencePre = append(p.sentencePre, pre)
		}
	}

	return p, nil
}

// Buckets returns the validators the pipeline applies.
func (p *Pipeline) Buckets() *validation.Buckets {
	return p.buckets
}

// Check validates every document of collection and returns the findings in
// the order they were distributed: document phase, then section phase,
// then sentence phase. Findings are streamed to the distributor as they
// are produced, bracketed by exactly one header and one footer.
//
// Validation is not interrupted by individual validators. The returned
// error is non-nil only when ctx is cancelled; the findings gathered so far
// are returned with it and the footer is still flushed.
func (p *Pipeline) Check(ctx context.Context, collection *model.DocumentCollection) ([]*validation.ValidationError, error) {
	start := time.Now()
	var docs []*model.Document
	if collection != nil {
		docs = collection.Documents
	}

	ctx, span := p.tracer.Start(ctx, tracing.SpanCheck)
	defer span.End()
	tracing.SetRunAttributes(span, logging.GetRunID(ctx), len(docs), p.buckets.Len())

	r := &run{p: p, ctx: ctx, results: make([]*validation.ValidationError, 0)}

	if err := p.distributor.FlushHeader(ctx); err != nil {
		p.logger.ErrorContext(ctx, "distributor header failed", "error", err)
	}

	err := r.phase(PhaseDocument, tracing.SpanDocument, len(p.buckets.Document), func() error {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.documentPhase(doc)
		}
		return nil
	})
	if err == nil {
		err = r.phase(PhaseSection, tracing.SpanSection, len(p.buckets.Section), func() error {
			return r.sectionPhase(docs)
		})
	}
	if err == nil {
		err = r.phase(PhaseSentence, tracing.SpanSentence, len(p.buckets.Sentence), func() error {
			for _, doc := range docs {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.sentencePhase(doc)
			}
			return nil
		})
	}

	if ferr := p.distributor.FlushFooter(ctx); ferr != nil {
		p.logger.ErrorContext(ctx, "distributor footer failed", "error", ferr)
	}

	duration := time.Since(start)
	p.recorder.RecordRun(len(docs), len(r.results), duration)
	tracing.SetFindings(span, len(r.results))
	tracing.SetStatus(span, err)

	p.logger.DebugContext(ctx, "check finished",
		"documents", len(docs),
		"findings", len(r.results),
		"duration", duration,
	)

	return r.results, err
}

// run holds the state of one Check call.
type run struct {
	p       *Pipeline
	ctx     context.Context
	results []*validation.ValidationError
}

// phase times fn and wraps it in a span.
func (r *run) phase(name, spanName string, validators int, fn func() error) error {
	start := time.Now()
	before := len(r.results)

	ctx, span := r.p.tracer.Start(r.ctx, spanName)
	parent := r.ctx
	r.ctx = ctx
	err := fn()
	r.ctx = parent

	tracing.SetPhaseAttributes(span, name, validators, len(r.results)-before)
	tracing.SetStatus(span, err)
	span.End()

	r.p.recorder.RecordPhase(name, time.Since(start))
	return err
}

func (r *run) documentPhase(doc *model.Document) {
	for _, v := range r.p.buckets.Document {
		found := v.ValidateDocument(doc)
		r.emit(doc, found, validation.GranularityDocument)
	}
}

func (r *run) sectionPhase(docs []*model.Document) error {
	for _, pre := range r.p.sectionPre {
		for _, doc := range docs {
			for _, section := range doc.Sections {
				pre.PreProcessSection(section)
			}
		}
	}

	for _, doc := range docs {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		for _, section := range doc.Sections {
			for _, v := range r.p.buckets.Section {
				found := v.ValidateSection(section)
				r.emit(doc, found, validation.GranularitySection)
			}
		}
	}
	return nil
}

func (r *run) sentencePhase(doc *model.Document) {
	validators := r.p.buckets.Sentence
	if len(validators) == 0 {
		return
	}

	for _, section := range doc.Sections {
		// Pre-processing: only capable validators, over every sentence of
		// the section, before any of them is validated.
		if len(r.p.sentencePre) > 0 {
			sentences := section.Sentences()
			for _, pre := range r.p.sentencePre {
				for _, sentence := range sentences {
					pre.PreProcessSentence(sentence)
				}
			}
		}

		var batch []*validation.ValidationError
		section.EachSentenceGroup(func(sentences []*model.Sentence) {
			for _, v := range validators {
				for _, sentence := range sentences {
					batch = append(batch, v.ValidateSentence(sentence)...)
				}
			}
		})
		r.emit(doc, batch, validation.GranularitySentence)
	}
}

// emit tags findings with the document file name, streams them to the
// distributor and appends them to the run results.
func (r *run) emit(doc *model.Document, found []*validation.ValidationError, g validation.Granularity) {
	for _, verr := range found {
		if verr == nil {
			continue
		}
		verr.FileName = doc.FileName

		if err := r.p.distributor.FlushResult(r.ctx, verr); err != nil {
			r.p.logger.ErrorContext(logging.WithFile(r.ctx, doc.FileName), "distributor rejected finding",
				"validator", verr.ValidatorName,
				"error", err,
			)
		}
		r.p.recorder.RecordFinding(verr.ValidatorName, g.String())
		r.results = append(r.results, verr)
	}
}
