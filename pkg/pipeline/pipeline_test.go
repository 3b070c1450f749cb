package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/messages"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/telemetry/tracing"
	"scribe-hq/proofread/pkg/validation"
	"scribe-hq/proofread/pkg/validation/builtin"
)

// recordingDistributor records every notification in order.
type recordingDistributor struct {
	events []string
}

func (d *recordingDistributor) FlushHeader(context.Context) error {
	d.events = append(d.events, "header")
	return nil
}

func (d *recordingDistributor) FlushResult(_ context.Context, err *validation.ValidationError) error {
	d.events = append(d.events, "result:"+err.Message)
	return nil
}

func (d *recordingDistributor) FlushFooter(context.Context) error {
	d.events = append(d.events, "footer")
	return nil
}

func (d *recordingDistributor) count(event string) int {
	n := 0
	for _, e := range d.events {
		if e == event {
			n++
		}
	}
	return n
}

// flagAll reports one finding per node it sees, at any granularity.
type flagAll struct {
	name string
	seen []string
}

func (v *flagAll) Name() string { return v.name }

func (v *flagAll) finding(what string) []*validation.ValidationError {
	v.seen = append(v.seen, what)
	return []*validation.ValidationError{{
		Message:       fmt.Sprintf("[%s] %s", v.name, what),
		ValidatorName: v.name,
	}}
}

func (v *flagAll) ValidateDocument(doc *model.Document) []*validation.ValidationError {
	return v.finding("doc " + doc.FileName)
}

func (v *flagAll) ValidateSection(section *model.Section) []*validation.ValidationError {
	return v.finding("section " + section.HeaderText())
}

func (v *flagAll) ValidateSentence(sentence *model.Sentence) []*validation.ValidationError {
	return v.finding(sentence.Content)
}

// preProcessing counts pre-processing calls and checks they happen before
// validation of the same section.
type preProcessing struct {
	flagAll
	preprocessed map[*model.Sentence]bool
	violations   int
}

func newPreProcessing(name string) *preProcessing {
	return &preProcessing{flagAll: flagAll{name: name}, preprocessed: map[*model.Sentence]bool{}}
}

func (v *preProcessing) PreProcessSentence(sentence *model.Sentence) {
	v.preprocessed[sentence] = true
}

func (v *preProcessing) ValidateSentence(sentence *model.Sentence) []*validation.ValidationError {
	if !v.preprocessed[sentence] {
		v.violations++
	}
	return nil
}

func sentences(contents ...string) []*model.Sentence {
	out := make([]*model.Sentence, len(contents))
	for i, c := range contents {
		out[i] = model.NewSentence(c, i+1)
	}
	return out
}

func orderedSection() *model.Section {
	return &model.Section{
		HeaderContents: sentences("H"),
		Paragraphs: []*model.Paragraph{
			{Sentences: sentences("P1a", "P1b")},
			{Sentences: sentences("P2a")},
		},
		ListBlocks: []*model.ListBlock{{
			Elements: []*model.ListElement{
				{Sentences: sentences("E1")},
				{Sentences: sentences("E2")},
			},
		}},
	}
}

func TestNew_NilBuckets(t *testing.T) {
	_, err := New(nil)
	var regErr *validation.RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("New(nil) error = %v, want RegistrationError", err)
	}
}

func TestCheck_EmptyConfiguration(t *testing.T) {
	dist := &recordingDistributor{}
	p, err := New(&validation.Buckets{}, WithDistributor(dist))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	collection := model.NewDocumentCollection(&model.Document{
		FileName: "a.md",
		Sections: []*model.Section{orderedSection()},
	})
	results, err := p.Check(context.Background(), collection)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, want empty non-nil list", results)
	}
	if strings.Join(dist.events, ",") != "header,footer" {
		t.Errorf("events = %v, want [header footer]", dist.events)
	}
}

func TestCheck_PhaseOrder(t *testing.T) {
	v := &flagAll{name: "All"}
	buckets := &validation.Buckets{
		Document: []validation.DocumentValidator{v},
		Section:  []validation.SectionValidator{v},
		Sentence: []validation.SentenceValidator{v},
	}
	dist := &recordingDistributor{}
	p, err := New(buckets, WithDistributor(dist))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	docA := &model.Document{FileName: "a.md", Sections: []*model.Section{{HeaderContents: sentences("A")}}}
	docB := &model.Document{FileName: "b.md", Sections: []*model.Section{{HeaderContents: sentences("B")}}}
	results, err := p.Check(context.Background(), model.NewDocumentCollection(docA, docB))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	want := []string{
		"a.md [All] doc a.md",
		"b.md [All] doc b.md",
		"a.md [All] section A",
		"b.md [All] section B",
		"a.md [All] A",
		"b.md [All] B",
	}
	if len(results) != len(want) {
		t.Fatalf("results = %d, want %d", len(results), len(want))
	}
	for i, r := range results {
		if got := r.FileName + " " + r.Message; got != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, got, want[i])
		}
	}

	// Streamed order matches the returned order.
	if len(dist.events) != len(want)+2 || dist.events[0] != "header" || dist.events[len(dist.events)-1] != "footer" {
		t.Fatalf("events = %v", dist.events)
	}
	for i, r := range results {
		if dist.events[i+1] != "result:"+r.Message {
			t.Errorf("event %d = %q, want result %q", i+1, dist.events[i+1], r.Message)
		}
	}
}

func TestCheck_SentenceTraversalOrder(t *testing.T) {
	v := &flagAll{name: "Seen"}
	p, err := New(&validation.Buckets{Sentence: []validation.SentenceValidator{v}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc := &model.Document{FileName: "a.md", Sections: []*model.Section{orderedSection()}}
	if _, err := p.Check(context.Background(), model.NewDocumentCollection(doc)); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	want := "H,P1a,P1b,P2a,E1,E2"
	if got := strings.Join(v.seen, ","); got != want {
		t.Errorf("traversal = %s, want %s", got, want)
	}
}

func TestCheck_ValidatorOuterLoopPerGroup(t *testing.T) {
	first := &flagAll{name: "First"}
	second := &flagAll{name: "Second"}
	p, err := New(&validation.Buckets{Sentence: []validation.SentenceValidator{first, second}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc := &model.Document{FileName: "a.md", Sections: []*model.Section{{
		Paragraphs: []*model.Paragraph{
			{Sentences: sentences("s1", "s2")},
			{Sentences: sentences("s3")},
		},
	}}}
	results, _ := p.Check(context.Background(), model.NewDocumentCollection(doc))

	var got []string
	for _, r := range results {
		got = append(got, r.Message)
	}
	want := "[First] s1,[First] s2,[Second] s1,[Second] s2,[First] s3,[Second] s3"
	if strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
}

func TestCheck_PreProcessingIsolation(t *testing.T) {
	plain := &flagAll{name: "Plain"}
	capable := newPreProcessing("Capable")
	p, err := New(&validation.Buckets{Sentence: []validation.SentenceValidator{plain, capable}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(p.sentencePre) != 1 {
		t.Fatalf("pre-processors = %d, want 1", len(p.sentencePre))
	}

	doc := &model.Document{FileName: "a.md", Sections: []*model.Section{orderedSection(), orderedSection()}}
	if _, err := p.Check(context.Background(), model.NewDocumentCollection(doc)); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	// A non-capable validator earlier in the bucket does not stop the
	// capable one from pre-processing.
	if len(capable.preprocessed) != 12 {
		t.Errorf("pre-processed sentences = %d, want 12", len(capable.preprocessed))
	}
	if capable.violations != 0 {
		t.Errorf("%d sentences validated before pre-processing", capable.violations)
	}
}

type sectionPre struct {
	flagAll
	pre int
}

func (v *sectionPre) PreProcessSection(*model.Section) { v.pre++ }

func (v *sectionPre) ValidateSection(section *model.Section) []*validation.ValidationError {
	// Every section of every document is pre-processed first.
	if v.pre != 3 {
		return v.finding("early")
	}
	return nil
}

func TestCheck_SectionPreProcessing(t *testing.T) {
	v := &sectionPre{flagAll: flagAll{name: "Sec"}}
	p, err := New(&validation.Buckets{Section: []validation.SectionValidator{v}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	docA := &model.Document{FileName: "a.md", Sections: []*model.Section{{}, {}}}
	docB := &model.Document{FileName: "b.md", Sections: []*model.Section{{}}}
	results, _ := p.Check(context.Background(), model.NewDocumentCollection(docA, docB))
	if len(results) != 0 {
		t.Errorf("section validated before all sections were pre-processed: %v", results)
	}
}

func TestCheck_TerminalPunctuationScenario(t *testing.T) {
	bundle, err := messages.New("en")
	if err != nil {
		t.Fatalf("messages.New() error = %v", err)
	}
	v := builtin.NewTerminalPunctuation(config.ValidatorConfig{Name: builtin.TerminalPunctuationName}, bundle)
	p, err := New(&validation.Buckets{Sentence: []validation.SentenceValidator{v}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	check := func(content string) []*validation.ValidationError {
		doc := &model.Document{FileName: "hello.txt", Sections: []*model.Section{{
			Paragraphs: []*model.Paragraph{{Sentences: sentences(content)}},
		}}}
		results, err := p.Check(context.Background(), model.NewDocumentCollection(doc))
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		return results
	}

	results := check("Hello world")
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].FileName != "hello.txt" {
		t.Errorf("FileName = %q, want hello.txt", results[0].FileName)
	}
	if !strings.Contains(results[0].Message, builtin.TerminalPunctuationName) {
		t.Errorf("Message = %q, want validator name", results[0].Message)
	}

	if results := check("Hello world."); len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
}

type recorder struct {
	findings map[string]int
	phases   []string
	runs     int
	total    int
}

func (r *recorder) RecordFinding(validator, granularity string) {
	r.findings[validator+"/"+granularity]++
}
func (r *recorder) RecordPhase(phase string, _ time.Duration) { r.phases = append(r.phases, phase) }
func (r *recorder) RecordRun(_ int, findings int, _ time.Duration) {
	r.runs++
	r.total += findings
}

func TestCheck_MetricsAndTracing(t *testing.T) {
	rec := &recorder{findings: map[string]int{}}
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	v := &flagAll{name: "All"}
	p, err := New(&validation.Buckets{
		Document: []validation.DocumentValidator{v},
		Sentence: []validation.SentenceValidator{v},
	}, WithMetrics(rec), WithTracer(tracing.NewWithProvider(tp)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc := &model.Document{FileName: "a.md", Sections: []*model.Section{{HeaderContents: sentences("x", "y")}}}
	if _, err := p.Check(context.Background(), model.NewDocumentCollection(doc)); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if rec.findings["All/document"] != 1 || rec.findings["All/sentence"] != 2 {
		t.Errorf("findings = %v", rec.findings)
	}
	if strings.Join(rec.phases, ",") != "document,section,sentence" {
		t.Errorf("phases = %v", rec.phases)
	}
	if rec.runs != 1 || rec.total != 3 {
		t.Errorf("runs = %d, total = %d", rec.runs, rec.total)
	}

	names := map[string]bool{}
	for _, span := range exporter.GetSpans() {
		names[span.Name] = true
	}
	for _, want := range []string{tracing.SpanCheck, tracing.SpanDocument, tracing.SpanSection, tracing.SpanSentence} {
		if !names[want] {
			t.Errorf("span %q not recorded (got %v)", want, names)
		}
	}
}

func TestCheck_Cancelled(t *testing.T) {
	dist := &recordingDistributor{}
	v := &flagAll{name: "All"}
	p, err := New(&validation.Buckets{Document: []validation.DocumentValidator{v}}, WithDistributor(dist))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := p.Check(ctx, model.NewDocumentCollection(&model.Document{FileName: "a.md"}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Check() error = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
	if dist.count("header") != 1 || dist.count("footer") != 1 {
		t.Errorf("events = %v, want one header and one footer", dist.events)
	}
}

func TestCheck_NilCollection(t *testing.T) {
	p, err := New(&validation.Buckets{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	results, err := p.Check(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("Check(nil) = %v, %v", results, err)
	}
}
