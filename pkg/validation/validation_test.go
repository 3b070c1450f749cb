package validation

import (
	"errors"
	"strings"
	"testing"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/model"
)

type sentenceRule struct{ name string }

func (r *sentenceRule) Name() string { return r.name }
func (r *sentenceRule) ValidateSentence(*model.Sentence) []*ValidationError {
	return nil
}

type sectionRule struct{ name string }

func (r *sectionRule) Name() string                                      { return r.name }
func (r *sectionRule) ValidateSection(*model.Section) []*ValidationError { return nil }

type documentRule struct{ name string }

func (r *documentRule) Name() string                                        { return r.name }
func (r *documentRule) ValidateDocument(*model.Document) []*ValidationError { return nil }

// implements both sentence and section validation
type hybridRule struct {
	sentenceRule
	declared Granularity
}

func (r *hybridRule) ValidateSection(*model.Section) []*ValidationError { return nil }
func (r *hybridRule) Granularity() Granularity                          { return r.declared }

type bareRule struct{}

func (bareRule) Name() string { return "Bare" }

type expandingRule struct{ subs []Validator }

func (r *expandingRule) Name() string            { return "Expanding" }
func (r *expandingRule) Validators() []Validator { return r.subs }

func TestResolveGranularity(t *testing.T) {
	tests := []struct {
		name     string
		v        Validator
		declared Granularity
		want     Granularity
		wantErr  bool
	}{
		{"inferred sentence", &sentenceRule{name: "S"}, GranularityUnknown, GranularitySentence, false},
		{"inferred section", &sectionRule{name: "C"}, GranularityUnknown, GranularitySection, false},
		{"inferred document", &documentRule{name: "D"}, GranularityUnknown, GranularityDocument, false},
		{"declared matches", &sentenceRule{name: "S"}, GranularitySentence, GranularitySentence, false},
		{"declared not implemented", &sentenceRule{name: "S"}, GranularityDocument, GranularityUnknown, true},
		{"no capability", bareRule{}, GranularityUnknown, GranularityUnknown, true},
		{"ambiguous", &hybridRule{sentenceRule: sentenceRule{name: "H"}}, GranularityUnknown, GranularityUnknown, true},
		{"self declared", &hybridRule{sentenceRule: sentenceRule{name: "H"}, declared: GranularitySection}, GranularityUnknown, GranularitySection, false},
		{"conflicting declarations", &hybridRule{sentenceRule: sentenceRule{name: "H"}, declared: GranularitySection}, GranularitySentence, GranularityUnknown, true},
		{"nil validator", nil, GranularitySentence, GranularityUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveGranularity(tt.v, tt.declared)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveGranularity() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var re *RegistrationError
				if !errors.As(err, &re) {
					t.Errorf("expected *RegistrationError, got %T", err)
				}
			}
			if got != tt.want {
				t.Errorf("ResolveGranularity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseGranularity(t *testing.T) {
	for _, g := range []Granularity{GranularityDocument, GranularitySection, GranularitySentence} {
		parsed, err := ParseGranularity(g.String())
		if err != nil || parsed != g {
			t.Errorf("ParseGranularity(%q) = %v, %v", g.String(), parsed, err)
		}
	}
	if _, err := ParseGranularity("paragraph"); err == nil {
		t.Error("ParseGranularity(paragraph) expected error")
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	factories := []Factory{
		{Name: "Sentence", Granularity: GranularitySentence, New: func(cfg config.ValidatorConfig, _ *Environment) (Validator, error) {
			return &sentenceRule{name: cfg.StringProperty("id", "Sentence")}, nil
		}},
		{Name: "Section", Granularity: GranularitySection, New: func(config.ValidatorConfig, *Environment) (Validator, error) {
			return &sectionRule{name: "Section"}, nil
		}},
		{Name: "Document", New: func(config.ValidatorConfig, *Environment) (Validator, error) {
			return &documentRule{name: "Document"}, nil
		}},
		{Name: "Expanding", New: func(config.ValidatorConfig, *Environment) (Validator, error) {
			return &expandingRule{subs: []Validator{
				&hybridRule{sentenceRule: sentenceRule{name: "face-section"}, declared: GranularitySection},
				&hybridRule{sentenceRule: sentenceRule{name: "face-sentence"}, declared: GranularitySentence},
			}}, nil
		}},
		{Name: "Hybrid", New: func(config.ValidatorConfig, *Environment) (Validator, error) {
			return &hybridRule{sentenceRule: sentenceRule{name: "Hybrid"}}, nil
		}},
		{Name: "Bare", New: func(config.ValidatorConfig, *Environment) (Validator, error) {
			return bareRule{}, nil
		}},
		{Name: "Failing", New: func(config.ValidatorConfig, *Environment) (Validator, error) {
			return nil, errors.New("bad property")
		}},
	}
	for _, f := range factories {
		if err := reg.Register(f); err != nil {
			t.Fatalf("Register(%s) error = %v", f.Name, err)
		}
	}
	return reg
}

func TestRegistry_Register(t *testing.T) {
	reg := newTestRegistry(t)

	if err := reg.Register(Factory{Name: "Sentence", New: func(config.ValidatorConfig, *Environment) (Validator, error) { return nil, nil }}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if err := reg.Register(Factory{Name: ""}); err == nil {
		t.Error("expected empty name error")
	}
	if err := reg.Register(Factory{Name: "NoNew"}); err == nil {
		t.Error("expected missing constructor error")
	}

	names := reg.Names()
	if strings.Join(names, ",") != "Bare,Document,Expanding,Failing,Section,Sentence" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistry_Build(t *testing.T) {
	reg := newTestRegistry(t)
	cfg := config.NewDefaultConfig()
	cfg.Validators = []config.ValidatorConfig{
		{Name: "Sentence", Properties: map[string]string{"id": "first"}},
		{Name: "Document"},
		{Name: "Expanding"},
		{Name: "Section"},
		{Name: "Sentence", Properties: map[string]string{"id": "second"}},
	}

	buckets, err := reg.Build(cfg, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if buckets.Len() != 6 {
		t.Errorf("Len() = %d, want 6", buckets.Len())
	}
	if len(buckets.Document) != 1 {
		t.Errorf("document bucket = %d, want 1", len(buckets.Document))
	}

	var sections, sentences []string
	for _, v := range buckets.Section {
		sections = append(sections, v.Name())
	}
	for _, v := range buckets.Sentence {
		sentences = append(sentences, v.Name())
	}
	if got := strings.Join(sections, ","); got != "face-section,Section" {
		t.Errorf("section bucket = %s", got)
	}
	if got := strings.Join(sentences, ","); got != "first,face-sentence,second" {
		t.Errorf("sentence bucket = %s", got)
	}
}

func TestRegistry_BuildErrors(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		name      string
		cfg       *config.Config
		wantCause bool
	}{
		{"nil configuration", nil, false},
		{"unknown validator", &config.Config{Validators: []config.ValidatorConfig{{Name: "Spelling"}}}, false},
		{"unresolvable granularity", &config.Config{Validators: []config.ValidatorConfig{{Name: "Bare"}}}, false},
		{"factory failure", &config.Config{Validators: []config.ValidatorConfig{{Name: "Failing"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, err := reg.Build(tt.cfg, &Environment{})
			if err == nil {
				t.Fatal("expected error")
			}
			if buckets != nil {
				t.Error("expected no buckets on error")
			}
			var re *RegistrationError
			if !errors.As(err, &re) {
				t.Fatalf("expected *RegistrationError, got %T", err)
			}
			if (re.Cause != nil) != tt.wantCause {
				t.Errorf("Cause = %v, wantCause %v", re.Cause, tt.wantCause)
			}
		})
	}
}

func TestRegistry_BuildGranularityProperty(t *testing.T) {
	reg := newTestRegistry(t)
	build := func(name, granularity string) (*Buckets, error) {
		vc := config.ValidatorConfig{Name: name}
		if granularity != "" {
			vc.Properties = map[string]string{GranularityProperty: granularity}
		}
		return reg.Build(&config.Config{Validators: []config.ValidatorConfig{vc}}, nil)
	}

	buckets, err := build("Hybrid", "Section")
	if err != nil {
		t.Fatalf("Build(Hybrid, section) error = %v", err)
	}
	if len(buckets.Section) != 1 || len(buckets.Sentence) != 0 {
		t.Errorf("buckets = %d section, %d sentence, want 1, 0", len(buckets.Section), len(buckets.Sentence))
	}

	if buckets, err := build("Sentence", "sentence"); err != nil || len(buckets.Sentence) != 1 {
		t.Errorf("Build(Sentence, matching property) = %v, %v", buckets, err)
	}

	for _, tt := range []struct{ name, granularity string }{
		{"Hybrid", ""},
		{"Hybrid", "paragraph"},
		{"Sentence", "section"},
		{"Document", "sentence"},
	} {
		_, err := build(tt.name, tt.granularity)
		var re *RegistrationError
		if !errors.As(err, &re) {
			t.Errorf("Build(%s, %q) error = %v, want *RegistrationError", tt.name, tt.granularity, err)
		}
	}
}

type fixedMessages map[string]string

func (m fixedMessages) Message(validator, key string, args ...any) string {
	id := validator
	if key != "" {
		id += "." + key
	}
	if s, ok := m[id]; ok {
		return s
	}
	return joinArgs(args)
}

func TestErrorFactory(t *testing.T) {
	f := ErrorFactory{
		Name:     "Rule",
		Messages: fixedMessages{"Rule": "default message", "Rule.other": "keyed message"},
	}
	sentence := &model.Sentence{Content: "A cat cat sat.", LineNumber: 3, StartOffset: 4}

	e := f.New(sentence)
	if e.Message != "[Rule] default message" {
		t.Errorf("New() message = %q", e.Message)
	}
	if e.LineNumber != 3 || e.ValidatorName != "Rule" || e.Sentence != sentence {
		t.Errorf("New() = %+v", e)
	}
	if e.StartPosition != nil || e.EndPosition != nil {
		t.Error("New() should not set positions")
	}

	if e := f.NewWithKey("other", sentence); e.Message != "[Rule] keyed message" {
		t.Errorf("NewWithKey() message = %q", e.Message)
	}

	e = f.NewFromToken(sentence, model.Token{Surface: "cat", Offset: 6})
	if e.StartPosition == nil || *e.StartPosition != (model.LineOffset{Line: 3, Offset: 10}) {
		t.Errorf("NewFromToken() start = %+v", e.StartPosition)
	}
	if e.EndPosition == nil || *e.EndPosition != (model.LineOffset{Line: 3, Offset: 13}) {
		t.Errorf("NewFromToken() end = %+v", e.EndPosition)
	}

	e = f.NewWithPosition(sentence, model.LineOffset{Line: 4, Offset: 1}, model.LineOffset{Line: 4, Offset: 5})
	if e.LineNumber != 4 {
		t.Errorf("NewWithPosition() line = %d, want 4", e.LineNumber)
	}

	doc := ErrorFactory{Name: "Doc"}.New(nil, "two", 2)
	if doc.Message != "[Doc] two 2" || doc.LineNumber != 0 {
		t.Errorf("nil sentence finding = %+v", doc)
	}
}

func TestValidationError_String(t *testing.T) {
	e := &ValidationError{Message: "[R] bad", FileName: "a.txt", LineNumber: 2}
	if e.String() != "a.txt:2: [R] bad" {
		t.Errorf("String() = %q", e.String())
	}
	e.LineNumber = 0
	if e.String() != "a.txt: [R] bad" {
		t.Errorf("String() = %q", e.String())
	}
}
