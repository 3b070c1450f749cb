package validation

import "scribe-hq/proofread/pkg/model"

// Validator is a rule unit. Concrete validators implement exactly one of
// DocumentValidator, SectionValidator or SentenceValidator.
type Validator interface {
	// Name identifies the validator in messages and logs.
	Name() string
}

// DocumentValidator inspects a whole document.
type DocumentValidator interface {
	Validator
	ValidateDocument(doc *model.Document) []*ValidationError
}

// SectionValidator inspects one section at a time.
type SectionValidator interface {
	Validator
	ValidateSection(section *model.Section) []*ValidationError
}

// SentenceValidator inspects one sentence at a time.
type SentenceValidator interface {
	Validator
	ValidateSentence(sentence *model.Sentence) []*ValidationError
}

// SentencePreProcessor is the optional pre-processing capability of a
// sentence validator. It runs over every sentence of a section before any
// sentence of that section is validated and must not report findings.
type SentencePreProcessor interface {
	PreProcessSentence(sentence *model.Sentence)
}

// SectionPreProcessor is the optional pre-processing capability of a
// section validator. It runs over every section before section validation.
type SectionPreProcessor interface {
	PreProcessSection(section *model.Section)
}

// Expander is implemented by validators that stand for several validators,
// possibly of different granularities. The registry replaces an Expander by
// the validators it returns.
type Expander interface {
	Validators() []Validator
}
