package builtin

import (
	"fmt"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/validation"
)

// DefaultMaxSectionWords is the default max_num of SectionLength.
const DefaultMaxSectionWords = 1000

// SectionLength reports sections with too many words.
type SectionLength struct {
	max    int
	errors validation.ErrorFactory
}

// NewSectionLength creates the validator from its max_num property.
func NewSectionLength(cfg config.ValidatorConfig, messages validation.MessageResolver) (*SectionLength, error) {
	limit, err := cfg.IntProperty("max_num", DefaultMaxSectionWords)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("max_num must be positive, got %d", limit)
	}
	return &SectionLength{
		max:    limit,
		errors: validation.ErrorFactory{Name: SectionLengthName, Messages: messages},
	}, nil
}

func (v *SectionLength) Name() string { return SectionLengthName }

func (v *SectionLength) ValidateSection(section *model.Section) []*validation.ValidationError {
	sentences := section.Sentences()
	words := 0
	for _, sentence := range sentences {
		words += len(tokensOf(sentence))
	}
	if words <= v.max {
		return nil
	}
	var anchor *model.Sentence
	if len(sentences) > 0 {
		anchor = sentences[0]
	}
	return []*validation.ValidationError{v.errors.New(anchor, words, v.max)}
}

// DuplicateSection reports section headers that appear more than once in a
// document. Sections without a header are ignored.
type DuplicateSection struct {
	errors validation.ErrorFactory
}

// NewDuplicateSection creates the validator.
func NewDuplicateSection(messages validation.MessageResolver) *DuplicateSection {
	return &DuplicateSection{
		errors: validation.ErrorFactory{Name: DuplicateSectionName, Messages: messages},
	}
}

func (v *DuplicateSection) Name() string { return DuplicateSectionName }

func (v *DuplicateSection) ValidateDocument(doc *model.Document) []*validation.ValidationError {
	seen := make(map[string]bool)
	var errs []*validation.ValidationError
	for _, section := range doc.Sections {
		header := section.HeaderText()
		if header == "" {
			continue
		}
		if seen[header] {
			errs = append(errs, v.errors.New(section.HeaderContents[0], header))
			continue
		}
		seen[header] = true
	}
	return errs
}
