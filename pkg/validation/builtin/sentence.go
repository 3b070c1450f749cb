package builtin

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/validation"
)

// Validator type names.
const (
	SentenceLengthName      = "SentenceLength"
	TerminalPunctuationName = "TerminalPunctuation"
	DoubledWordName         = "DoubledWord"
	SectionLengthName       = "SectionLength"
	DuplicateSectionName    = "DuplicateSection"
)

// DefaultMaxSentenceLength is the default max_len of SentenceLength.
const DefaultMaxSentenceLength = 120

// DefaultTerminalMarks is the default marks of TerminalPunctuation.
const DefaultTerminalMarks = ".?!。？！"

// SentenceLength reports sentences longer than a maximum number of runes.
type SentenceLength struct {
	max    int
	errors validation.ErrorFactory
}

// NewSentenceLength creates the validator from its max_len property.
func NewSentenceLength(cfg config.ValidatorConfig, messages validation.MessageResolver) (*SentenceLength, error) {
	limit, err := cfg.IntProperty("max_len", DefaultMaxSentenceLength)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("max_len must be positive, got %d", limit)
	}
	return &SentenceLength{
		max:    limit,
		errors: validation.ErrorFactory{Name: SentenceLengthName, Messages: messages},
	}, nil
}

func (v *SentenceLength) Name() string { return SentenceLengthName }

func (v *SentenceLength) ValidateSentence(sentence *model.Sentence) []*validation.ValidationError {
	n := utf8.RuneCountInString(sentence.Content)
	if n <= v.max {
		return nil
	}
	return []*validation.ValidationError{v.errors.New(sentence, n, v.max)}
}

// TerminalPunctuation reports sentences that do not end with a terminal mark.
type TerminalPunctuation struct {
	marks  string
	errors validation.ErrorFactory
}

// NewTerminalPunctuation creates the validator from its marks property.
func NewTerminalPunctuation(cfg config.ValidatorConfig, messages validation.MessageResolver) *TerminalPunctuation {
	return &TerminalPunctuation{
		marks:  cfg.StringProperty("marks", DefaultTerminalMarks),
		errors: validation.ErrorFactory{Name: TerminalPunctuationName, Messages: messages},
	}
}

func (v *TerminalPunctuation) Name() string { return TerminalPunctuationName }

func (v *TerminalPunctuation) ValidateSentence(sentence *model.Sentence) []*validation.ValidationError {
	content := strings.TrimRight(sentence.Content, " \t\"')]」』")
	if content == "" {
		return nil
	}
	last, _ := utf8.DecodeLastRuneInString(content)
	if strings.ContainsRune(v.marks, last) {
		return nil
	}
	return []*validation.ValidationError{v.errors.New(sentence, sentence.Content)}
}

// DoubledWord reports a word repeated immediately after itself.
// Its pre-processor tokenizes every sentence before validation.
type DoubledWord struct {
	errors validation.ErrorFactory
}

// NewDoubledWord creates the validator.
func NewDoubledWord(messages validation.MessageResolver) *DoubledWord {
	return &DoubledWord{
		errors: validation.ErrorFactory{Name: DoubledWordName, Messages: messages},
	}
}

func (v *DoubledWord) Name() string { return DoubledWordName }

// PreProcessSentence tokenizes the sentence.
func (v *DoubledWord) PreProcessSentence(sentence *model.Sentence) {
	tokensOf(sentence)
}

func (v *DoubledWord) ValidateSentence(sentence *model.Sentence) []*validation.ValidationError {
	tokens := tokensOf(sentence)
	var errs []*validation.ValidationError
	for i := 1; i < len(tokens); i++ {
		if sameWord(tokens[i-1].Surface, tokens[i].Surface) {
			errs = append(errs, v.errors.NewFromToken(sentence, tokens[i], tokens[i].Surface))
		}
	}
	return errs
}
