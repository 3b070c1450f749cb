package validation

import (
	"unicode/utf8"

	"scribe-hq/proofread/pkg/model"
)

// MessageResolver turns a message key and arguments into text.
// key is empty for the validator's default message.
type MessageResolver interface {
	Message(validator, key string, args ...any) string
}

// ErrorFactory builds findings for one validator. Every message is prefixed
// with the validator name in square brackets.
type ErrorFactory struct {
	// Name is the validator identity used for the prefix and message lookup
	Name string

	// Messages resolves message templates; nil joins the arguments
	Messages MessageResolver
}

// New creates a finding anchored to sentence using the default message.
// sentence may be nil for document and section level findings.
func (f ErrorFactory) New(sentence *model.Sentence, args ...any) *ValidationError {
	return f.NewWithKey("", sentence, args...)
}

// NewWithKey creates a finding using an explicit message key.
func (f ErrorFactory) NewWithKey(key string, sentence *model.Sentence, args ...any) *ValidationError {
	e := &ValidationError{
		Message:       "[" + f.Name + "] " + f.message(key, args...),
		ValidatorName: f.Name,
		Sentence:      sentence,
	}
	if sentence != nil {
		e.LineNumber = sentence.LineNumber
	}
	return e
}

// NewFromToken creates a finding spanning token inside sentence.
func (f ErrorFactory) NewFromToken(sentence *model.Sentence, token model.Token, args ...any) *ValidationError {
	start := sentence.Position(token.Offset)
	end := sentence.Position(token.Offset + utf8.RuneCountInString(token.Surface))
	return f.NewWithPosition(sentence, start, end, args...)
}

// NewWithPosition creates a finding spanning start to end.
func (f ErrorFactory) NewWithPosition(sentence *model.Sentence, start, end model.LineOffset, args ...any) *ValidationError {
	e := f.New(sentence, args...)
	e.StartPosition = &start
	e.EndPosition = &end
	if start.Line > 0 {
		e.LineNumber = start.Line
	}
	return e
}

func (f ErrorFactory) message(key string, args ...any) string {
	if f.Messages != nil {
		return f.Messages.Message(f.Name, key, args...)
	}
	return joinArgs(args)
}
