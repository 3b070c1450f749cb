package script

import (
	"fmt"
	"strings"

	"scribe-hq/proofread/pkg/messages"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/validation"
)

// MessageKey is the validator name used to look up localized messages for
// plugins that do not declare a message template.
const MessageKey = "Script"

// Errors collects the findings a plugin hook reports. It is the only host
// API bound into plugins besides the document types.
type Errors struct {
	factory validation.ErrorFactory
	found   []*validation.ValidationError
}

func newErrors(factory validation.ErrorFactory) *Errors {
	return &Errors{factory: factory}
}

// Add reports a finding on sentence with positional message arguments.
func (e *Errors) Add(sentence *model.Sentence, args ...any) {
	e.found = append(e.found, e.factory.New(sentence, args...))
}

// AddWithKey reports a finding using an explicit message key.
func (e *Errors) AddWithKey(key string, sentence *model.Sentence, args ...any) {
	e.found = append(e.found, e.factory.NewWithKey(key, sentence, args...))
}

// AddFromToken reports a finding spanning token inside sentence.
func (e *Errors) AddFromToken(sentence *model.Sentence, token model.Token, args ...any) {
	e.found = append(e.found, e.factory.NewFromToken(sentence, token, args...))
}

// AddWithPosition reports a finding spanning start to end.
func (e *Errors) AddWithPosition(sentence *model.Sentence, start, end model.LineOffset, args ...any) {
	e.found = append(e.found, e.factory.NewWithPosition(sentence, start, end, args...))
}

// Len returns the number of findings collected so far.
func (e *Errors) Len() int {
	return len(e.found)
}

// pluginMessages uses the plugin's own template when it declares one and the
// localized "Script" messages otherwise.
type pluginMessages struct {
	template string
	fallback validation.MessageResolver
}

func (m pluginMessages) Message(_, key string, args ...any) string {
	if m.template != "" {
		return messages.Format(m.template, args...)
	}
	if m.fallback != nil {
		return m.fallback.Message(MessageKey, key, args...)
	}
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
