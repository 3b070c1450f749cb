package validation

import (
	"fmt"

	"scribe-hq/proofread/pkg/model"
)

// ValidationError is a single finding reported by a validator.
type ValidationError struct {
	// Message is the formatted message, prefixed with "[validator] "
	Message string `json:"message"`

	// FileName is set by the pipeline before the finding is distributed
	FileName string `json:"file"`

	// ValidatorName identifies the validator that produced the finding
	ValidatorName string `json:"validator"`

	// LineNumber is the line of the offending sentence (0 when unknown)
	LineNumber int `json:"line"`

	StartPosition *model.LineOffset `json:"start,omitempty"`
	EndPosition   *model.LineOffset `json:"end,omitempty"`

	// Sentence is the offending sentence, if any
	Sentence *model.Sentence `json:"-"`
}

// String renders the finding as "file:line: message".
func (e *ValidationError) String() string {
	switch {
	case e.FileName != "" && e.LineNumber > 0:
		return fmt.Sprintf("%s:%d: %s", e.FileName, e.LineNumber, e.Message)
	case e.FileName != "":
		return fmt.Sprintf("%s: %s", e.FileName, e.Message)
	default:
		return e.Message
	}
}

// RegistrationError is a fatal error raised while building validators.
// It prevents the pipeline from being constructed.
type RegistrationError struct {
	// Validator is the configured or resolved validator name, if known
	Validator string

	// Message describes the error
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	msg := e.Message
	if e.Validator != "" {
		msg = fmt.Sprintf("validator %q %s", e.Validator, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("registration error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("registration error: %s", msg)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *RegistrationError) Unwrap() error {
	return e.Cause
}
