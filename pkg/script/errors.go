package script

import (
	"fmt"
	"strings"
)

// IOError represents a plugin file that could not be read.
// The file is skipped.
type IOError struct {
	// FilePath is the path to the plugin file
	FilePath string

	// Message describes the error
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to read plugin file %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to read plugin file %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// LoadError represents a plugin that failed to compile.
// Other plugins of the same directory still load.
type LoadError struct {
	// Plugin is the plugin name
	Plugin string

	// FilePath is the path to the plugin file
	FilePath string

	// Message describes the error
	Message string

	// Cause is the underlying interpreter error
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load plugin %q: %s: %v", e.Plugin, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load plugin %q: %s", e.Plugin, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// RuntimeError represents a hook that failed while running: it panicked,
// returned an error, or was called with arguments it does not accept.
type RuntimeError struct {
	// Plugin is the plugin name
	Plugin string

	// Hook is the hook function name
	Hook string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("plugin %q hook %s failed: %v", e.Plugin, e.Hook, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// ErrorList contains multiple errors that occurred while loading plugins.
// Loading continues past failed files, so some plugins may be usable.
type ErrorList struct {
	Errors []error
}

// Error implements the error interface.
func (e *ErrorList) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return sb.String()
}

// Unwrap returns the collected errors so errors.As can find any of them.
func (e *ErrorList) Unwrap() []error {
	return e.Errors
}

// Add adds an error to the list.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if the list contains any errors.
func (e *ErrorList) HasErrors() bool {
	return len(e.Errors) > 0
}
