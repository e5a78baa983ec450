package models

import (
	"fmt"
	"strings"
)

// GeneratorError represents an error that occurred during code generation
type GeneratorError struct {
	Type        ErrorType // type of error
	File        string    // file where error occurred
	Line        int       // line number where error occurred
	Message     string    // error message
	Suggestions []string  // suggested fixes, shown by the CLI
	Cause       error     // underlying error cause
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// Detail returns the error followed by its suggestions, one per line
func (e *GeneratorError) Detail() string {
	if len(e.Suggestions) == 0 {
		return e.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	for _, s := range e.Suggestions {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

// NewValidationError creates a validation GeneratorError at file:line
func NewValidationError(file string, line int, message string, suggestions ...string) *GeneratorError {
	return &GeneratorError{
		Type:        ErrorTypeValidation,
		File:        file,
		Line:        line,
		Message:     message,
		Suggestions: suggestions,
	}
}
