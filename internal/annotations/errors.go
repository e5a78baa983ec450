package annotations

import (
	"fmt"
	"sort"
	"strings"
)

// AnnotationError is implemented by every error this package returns
type AnnotationError interface {
	error
	Location() SourceLocation
	Suggestion() string
	Code() ErrorCode
}

// ErrorCode classifies an AnnotationError
type ErrorCode int

const (
	SyntaxErrorCode ErrorCode = iota
	ValidationErrorCode
	SchemaErrorCode
	RegistrationErrorCode
)

var codeNames = [...]string{
	SyntaxErrorCode:       "SyntaxError",
	ValidationErrorCode:   "ValidationError",
	SchemaErrorCode:       "SchemaError",
	RegistrationErrorCode: "RegistrationError",
}

func (e ErrorCode) String() string {
	if e < 0 || int(e) >= len(codeNames) {
		return "UnknownError"
	}
	return codeNames[e]
}

// label is the lower-case form used inside messages: "syntax error"
func (e ErrorCode) label() string {
	return strings.ToLower(strings.TrimSuffix(e.String(), "Error")) + " error"
}

// MarkerError is a marker that could not be read at all (SyntaxErrorCode),
// has no schema (SchemaErrorCode), or a schema that could not be
// registered (RegistrationErrorCode).
type MarkerError struct {
	Kind ErrorCode
	Msg  string
	Loc  SourceLocation // zero for registration errors
	Hint string
}

func (e *MarkerError) Error() string {
	msg := e.Kind.label() + ": " + e.Msg
	if e.Loc != (SourceLocation{}) {
		msg = e.Loc.String() + ": " + msg
	}
	return withHint(msg, e.Hint)
}

func (e *MarkerError) Location() SourceLocation { return e.Loc }
func (e *MarkerError) Suggestion() string       { return e.Hint }
func (e *MarkerError) Code() ErrorCode          { return e.Kind }

// ValidationError is a well-formed marker whose values its schema rejects
type ValidationError struct {
	Parameter string
	Expected  string
	Actual    string
	Loc       SourceLocation
	Hint      string
}

func (e *ValidationError) Error() string {
	return withHint(fmt.Sprintf("%s: parameter '%s' validation failed: expected %s, got %s",
		e.Loc, e.Parameter, e.Expected, e.Actual), e.Hint)
}

func (e *ValidationError) Location() SourceLocation { return e.Loc }
func (e *ValidationError) Suggestion() string       { return e.Hint }
func (e *ValidationError) Code() ErrorCode          { return ValidationErrorCode }

func withHint(msg, hint string) string {
	if hint == "" {
		return msg
	}
	return msg + ". " + hint
}

func validParameterHint(schema AnnotationSchema) string {
	if len(schema.Parameters) == 0 {
		return fmt.Sprintf("//mvc::%s takes no named parameters", schema.Type)
	}
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, "-"+name)
	}
	sort.Strings(names)
	return "valid parameters: " + strings.Join(names, ", ")
}
