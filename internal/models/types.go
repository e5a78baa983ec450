package models

// ParameterSource represents where a route method argument comes from
type ParameterSource int

const (
	ParameterSourceRequest ParameterSource = iota
	ParameterSourceHTTPRequest
	ParameterSourceResponseWriter
)

// String returns the string representation of the parameter source
func (s ParameterSource) String() string {
	switch s {
	case ParameterSourceRequest:
		return "request"
	case ParameterSourceHTTPRequest:
		return "http-request"
	case ParameterSourceResponseWriter:
		return "response-writer"
	default:
		return "unknown"
	}
}

// ReturnType represents the type of return signature for handlers
type ReturnType int

const (
	ReturnTypeNone ReturnType = iota
	ReturnTypeError
)

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeAnnotationSyntax ErrorType = iota
	ErrorTypeValidation
	ErrorTypeGeneration
	ErrorTypeFileSystem
)

// String returns the string representation of the error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeAnnotationSyntax:
		return "annotation syntax"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeGeneration:
		return "generation"
	case ErrorTypeFileSystem:
		return "file system"
	default:
		return "unknown"
	}
}
