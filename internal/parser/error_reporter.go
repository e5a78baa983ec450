package parser

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/toyz/minimvc/internal/annotations"
	"github.com/toyz/minimvc/internal/models"
)

// errorReporter turns parse and validation failures into GeneratorErrors
// carrying the source position and suggested fixes
type errorReporter struct {
	fileSet *token.FileSet
}

func (r *errorReporter) position(pos token.Pos) token.Position {
	return r.fileSet.Position(pos)
}

// annotationError wraps a marker that failed to parse or validate
func (r *errorReporter) annotationError(pos token.Pos, err error) error {
	at := r.position(pos)
	genErr := &models.GeneratorError{
		Type:    models.ErrorTypeAnnotationSyntax,
		File:    at.Filename,
		Line:    at.Line,
		Message: "invalid annotation",
		Cause:   err,
	}
	var aerr annotations.AnnotationError
	if errors.As(err, &aerr) && aerr.Suggestion() != "" {
		genErr.Suggestions = append(genErr.Suggestions, aerr.Suggestion())
	}
	return genErr
}

// validationError reports a marker placed or combined incorrectly
func (r *errorReporter) validationError(pos token.Pos, suggestions []string, format string, args ...any) error {
	at := r.position(pos)
	return models.NewValidationError(at.Filename, at.Line, fmt.Sprintf(format, args...), suggestions...)
}

// fileError reports a source file that could not be read or parsed
func (r *errorReporter) fileError(file string, err error) error {
	return &models.GeneratorError{
		Type:    models.ErrorTypeFileSystem,
		File:    file,
		Message: "failed to load Go source",
		Cause:   err,
	}
}

func suggest(s ...string) []string { return s }
