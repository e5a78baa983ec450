package annotations

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps each marker type to its schema. It is fixed once built, so
// parsers on several goroutines may share one.
type Registry struct {
	schemas map[AnnotationType]AnnotationSchema
}

// NewRegistry checks and indexes schemas by their Type. A type described
// twice, an unknown type or a malformed schema is a *MarkerError with
// RegistrationErrorCode.
func NewRegistry(schemas ...AnnotationSchema) (*Registry, error) {
	r := &Registry{schemas: make(map[AnnotationType]AnnotationSchema, len(schemas))}
	for _, schema := range schemas {
		if schema.Type.String() == "unknown" {
			return nil, &MarkerError{
				Kind: RegistrationErrorCode,
				Msg:  fmt.Sprintf("schema for unknown annotation type %d", schema.Type),
				Hint: "set AnnotationSchema.Type to one of the //mvc:: markers",
			}
		}
		if _, exists := r.schemas[schema.Type]; exists {
			return nil, &MarkerError{
				Kind: RegistrationErrorCode,
				Msg:  fmt.Sprintf("annotation type %s is already registered", schema.Type),
				Hint: "pass each annotation type once",
			}
		}
		if err := checkSchema(schema); err != nil {
			return nil, &MarkerError{
				Kind: RegistrationErrorCode,
				Msg:  fmt.Sprintf("invalid schema for %s: %v", schema.Type, err),
				Hint: "fix the schema definition",
			}
		}
		r.schemas[schema.Type] = schema
	}
	return r, nil
}

// DefaultRegistry holds the built-in schemas.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(BuiltinSchemas()...)
	if err != nil {
		panic(fmt.Sprintf("built-in schemas: %v", err))
	}
	return r
})

// Schema returns the schema registered for annotationType
func (r *Registry) Schema(annotationType AnnotationType) (AnnotationSchema, error) {
	schema, ok := r.schemas[annotationType]
	if !ok {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType)
	}
	return schema, nil
}

// Has reports whether annotationType has a schema
func (r *Registry) Has(annotationType AnnotationType) bool {
	_, ok := r.schemas[annotationType]
	return ok
}

// Types lists the registered types in declaration order
func (r *Registry) Types() []AnnotationType {
	types := make([]AnnotationType, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// checkSchema rejects parameters without a name or a known type, and
// required positionals placed after optional ones
func checkSchema(schema AnnotationSchema) error {
	for name, param := range schema.Parameters {
		switch {
		case name == "":
			return fmt.Errorf("parameter name cannot be empty")
		case param.Type.String() == "unknown":
			return fmt.Errorf("invalid parameter type for %s: %d", name, param.Type)
		}
	}

	optionalAt := -1
	for i, pos := range schema.Positional {
		switch {
		case pos.Name == "":
			return fmt.Errorf("positional %d has no name", i)
		case pos.Required && optionalAt >= 0:
			return fmt.Errorf("required positional %s follows optional %s", pos.Name, schema.Positional[optionalAt].Name)
		case !pos.Required && optionalAt < 0:
			optionalAt = i
		}
	}
	return nil
}
