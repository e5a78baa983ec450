package annotations

import "fmt"

// AnnotationType identifies a //mvc:: marker
type AnnotationType int

const (
	ControllerAnnotation AnnotationType = iota
	ServiceAnnotation
	InjectAnnotation
	RouteAnnotation
	ParamAnnotation
)

// markerNames is indexed by AnnotationType; it is also the word written
// after "//mvc::" in source.
var markerNames = [...]string{
	ControllerAnnotation: "controller",
	ServiceAnnotation:    "service",
	InjectAnnotation:     "inject",
	RouteAnnotation:      "route",
	ParamAnnotation:      "param",
}

func (a AnnotationType) String() string {
	if a < 0 || int(a) >= len(markerNames) {
		return "unknown"
	}
	return markerNames[a]
}

// ParseAnnotationType maps a marker word to its type
func ParseAnnotationType(s string) (AnnotationType, error) {
	for i, name := range markerNames {
		if name == s {
			return AnnotationType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown annotation type: %s", s)
}

// SourceLocation is the position of a marker comment. Line and column are 1-based.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParsedAnnotation is one marker after schema validation. Parameter values
// have already been converted to the type their schema declares.
type ParsedAnnotation struct {
	Type       AnnotationType
	Positional []string
	Parameters map[string]any
	Location   SourceLocation
	Raw        string
}

// Arg returns the i-th positional value, or the default when absent.
func (p *ParsedAnnotation) Arg(i int, defaultValue ...string) string {
	if i >= 0 && i < len(p.Positional) {
		return p.Positional[i]
	}
	return first(defaultValue)
}

func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	return lookup(p, paramName, defaultValue)
}

func (p *ParsedAnnotation) GetStringSlice(paramName string, defaultValue ...[]string) []string {
	return lookup(p, paramName, defaultValue)
}

// HasParameter reports whether -paramName was written on the marker
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// lookup returns the named parameter when it holds a T, else the optional default
func lookup[T any](p *ParsedAnnotation, name string, defaultValue []T) T {
	if v, ok := p.Parameters[name].(T); ok {
		return v
	}
	return first(defaultValue)
}

func first[T any](values []T) T {
	var zero T
	if len(values) == 0 {
		return zero
	}
	return values[0]
}

// ParameterType is the value type a -Name=value parameter converts to
type ParameterType int

const (
	StringType ParameterType = iota
	StringSliceType
)

func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case StringSliceType:
		return "[]string"
	}
	return "unknown"
}

// ParameterSpec describes one -Name=value parameter a marker accepts
type ParameterSpec struct {
	Type        ParameterType
	Required    bool
	Description string
	Validator   func(any) error
}

// PositionalSpec describes one bare value accepted after the marker word
type PositionalSpec struct {
	Name        string
	Required    bool
	Description string
	Validator   func(string) error
}

// CustomValidator checks a whole marker once its values are typed
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema lists what a marker type accepts. Examples feed error
// suggestions; the last one is the most complete form.
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Positional  []PositionalSpec
	Parameters  map[string]ParameterSpec
	Validators  []CustomValidator
	Examples    []string
}
