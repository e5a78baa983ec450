package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix opens every annotation comment.
const Prefix = "//mvc::"

// annotationNode is the grammar root: //mvc::<type> <args...>
type annotationNode struct {
	Type string     `parser:"Comment Prefix @Word"`
	Args []*argNode `parser:"@@*"`
}

// argNode is either a -Name[=value] parameter or a bare positional value.
type argNode struct {
	Param *paramNode `parser:"  @@"`
	Value *string    `parser:"| @(Word | String)"`
}

type paramNode struct {
	Name  string  `parser:"@Flag"`
	Value *string `parser:"( Equals @(Word | String) )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Prefix", Pattern: `mvc::`},
	{Name: "Flag", Pattern: `-[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Equals", Pattern: `=`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Word", Pattern: `[^\s="]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser parses //mvc:: annotation comments and validates them against the
// schemas held by a registry.
type Parser struct {
	parser   *participle.Parser[annotationNode]
	registry *Registry
}

// NewParser creates a parser. A nil registry disables schema validation and
// keeps every parameter as a string (or true for bare flags).
func NewParser(registry *Registry) *Parser {
	return &Parser{
		parser: participle.MustBuild[annotationNode](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is an //mvc:: annotation.
func IsAnnotation(comment string) bool {
	return strings.HasPrefix(strings.TrimSpace(comment), Prefix)
}

// Parse parses one annotation comment.
func (p *Parser) Parse(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	text := strings.TrimSpace(comment)
	if !IsAnnotation(text) {
		return nil, &MarkerError{
			Kind: SyntaxErrorCode,
			Msg:  fmt.Sprintf("%q is not an annotation", text),
			Loc:  location,
			Hint: "annotations start with " + Prefix,
		}
	}

	node, err := p.parser.ParseString(location.File, text)
	if err != nil {
		return nil, &MarkerError{
			Kind: SyntaxErrorCode,
			Msg:  err.Error(),
			Loc:  location,
			Hint: "use //mvc::<type> [value...] [-Name=value...]",
		}
	}

	annotationType, err := ParseAnnotationType(node.Type)
	if err != nil {
		return nil, &MarkerError{
			Kind: SyntaxErrorCode,
			Msg:  err.Error(),
			Loc:  location,
			Hint: "valid annotation types: controller, service, inject, route, param",
		}
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]any),
		Location:   location,
		Raw:        text,
	}

	var schema *AnnotationSchema
	if p.registry != nil {
		s, err := p.registry.Schema(annotationType)
		if err != nil {
			return nil, &MarkerError{Kind: SchemaErrorCode, Msg: err.Error(), Loc: location, Hint: "build the registry with a schema for every marker in use"}
		}
		schema = &s
	}

	for _, arg := range node.Args {
		if arg.Value != nil {
			parsed.Positional = append(parsed.Positional, *arg.Value)
			continue
		}
		if err := p.addParameter(parsed, schema, arg.Param); err != nil {
			return nil, err
		}
	}

	if schema != nil {
		if err := validate(parsed, *schema); err != nil {
			return nil, err
		}
	}
	return parsed, nil
}

func (p *Parser) addParameter(parsed *ParsedAnnotation, schema *AnnotationSchema, param *paramNode) error {
	name := strings.TrimPrefix(param.Name, "-")
	if parsed.HasParameter(name) {
		return &ValidationError{
			Parameter: name,
			Expected:  "a single value",
			Actual:    "duplicate parameter",
			Loc:       parsed.Location,
			Hint:      "remove the repeated -" + name,
		}
	}

	if schema == nil {
		if param.Value == nil {
			parsed.Parameters[name] = true
		} else {
			parsed.Parameters[name] = *param.Value
		}
		return nil
	}

	spec, ok := schema.Parameters[name]
	if !ok {
		return &ValidationError{
			Parameter: name,
			Expected:  "a known parameter",
			Actual:    "-" + name,
			Loc:       parsed.Location,
			Hint:      validParameterHint(*schema),
		}
	}

	value, err := convertValue(spec.Type, param.Value)
	if err != nil {
		return &ValidationError{
			Parameter: name,
			Expected:  spec.Type.String(),
			Actual:    err.Error(),
			Loc:       parsed.Location,
			Hint:      spec.Description,
		}
	}
	parsed.Parameters[name] = value
	return nil
}

func convertValue(t ParameterType, raw *string) (any, error) {
	switch t {
	case StringSliceType:
		if raw == nil {
			return nil, fmt.Errorf("missing value")
		}
		var out []string
		for _, part := range strings.Split(*raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		if raw == nil {
			return nil, fmt.Errorf("missing value")
		}
		return *raw, nil
	}
}

func validate(parsed *ParsedAnnotation, schema AnnotationSchema) error {
	if len(parsed.Positional) > len(schema.Positional) {
		extra := parsed.Positional[len(schema.Positional)]
		return &ValidationError{
			Parameter: "positional",
			Expected:  fmt.Sprintf("at most %d value(s)", len(schema.Positional)),
			Actual:    fmt.Sprintf("%q", extra),
			Loc:       parsed.Location,
			Hint:      "quote values that contain spaces",
		}
	}
	for i, spec := range schema.Positional {
		if i >= len(parsed.Positional) {
			if spec.Required {
				return &ValidationError{
					Parameter: spec.Name,
					Expected:  spec.Description,
					Actual:    "nothing",
					Loc:       parsed.Location,
					Hint:      "example: " + exampleOf(schema),
				}
			}
			continue
		}
		if spec.Validator != nil {
			if err := spec.Validator(parsed.Positional[i]); err != nil {
				return &ValidationError{
					Parameter: spec.Name,
					Expected:  spec.Description,
					Actual:    err.Error(),
					Loc:       parsed.Location,
				}
			}
		}
	}

	for name, spec := range schema.Parameters {
		value, present := parsed.Parameters[name]
		if !present {
			if spec.Required {
				return &ValidationError{
					Parameter: name,
					Expected:  spec.Description,
					Actual:    "nothing",
					Loc:       parsed.Location,
				}
			}
			continue
		}
		if spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return &ValidationError{
					Parameter: name,
					Expected:  spec.Description,
					Actual:    err.Error(),
					Loc:       parsed.Location,
				}
			}
		}
	}

	for _, check := range schema.Validators {
		if err := check(parsed); err != nil {
			return err
		}
	}
	return nil
}

func exampleOf(schema AnnotationSchema) string {
	if len(schema.Examples) == 0 {
		return Prefix + schema.Type.String()
	}
	return schema.Examples[len(schema.Examples)-1]
}
