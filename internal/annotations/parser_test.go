package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	reg, err := NewRegistry(BuiltinSchemas()...)
	require.NoError(t, err)
	return NewParser(reg)
}

func TestParser_ValidAnnotations(t *testing.T) {
	p := newTestParser(t)
	loc := SourceLocation{File: "demo.go", Line: 3, Column: 1}

	tests := []struct {
		name       string
		comment    string
		wantType   AnnotationType
		positional []string
		params     map[string]any
	}{
		{
			name:     "bare controller",
			comment:  "//mvc::controller",
			wantType: ControllerAnnotation,
			params:   map[string]any{},
		},
		{
			name:     "controller with prefix and name",
			comment:  "//mvc::controller -Prefix=/demo -Name=demo",
			wantType: ControllerAnnotation,
			params:   map[string]any{"Prefix": "/demo", "Name": "demo"},
		},
		{
			name:     "service implements list",
			comment:  "//mvc::service -Implements=IDemoService,store.Reader -Constructor=NewDemoService",
			wantType: ServiceAnnotation,
			params: map[string]any{
				"Implements":  []string{"IDemoService", "store.Reader"},
				"Constructor": "NewDemoService",
			},
		},
		{
			name:     "inject by name",
			comment:  "  //mvc::inject -Name=demoService  ",
			wantType: InjectAnnotation,
			params:   map[string]any{"Name": "demoService"},
		},
		{
			name:       "route fragment",
			comment:    "//mvc::route query",
			wantType:   RouteAnnotation,
			positional: []string{"query"},
			params:     map[string]any{},
		},
		{
			name:       "route with placeholder",
			comment:    "//mvc::route /users/{id:int}",
			wantType:   RouteAnnotation,
			positional: []string{"/users/{id:int}"},
			params:     map[string]any{},
		},
		{
			name:       "quoted regex route",
			comment:    `//mvc::route "/code/[0-9]{3}"`,
			wantType:   RouteAnnotation,
			positional: []string{"/code/[0-9]{3}"},
			params:     map[string]any{},
		},
		{
			name:       "param with binding",
			comment:    "//mvc::param userID id",
			wantType:   ParamAnnotation,
			positional: []string{"userID", "id"},
			params:     map[string]any{},
		},
		{
			name:       "quoted parameter value",
			comment:    `//mvc::controller -Prefix="/api/v1"`,
			wantType:   ControllerAnnotation,
			positional: nil,
			params:     map[string]any{"Prefix": "/api/v1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := p.Parse(tt.comment, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, parsed.Type)
			assert.Equal(t, tt.positional, parsed.Positional)
			assert.Equal(t, tt.params, parsed.Parameters)
			assert.Equal(t, loc, parsed.Location)
		})
	}
}

func TestParser_Accessors(t *testing.T) {
	p := newTestParser(t)

	parsed, err := p.Parse("//mvc::param name", SourceLocation{})
	require.NoError(t, err)
	assert.Equal(t, "name", parsed.Arg(0))
	assert.Equal(t, "name", parsed.Arg(1, parsed.Arg(0)))
	assert.Equal(t, "", parsed.Arg(5))

	parsed, err = p.Parse("//mvc::service -Implements=IFoo", SourceLocation{})
	require.NoError(t, err)
	assert.Equal(t, []string{"IFoo"}, parsed.GetStringSlice("Implements"))
	assert.Equal(t, "fallback", parsed.GetString("Name", "fallback"))
	assert.False(t, parsed.HasParameter("Name"))
	assert.Nil(t, parsed.GetStringSlice("Missing"))
}

func TestParser_Errors(t *testing.T) {
	p := newTestParser(t)
	loc := SourceLocation{File: "bad.go", Line: 10, Column: 2}

	tests := []struct {
		name    string
		comment string
		code    ErrorCode
		message string
	}{
		{"not an annotation", "// regular comment", SyntaxErrorCode, "not an annotation"},
		{"missing type", "//mvc::", SyntaxErrorCode, "syntax error"},
		{"unknown type", "//mvc::middleware", SyntaxErrorCode, "unknown annotation type"},
		{"unknown parameter", "//mvc::controller -Path=/x", ValidationErrorCode, "valid parameters: -Name, -Prefix"},
		{"duplicate parameter", "//mvc::controller -Prefix=/a -Prefix=/b", ValidationErrorCode, "duplicate"},
		{"missing value", "//mvc::inject -Name", ValidationErrorCode, "missing value"},
		{"route without path", "//mvc::route", ValidationErrorCode, "'path'"},
		{"route with two paths", "//mvc::route a b", ValidationErrorCode, "at most 1"},
		{"route that does not compile", "//mvc::route broken/(", ValidationErrorCode, "does not compile"},
		{"mismatched braces", "//mvc::route users/{id", ValidationErrorCode, "mismatched braces"},
		{"param not an identifier", "//mvc::param 1abc", ValidationErrorCode, "not a Go identifier"},
		{"bad binding name", "//mvc::param q a&b", ValidationErrorCode, "not a valid request parameter"},
		{"bad implements", "//mvc::service -Implements=foo-bar", ValidationErrorCode, "Implements"},
		{"bad constructor", "//mvc::service -Constructor=new.Thing", ValidationErrorCode, "not a Go identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.comment, loc)
			require.Error(t, err)

			var aerr AnnotationError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, tt.code, aerr.Code(), err.Error())
			assert.Equal(t, loc, aerr.Location())
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), "bad.go:10:2")
		})
	}
}

func TestParser_WithoutRegistry(t *testing.T) {
	p := NewParser(nil)

	parsed, err := p.Parse("//mvc::controller -Anything=goes -Flag extra", SourceLocation{})
	require.NoError(t, err)
	assert.Equal(t, "goes", parsed.GetString("Anything"))
	assert.Equal(t, true, parsed.Parameters["Flag"])
	assert.Equal(t, []string{"extra"}, parsed.Positional)
}

func TestParser_UnregisteredSchema(t *testing.T) {
	reg, err := NewRegistry(ControllerAnnotationSchema)
	require.NoError(t, err)
	p := NewParser(reg)

	_, err = p.Parse("//mvc::route x", SourceLocation{})
	var aerr AnnotationError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, SchemaErrorCode, aerr.Code())
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//mvc::route x"))
	assert.True(t, IsAnnotation("   //mvc::controller"))
	assert.False(t, IsAnnotation("// mvc::route x"))
	assert.False(t, IsAnnotation("//api::route GET /x"))
	assert.False(t, IsAnnotation("/* mvc::route */"))
}

func TestMarkerError_Format(t *testing.T) {
	err := &MarkerError{Kind: SyntaxErrorCode, Msg: "bad", Loc: SourceLocation{File: "a.go", Line: 2, Column: 1}, Hint: "fix it"}
	assert.Equal(t, "a.go:2:1: syntax error: bad. fix it", err.Error())

	err = &MarkerError{Kind: RegistrationErrorCode, Msg: "twice"}
	assert.Equal(t, "registration error: twice", err.Error())

	assert.Equal(t, "UnknownError", ErrorCode(9).String())
}
