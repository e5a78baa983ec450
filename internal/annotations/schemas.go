package annotations

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"

	"github.com/toyz/minimvc/pkg/mvc"
)

// ControllerAnnotationSchema defines the schema for //mvc::controller annotations
var ControllerAnnotationSchema = AnnotationSchema{
	Type:        ControllerAnnotation,
	Description: "Marks a struct as a request-handling controller",
	Parameters: map[string]ParameterSpec{
		"Prefix": {
			Type:        StringType,
			Description: "Path prefix prepended to every route of the controller",
			Validator:   validatePathParam,
		},
		"Name": {
			Type:        StringType,
			Description: "Explicit registry key (defaults to the lower-camel type name)",
			Validator:   validateBeanName,
		},
	},
	Examples: []string{
		"//mvc::controller",
		"//mvc::controller -Prefix=/demo",
		"//mvc::controller -Prefix=/api/v1 -Name=apiController",
	},
}

// ServiceAnnotationSchema defines the schema for //mvc::service annotations
var ServiceAnnotationSchema = AnnotationSchema{
	Type:        ServiceAnnotation,
	Description: "Marks a struct as an injectable service",
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Description: "Explicit registry key (defaults to the lower-camel type name)",
			Validator:   validateBeanName,
		},
		"Implements": {
			Type:        StringSliceType,
			Description: "Interfaces the service is also registered under, comma separated",
		},
		"Constructor": {
			Type:        StringType,
			Description: "Package-level func() T, func() *T or func() (*T, error) used instead of new(T)",
			Validator:   validateIdentifier,
		},
	},
	Validators: []CustomValidator{validateImplements},
	Examples: []string{
		"//mvc::service",
		"//mvc::service -Name=primaryStore",
		"//mvc::service -Implements=IDemoService",
		"//mvc::service -Implements=IStore,cache.Store -Constructor=NewStore",
	},
}

// InjectAnnotationSchema defines the schema for //mvc::inject annotations
var InjectAnnotationSchema = AnnotationSchema{
	Type:        InjectAnnotation,
	Description: "Marks a struct field to be assigned from the component registry",
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Description: "Registry key to resolve (defaults to the field's declared type)",
			Validator:   validateBeanName,
		},
	},
	Examples: []string{
		"//mvc::inject",
		"//mvc::inject -Name=demoService",
	},
}

// RouteAnnotationSchema defines the schema for //mvc::route annotations
var RouteAnnotationSchema = AnnotationSchema{
	Type:        RouteAnnotation,
	Description: "Maps a controller method to a path fragment under the controller prefix",
	Positional: []PositionalSpec{
		{
			Name:        "path",
			Required:    true,
			Description: "Path fragment; literal, {name}, {name:type}, {*} or regex segments",
			Validator:   validatePath,
		},
	},
	Examples: []string{
		"//mvc::route query",
		"//mvc::route /users/{id:int}",
		`//mvc::route "/code/[0-9]{3}"`,
	},
}

// ParamAnnotationSchema defines the schema for //mvc::param annotations
var ParamAnnotationSchema = AnnotationSchema{
	Type:        ParamAnnotation,
	Description: "Binds a method parameter to a named request parameter",
	Positional: []PositionalSpec{
		{
			Name:        "param",
			Required:    true,
			Description: "Go parameter name",
			Validator:   checkIdentifier,
		},
		{
			Name:        "binding",
			Description: "Request parameter name (defaults to the Go parameter name)",
			Validator:   validateBindingName,
		},
	},
	Examples: []string{
		"//mvc::param name",
		"//mvc::param userID id",
	},
}

// BuiltinSchemas returns the schema of every //mvc:: marker
func BuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		ControllerAnnotationSchema,
		ServiceAnnotationSchema,
		InjectAnnotationSchema,
		RouteAnnotationSchema,
		ParamAnnotationSchema,
	}
}

func validatePathParam(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	return validatePath(s)
}

func validatePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return fmt.Errorf("path %q contains whitespace", s)
	}
	if strings.Count(s, "{") != strings.Count(s, "}") {
		return fmt.Errorf("mismatched braces in path %q", s)
	}
	if _, err := mvc.JoinPath("", s).Compile(); err != nil {
		return fmt.Errorf("path %q does not compile: %w", s, err)
	}
	return nil
}

func validateBeanName(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return fmt.Errorf("name %q contains whitespace", s)
	}
	return nil
}

func validateIdentifier(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	return checkIdentifier(s)
}

func checkIdentifier(s string) error {
	if !token.IsIdentifier(s) {
		return fmt.Errorf("%q is not a Go identifier", s)
	}
	return nil
}

func validateBindingName(s string) error {
	if s == "" || strings.ContainsAny(s, " \t&=?#") {
		return fmt.Errorf("%q is not a valid request parameter name", s)
	}
	return nil
}

func validateImplements(a *ParsedAnnotation) error {
	for _, name := range a.GetStringSlice("Implements") {
		qualifier, typeName := "", name
		if i := strings.LastIndex(name, "."); i >= 0 {
			qualifier, typeName = name[:i], name[i+1:]
		}
		if !token.IsIdentifier(typeName) || strings.HasPrefix(name, ".") || strings.ContainsAny(qualifier, " \t") {
			return &ValidationError{
				Parameter: "Implements",
				Expected:  "interface names such as IFoo, pkg.IFoo or app/pkg.IFoo",
				Actual:    name,
				Loc:       a.Location,
			}
		}
	}
	return nil
}
