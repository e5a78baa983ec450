package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPattern(t *testing.T) {
	pkg := &PackageMetadata{PackageName: "controller", Dir: "app/controller"}

	controller := NewMetadataBuilder(pkg, "DemoController").
		WithLocation("demo.go", 12).
		WithDependencies(Dependency{Name: "Service", Type: "service.IDemoService", TypeName: "app/service.IDemoService"}).
		BuildController("/demo", []RouteMethodMetadata{
			{MethodName: "Query", Path: "query"},
		})

	assert.Equal(t, "DemoController", controller.GetStructName())
	assert.Equal(t, "app/controller.DemoController", controller.QualifiedName)
	assert.Equal(t, "", controller.GetName())
	assert.Equal(t, "/demo", controller.Prefix)
	assert.Len(t, controller.GetDependencies(), 1)
	assert.Equal(t, "demo.go", controller.File)
	assert.Equal(t, 12, controller.Line)

	service := NewMetadataBuilder(&PackageMetadata{Dir: "."}, "Store").
		WithName("primaryStore").
		WithImplements("IStore").
		WithConstructor("NewStore", true, true).
		BuildService()

	assert.Equal(t, "Store", service.QualifiedName)
	assert.Equal(t, "primaryStore", service.GetName())
	assert.Equal(t, []string{"IStore"}, service.Implements)
	assert.Equal(t, "NewStore", service.GetConstructor())
	assert.True(t, service.ConstructorPointer)
	assert.True(t, service.ConstructorError)
}

func TestPackageMetadata(t *testing.T) {
	pkg := &PackageMetadata{Dir: "app/service"}
	assert.False(t, pkg.HasComponents())
	assert.Equal(t, "app/service.DemoService", pkg.Qualify("DemoService"))

	pkg.AddImport(ImportMetadata{Path: "net/http"})
	pkg.AddImport(ImportMetadata{Path: "net/http"})
	pkg.AddImport(ImportMetadata{Alias: "gouuid", Path: "github.com/google/uuid"})
	assert.Len(t, pkg.Imports, 2)

	pkg.Services = append(pkg.Services, ServiceMetadata{})
	assert.True(t, pkg.HasComponents())
}

func TestDependencyKey(t *testing.T) {
	assert.Equal(t, "app/service.IDemoService", Dependency{TypeName: "app/service.IDemoService"}.Key())
	assert.Equal(t, "demoService", Dependency{TypeName: "app/service.IDemoService", BeanName: "demoService"}.Key())
}

func TestParamAndRouteHelpers(t *testing.T) {
	assert.True(t, ParamMetadata{Source: ParameterSourceHTTPRequest}.IsContext())
	assert.True(t, ParamMetadata{Source: ParameterSourceResponseWriter}.IsContext())
	assert.False(t, ParamMetadata{Source: ParameterSourceRequest}.IsContext())

	assert.True(t, RouteMethodMetadata{ReturnType: ReturnTypeError}.ReturnsError())
	assert.False(t, RouteMethodMetadata{}.ReturnsError())

	assert.Equal(t, "response-writer", ParameterSourceResponseWriter.String())
	assert.Equal(t, "validation", ErrorTypeValidation.String())
}

func TestGeneratorError(t *testing.T) {
	cause := errors.New("bad path")

	tests := []struct {
		name string
		err  *GeneratorError
		want string
	}{
		{"file and line", &GeneratorError{File: "a.go", Line: 3, Message: "invalid route"}, "a.go:3: invalid route"},
		{"file only", &GeneratorError{File: "a.go", Message: "invalid route"}, "a.go: invalid route"},
		{"message only", &GeneratorError{Message: "invalid route"}, "invalid route"},
		{"with cause", &GeneratorError{File: "a.go", Line: 3, Message: "invalid route", Cause: cause}, "a.go:3: invalid route: bad path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	err := &GeneratorError{Message: "wrapped", Cause: cause}
	require.ErrorIs(t, err, cause)

	verr := NewValidationError("c.go", 7, "unknown parameter", "declare the parameter", "fix the marker")
	assert.Equal(t, ErrorTypeValidation, verr.Type)
	assert.Equal(t, "c.go:7: unknown parameter\n  - declare the parameter\n  - fix the marker", verr.Detail())
	assert.Equal(t, "plain", (&GeneratorError{Message: "plain"}).Detail())
}
