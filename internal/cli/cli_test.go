package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/minimvc/internal/generator"
	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/internal/utils"
)

const controllerFile = `package controller

import (
	"fmt"
	"net/http"

	"example.com/demo/app/service"
)

//mvc::controller -Prefix=/demo
type DemoController struct {
	//mvc::inject
	Service service.IDemoService
}

//mvc::route query
//mvc::param name
func (c *DemoController) Query(w http.ResponseWriter, name string) {
	fmt.Fprint(w, c.Service.Greet(name))
}
`

const serviceFile = `package service

//mvc::service -Implements=IDemoService
type DemoService struct{}

func (s *DemoService) Greet(name string) string { return "Hello, " + name }

type IDemoService interface{ Greet(string) string }
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// setupProject lays out a module with the demo packages and returns its root
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/demo\n\ngo 1.25\n")
	writeFile(t, filepath.Join(root, "app", "controller", "demo.go"), controllerFile)
	writeFile(t, filepath.Join(root, "app", "service", "demo.go"), serviceFile)
	writeFile(t, filepath.Join(root, "app", "model", "model.go"), "package model\n\ntype User struct{}\n")
	return root
}

func newTestGenerator() (*Generator, *bytes.Buffer) {
	var out bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticVerbose)
	diagnostics.SetOutput(&out, &out)
	diagnostics.SetColors(false)
	return NewGenerator(diagnostics), &out
}

func TestGenerator_Run(t *testing.T) {
	root := setupProject(t)
	g, out := newTestGenerator()

	require.NoError(t, g.Run(Config{Root: root, ScanPackage: "app"}))

	summary := g.GetSummary()
	assert.Equal(t, 3, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.ControllersFound)
	assert.Equal(t, 1, summary.ServicesFound)
	assert.Equal(t, 1, summary.RoutesFound)
	assert.Equal(t, 2, summary.FilesGenerated)
	assert.Equal(t, []string{
		filepath.Join(root, "app", "controller", generator.OutputFile),
		filepath.Join(root, "app", "service", generator.OutputFile),
	}, summary.GeneratedFiles)

	content, err := os.ReadFile(filepath.Join(root, "app", "controller", generator.OutputFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), `TypeName: "app/controller.DemoController",`)
	assert.Contains(t, string(content), `TypeName: "app/service.IDemoService",`)

	assert.NoFileExists(t, filepath.Join(root, "app", "model", generator.OutputFile))
	assert.Contains(t, out.String(), "MVC: Generating component descriptors")
	assert.Contains(t, out.String(), "✓ controller app/controller.DemoController (1 routes)")
	assert.Contains(t, out.String(), "MVC: Generation complete!")

	// A second run finds everything up to date.
	require.NoError(t, g.Run(Config{Root: root, ScanPackage: "app"}))
	assert.Zero(t, g.GetSummary().FilesGenerated)
	assert.Len(t, g.GetSummary().GeneratedFiles, 2)
}

func TestGenerator_RemovesStaleOutput(t *testing.T) {
	root := setupProject(t)
	stale := filepath.Join(root, "app", "model", generator.OutputFile)
	writeFile(t, stale, "// Code generated by mvcgen. DO NOT EDIT.\n\npackage model\n")

	g, _ := newTestGenerator()
	require.NoError(t, g.Run(Config{Root: root, ScanPackage: "app"}))

	assert.NoFileExists(t, stale)
	assert.Equal(t, []string{stale}, g.GetSummary().RemovedFiles)
}

func TestGenerator_Clean(t *testing.T) {
	root := setupProject(t)
	g, _ := newTestGenerator()
	require.NoError(t, g.Run(Config{Root: root, ScanPackage: "app"}))

	require.NoError(t, g.Run(Config{Root: root, ScanPackage: "app", Clean: true}))
	assert.Len(t, g.GetSummary().RemovedFiles, 2)
	assert.NoFileExists(t, filepath.Join(root, "app", "controller", generator.OutputFile))
	assert.NoFileExists(t, filepath.Join(root, "app", "service", generator.OutputFile))
	assert.FileExists(t, filepath.Join(root, "app", "controller", "demo.go"))
}

func TestGenerator_Errors(t *testing.T) {
	t.Run("invalid annotation", func(t *testing.T) {
		root := setupProject(t)
		writeFile(t, filepath.Join(root, "app", "bad", "bad.go"), "package bad\n\n//mvc::controller -Bogus=1\ntype Bad struct{}\n")

		g, _ := newTestGenerator()
		err := g.Run(Config{Root: root, ScanPackage: "app"})

		var genErr *models.GeneratorError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, models.ErrorTypeAnnotationSyntax, genErr.Type)
		assert.Equal(t, 3, genErr.Line)
	})

	t.Run("missing scan package", func(t *testing.T) {
		root := setupProject(t)
		g, _ := newTestGenerator()
		err := g.Run(Config{Root: root, ScanPackage: "nope"})

		var genErr *models.GeneratorError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, models.ErrorTypeFileSystem, genErr.Type)
	})

	t.Run("root outside module", func(t *testing.T) {
		root := t.TempDir()
		resolver := &ModuleResolver{gomod: utils.NewGoModParser()}
		_, err := resolver.BuildPackagePath("example.com/demo", filepath.Join(root, "module"), root)
		assert.ErrorContains(t, err, "outside module")
	})
}

func TestModuleResolver(t *testing.T) {
	root := setupProject(t)
	resolver := NewModuleResolver()

	tests := []struct {
		name     string
		custom   string
		root     string
		expected string
	}{
		{name: "module root", root: root, expected: "example.com/demo"},
		{name: "nested root", root: filepath.Join(root, "app"), expected: "example.com/demo/app"},
		{name: "custom module", custom: "example.com/other/", root: root, expected: "example.com/other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			importPath, err := resolver.ResolveRootImportPath(tt.custom, tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, importPath)
		})
	}
}

func TestPackageScanner(t *testing.T) {
	root := setupProject(t)
	scanner := NewPackageScanner()

	dirs, err := scanner.ScanPackages(root, "app")
	require.NoError(t, err)
	assert.Equal(t, []string{"app/controller", "app/model", "app/service"}, dirs)

	dirs, err = scanner.ScanPackages(root, "app.service")
	require.NoError(t, err)
	assert.Equal(t, []string{"app/service"}, dirs)

	_, err = scanner.ScanPackages(filepath.Join(root, "go.mod"), "app")
	assert.ErrorContains(t, err, "is not a directory")

	_, err = scanner.ScanPackages(root, "missing")
	assert.ErrorContains(t, err, "failed to scan missing")
}

func TestDiagnosticReporter(t *testing.T) {
	t.Run("generator error", func(t *testing.T) {
		var out bytes.Buffer
		reporter := NewDiagnosticReporter(true)
		reporter.SetOutput(&out)

		reporter.ReportError(&models.GeneratorError{
			Type:        models.ErrorTypeValidation,
			File:        "app/bad.go",
			Line:        7,
			Message:     "route method helper is not exported",
			Suggestions: []string{"export the method"},
			Cause:       os.ErrInvalid,
		})

		report := out.String()
		assert.Contains(t, report, "ERROR: Code Generation Failed")
		assert.Contains(t, report, "Type: Validation Error")
		assert.Contains(t, report, "Message: route method helper is not exported")
		assert.Contains(t, report, "Location: app/bad.go:7")
		assert.Contains(t, report, "   1. export the method")
		assert.Contains(t, report, "Component Rules:")
		assert.Contains(t, report, "Error Chain:")
	})

	t.Run("plain error", func(t *testing.T) {
		var out bytes.Buffer
		reporter := NewDiagnosticReporter(false)
		reporter.SetOutput(&out)

		reporter.ReportError(os.ErrPermission)
		assert.Contains(t, out.String(), "Message: permission denied")
		assert.NotContains(t, out.String(), "Type:")
	})
}
