package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/minimvc/internal/generator"
	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/internal/parser"
	"github.com/toyz/minimvc/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *PackageScanner
	moduleResolver *ModuleResolver
	cleaner        *Cleaner
	codeGenerator  *generator.Generator
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		scanner:        NewPackageScanner(),
		moduleResolver: NewModuleResolver(),
		cleaner:        NewCleaner(),
		codeGenerator:  generator.NewGenerator(),
		diagnostics:    diagnostics,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	root := config.Root
	if root == "" {
		root = "."
	}

	if config.Clean {
		return g.clean(root, config.ScanPackage)
	}

	g.diagnostics.Header("Generating component descriptors")
	g.diagnostics.SourcePath(filepath.Join(root, filepath.FromSlash(config.ScanPackage)))

	rootImport, err := g.moduleResolver.ResolveRootImportPath(config.ModuleName, root)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    root,
			Message: "failed to resolve module name",
			Cause:   err,
			Suggestions: []string{
				"Check your go.mod file exists and is valid",
				"Try specifying -module with the import path of the root directory",
			},
		}
	}
	g.diagnostics.Debug("Root import path: %s", rootImport)

	dirs, err := g.scanner.ScanPackages(root, config.ScanPackage)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    root,
			Message: fmt.Sprintf("failed to scan package %q", config.ScanPackage),
			Cause:   err,
			Suggestions: []string{
				"Check -scan names a directory below -root",
			},
		}
	}

	g.diagnostics.PhaseHeader("Parsing")
	src := parser.NewParser(rootImport)
	var parsed []*models.PackageMetadata
	for _, dir := range dirs {
		metadata, err := src.ParseDirectory(filepath.Join(root, filepath.FromSlash(dir)), dir)
		if err != nil {
			return err
		}
		g.summary.PackagesProcessed++
		parsed = append(parsed, metadata)
		if !metadata.HasComponents() {
			g.diagnostics.Verbose("%s declares no components", dir)
			continue
		}
		g.recordComponents(metadata)
	}

	g.diagnostics.PhaseHeader("Generating")
	for _, metadata := range parsed {
		if err := g.generatePackage(metadata); err != nil {
			return err
		}
	}

	g.diagnostics.Summary("Summary", map[string]any{
		"packages":    g.summary.PackagesProcessed,
		"controllers": g.summary.ControllersFound,
		"services":    g.summary.ServicesFound,
		"routes":      g.summary.RoutesFound,
		"written":     g.summary.FilesGenerated,
	})
	g.diagnostics.Verbose("Finished in %s", time.Since(startTime).Round(time.Millisecond))
	g.diagnostics.GenerationComplete()
	return nil
}

func (g *Generator) recordComponents(metadata *models.PackageMetadata) {
	g.summary.ControllersFound += len(metadata.Controllers)
	g.summary.ServicesFound += len(metadata.Services)
	for _, controller := range metadata.Controllers {
		g.summary.RoutesFound += len(controller.Routes)
		g.diagnostics.PhaseItem(fmt.Sprintf("controller %s (%d routes)", controller.QualifiedName, len(controller.Routes)))
	}
	for _, service := range metadata.Services {
		g.diagnostics.PhaseItem("service " + service.QualifiedName)
	}
}

// generatePackage writes the components file of one package, or removes a
// stale one left behind by components that no longer exist
func (g *Generator) generatePackage(metadata *models.PackageMetadata) error {
	if !metadata.HasComponents() {
		stale := filepath.Join(metadata.PackagePath, generator.OutputFile)
		err := os.Remove(stale)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				File:    stale,
				Message: "failed to remove stale generated file",
				Cause:   err,
			}
		}
		g.summary.RemovedFiles = append(g.summary.RemovedFiles, stale)
		g.diagnostics.PhaseProgress("Removing " + stale)
		return nil
	}

	file, err := g.codeGenerator.GenerateComponents(metadata)
	if err != nil {
		return err
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)

	written, err := g.codeGenerator.Write(file)
	if err != nil {
		return err
	}
	if written {
		g.summary.FilesGenerated++
		g.diagnostics.PhaseProgress("Writing " + file.FilePath)
	} else {
		g.diagnostics.PhaseProgress(file.FilePath + " is up to date")
	}
	return nil
}

func (g *Generator) clean(root, scanPackage string) error {
	g.diagnostics.Header("Cleaning generated files")
	removed, err := g.cleaner.CleanGeneratedFiles(root, scanPackage)
	g.summary.RemovedFiles = removed
	for _, file := range removed {
		g.diagnostics.PhaseProgress("Removing " + file)
	}
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    root,
			Message: "failed to clean generated files",
			Cause:   err,
		}
	}
	g.diagnostics.Success("Removed %d generated files", len(removed))
	return nil
}
