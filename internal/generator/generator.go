package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/internal/templates"
	"github.com/toyz/minimvc/internal/utils"
)

// OutputFile is the name of the file generated in every component package
const OutputFile = "autogen_components.go"

// RuntimeImport is the import path of the runtime the generated code targets
const RuntimeImport = "github.com/toyz/minimvc/pkg/mvc"

// GeneratedFile is the rendered components file of one package
type GeneratedFile struct {
	PackageName string
	FilePath    string
	Content     string
	Components  int
	Routes      int
}

// Generator renders component descriptors for parsed packages
type Generator struct {
	templates *templates.TemplateRegistry
}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{templates: templates.NewTemplateRegistry()}
}

// GenerateComponents renders the components file of a package
func (g *Generator) GenerateComponents(metadata *models.PackageMetadata) (*GeneratedFile, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if !metadata.HasComponents() {
		return nil, fmt.Errorf("package %s declares no components", metadata.PackageName)
	}

	im := templates.NewImportManager()
	im.AddImport(RuntimeImport)
	im.AddMetadataImports(metadata.Imports)

	data := templates.BuildComponentsFileData(metadata, im.GenerateImports())
	source, err := templates.RenderComponentsFile(g.templates, data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate components for package %s: %w", metadata.PackageName, err)
	}

	filePath := filepath.Join(metadata.PackagePath, OutputFile)
	content, err := utils.FormatGoCodeString(filePath, source)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "generated code does not compile",
			Cause:   err,
		}
	}

	routes := 0
	for _, controller := range metadata.Controllers {
		routes += len(controller.Routes)
	}

	return &GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     content,
		Components:  len(metadata.Controllers) + len(metadata.Services),
		Routes:      routes,
	}, nil
}

// Write stores a generated file, skipping the write when the content is unchanged.
// It reports whether the file was written.
func (g *Generator) Write(file *GeneratedFile) (bool, error) {
	existing, err := os.ReadFile(file.FilePath)
	if err == nil && string(existing) == file.Content {
		return false, nil
	}
	if err := os.WriteFile(file.FilePath, []byte(file.Content), 0644); err != nil {
		return false, &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    file.FilePath,
			Message: "failed to write generated file",
			Cause:   err,
		}
	}
	return true, nil
}
