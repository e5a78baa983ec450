package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/minimvc/internal/models"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	standardImports map[string]bool
	packageImports  map[string]string // path -> alias, empty alias for none
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		standardImports: make(map[string]bool),
		packageImports:  make(map[string]string),
	}
}

// AddImport adds an import without alias
func (im *ImportManager) AddImport(importPath string) {
	im.AddPackageImport("", importPath)
}

// AddPackageImport adds an import with an optional alias
func (im *ImportManager) AddPackageImport(alias, path string) {
	if path == "" {
		return
	}
	if isStandardLibrary(path) && alias == "" {
		im.standardImports[path] = true
		return
	}
	im.packageImports[path] = alias
}

// AddMetadataImports adds every import recorded in package metadata
func (im *ImportManager) AddMetadataImports(imports []models.ImportMetadata) {
	for _, imp := range imports {
		im.AddPackageImport(imp.Alias, imp.Path)
	}
}

// GenerateImports generates the import section, standard library first
func (im *ImportManager) GenerateImports() string {
	var std []string
	for path := range im.standardImports {
		std = append(std, fmt.Sprintf("%q", path))
	}
	sort.Strings(std)

	paths := make([]string, 0, len(im.packageImports))
	for path := range im.packageImports {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	var pkgs []string
	for _, path := range paths {
		if alias := im.packageImports[path]; alias != "" {
			pkgs = append(pkgs, fmt.Sprintf("%s %q", alias, path))
		} else {
			pkgs = append(pkgs, fmt.Sprintf("%q", path))
		}
	}

	if len(std)+len(pkgs) == 0 {
		return ""
	}
	if len(std)+len(pkgs) == 1 {
		return "import " + append(std, pkgs...)[0] + "\n"
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString("\t" + imp + "\n")
	}
	if len(std) > 0 && len(pkgs) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range pkgs {
		result.WriteString("\t" + imp + "\n")
	}
	result.WriteString(")\n")
	return result.String()
}

// isStandardLibrary reports whether an import path belongs to the
// standard library, whose first element never contains a dot
func isStandardLibrary(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
