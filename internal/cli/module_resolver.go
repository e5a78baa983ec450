package cli

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/toyz/minimvc/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser()}
}

// ResolveRootImportPath returns the import path of the root directory.
// If customModule is provided, it uses that; otherwise it reads the
// enclosing go.mod and appends the root's path relative to it.
func (r *ModuleResolver) ResolveRootImportPath(customModule, root string) (string, error) {
	if customModule != "" {
		return strings.TrimSuffix(customModule, "/"), nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root directory: %w", err)
	}

	goModPath, err := r.gomod.FindGoModFile(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using -module flag)", err)
	}

	moduleName, err := r.gomod.ParseModuleName(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w", err)
	}

	return r.BuildPackagePath(moduleName, filepath.Dir(goModPath), absRoot)
}

// BuildPackagePath builds the full import path for a package directory
// inside the module rooted at moduleDir
func (r *ModuleResolver) BuildPackagePath(moduleName, moduleDir, packageDir string) (string, error) {
	relPath, err := filepath.Rel(moduleDir, packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	// Convert file path separators to forward slashes for import paths
	importPath := filepath.ToSlash(relPath)
	if importPath == ".." || strings.HasPrefix(importPath, "../") {
		return "", fmt.Errorf("%s is outside module %s", packageDir, moduleName)
	}

	if importPath == "." {
		return moduleName, nil
	}

	return path.Join(moduleName, importPath), nil
}
