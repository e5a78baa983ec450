package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toyz/minimvc/internal/generator"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *PackageScanner
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		scanner: NewPackageScanner(),
	}
}

// CleanGeneratedFiles removes every generated components file below the
// scan package and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(root, scanPackage string) ([]string, error) {
	dirs, err := c.scanner.ScanPackages(root, scanPackage)
	if err != nil {
		return nil, err
	}

	var removedFiles []string
	for _, dir := range dirs {
		removed, err := c.cleanDirectory(filepath.Join(root, filepath.FromSlash(dir)))
		if err != nil {
			return removedFiles, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
		if removed != "" {
			removedFiles = append(removedFiles, removed)
		}
	}

	return removedFiles, nil
}

// cleanDirectory removes the generated file of one directory, if any
func (c *Cleaner) cleanDirectory(dir string) (string, error) {
	autogenFile := filepath.Join(dir, generator.OutputFile)

	err := os.Remove(autogenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to remove file %s: %w", autogenFile, err)
	}

	return autogenFile, nil
}
