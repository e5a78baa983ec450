package cli

import (
	"fmt"
	"os"

	"github.com/toyz/minimvc/pkg/mvc/catalog"
)

// PackageScanner finds the Go packages below a scan package. It walks the
// source tree the same way the runtime catalog does, so generated
// descriptors cover exactly the types the application will scan.
type PackageScanner struct{}

// NewPackageScanner creates a new package scanner
func NewPackageScanner() *PackageScanner {
	return &PackageScanner{}
}

// ScanPackages returns the slash-separated directories, relative to root,
// that hold at least one non-test Go file
func (s *PackageScanner) ScanPackages(root, scanPackage string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	dirs, err := catalog.Collect(catalog.NewDir(root).Packages(scanPackage))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", scanPackage, err)
	}
	return dirs, nil
}
