// Package catalog enumerates the type declarations found under a package root.
//
// A Catalog walks an fs.FS (the source tree on disk, or an embed.FS baked into
// the binary) and yields the qualified name of every type declared in a
// non-test Go file. It never loads, type-checks or instantiates anything: the
// names are handed to the component registry, which decides what they mean.
package catalog

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"iter"
	"os"
	"path"
	"strings"
)

// ErrScan is matched by every *ScanError
var ErrScan = errors.New("catalog: scan failed")

var (
	errNotDir  = errors.New("not a directory")
	errStopped = errors.New("catalog: iteration stopped")
)

// ScanError reports a package root that cannot be walked or a file that
// cannot be read
type ScanError struct {
	Package string // scan package as configured
	Path    string // slash-separated path inside the fs
	Cause   error
}

func (e *ScanError) Error() string {
	if e.Path != "" && e.Path != Dir(e.Package) {
		return fmt.Sprintf("scan %q: %s: %v", e.Package, e.Path, e.Cause)
	}
	return fmt.Sprintf("scan %q: %v", e.Package, e.Cause)
}

// Is lets errors.Is(err, ErrScan) match
func (e *ScanError) Is(target error) bool { return target == ErrScan }

func (e *ScanError) Unwrap() error { return e.Cause }

// Catalog enumerates type names inside a file system
type Catalog struct {
	fsys fs.FS
}

// New creates a catalog over fsys
func New(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

// NewDir creates a catalog over a directory on disk
func NewDir(dir string) *Catalog {
	return New(os.DirFS(dir))
}

// Dir converts a scan package into a slash-separated directory inside the
// catalog's file system. Dot-delimited roots ("app.controller") become paths
// ("app/controller"); roots that already contain a slash are kept as-is
func Dir(scanPackage string) string {
	p := strings.TrimSpace(scanPackage)
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return "."
	}
	if !strings.Contains(p, "/") {
		p = strings.ReplaceAll(p, ".", "/")
	}
	return path.Clean(p)
}

// Qualify builds the qualified type name for a type declared in dir
func Qualify(dir, typeName string) string {
	if dir == "" || dir == "." {
		return typeName
	}
	return dir + "." + typeName
}

// Split is the inverse of Qualify
func Split(qualified string) (dir, typeName string) {
	i := strings.LastIndex(qualified, ".")
	if i < 0 || strings.Contains(qualified[i+1:], "/") {
		return ".", qualified
	}
	return qualified[:i], qualified[i+1:]
}

// Within reports whether the qualified type name lives under the scan package
func Within(qualified, scanPackage string) bool {
	root := Dir(scanPackage)
	if root == "." {
		return true
	}
	dir, _ := Split(qualified)
	return dir == root || strings.HasPrefix(dir, root+"/")
}

// Types returns a lazy sequence of the qualified type names declared under
// scanPackage. Every range over the sequence walks the tree again. If the
// root cannot be resolved to a directory the sequence yields one *ScanError
// and ends
func (c *Catalog) Types(scanPackage string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		fset := token.NewFileSet()
		err := c.walk(scanPackage, func(file string) error {
			names, err := c.declaredTypes(fset, file)
			if err != nil {
				return &ScanError{Package: scanPackage, Path: file, Cause: err}
			}
			dir := path.Dir(file)
			for _, name := range names {
				if !yield(Qualify(dir, name), nil) {
					return errStopped
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield("", err)
		}
	}
}

// Packages returns a lazy sequence of the directories under scanPackage that
// hold at least one non-test Go file
func (c *Catalog) Packages(scanPackage string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		seen := make(map[string]bool)
		err := c.walk(scanPackage, func(file string) error {
			dir := path.Dir(file)
			if seen[dir] {
				return nil
			}
			seen[dir] = true
			if !yield(dir, nil) {
				return errStopped
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield("", err)
		}
	}
}

// Collect drains a sequence, stopping at the first error
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for name, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, name)
	}
	return out, nil
}

// walk visits every Go source file under the scan package in lexical order
func (c *Catalog) walk(scanPackage string, visit func(file string) error) error {
	root := Dir(scanPackage)
	info, err := fs.Stat(c.fsys, root)
	if err != nil {
		return &ScanError{Package: scanPackage, Path: root, Cause: err}
	}
	if !info.IsDir() {
		return &ScanError{Package: scanPackage, Path: root, Cause: errNotDir}
	}

	return fs.WalkDir(c.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ScanError{Package: scanPackage, Path: p, Cause: err}
		}
		if d.IsDir() {
			if p != root && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !isSource(d.Name()) {
			return nil
		}
		return visit(p)
	})
}

func (c *Catalog) declaredTypes(fset *token.FileSet, file string) ([]string, error) {
	src, err := fs.ReadFile(c.fsys, file)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.ParseFile(fset, file, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, decl := range parsed.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok {
				names = append(names, ts.Name.Name)
			}
		}
	}
	return names, nil
}

func isSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

// skipDir mirrors the go tool: testdata, vendor, and dot/underscore dirs are not packages
func skipDir(name string) bool {
	switch name {
	case "testdata", "vendor", "node_modules":
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
