package parser

import (
	"go/ast"
	"go/types"
	"regexp"
	"strings"

	"github.com/toyz/minimvc/internal/models"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// packageName guesses the package name of an import path: the last element,
// skipping a /vN major version element and a gopkg.in style .vN suffix
func packageName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if majorVersion.MatchString(name) && len(elems) > 1 {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && majorVersion.MatchString(name[i+1:]) {
		name = name[:i]
	}
	return name
}

func isPredeclared(name string) bool {
	_, ok := types.Universe.Lookup(name).(*types.TypeName)
	return ok
}

// typeKey returns the descriptor type key of a parameter type. Imported
// types use the package name rather than the file's alias, so
// "gouuid.UUID" and "uuid.UUID" share the key "uuid.UUID". Types declared
// in the package itself are qualified.
func (p *Parser) typeKey(expr ast.Expr, src *sourceFile, pkg *models.PackageMetadata) string {
	switch t := expr.(type) {
	case *ast.Ident:
		if isPredeclared(t.Name) {
			return t.Name
		}
		return pkg.Qualify(t.Name)
	case *ast.StarExpr:
		return "*" + p.typeKey(t.X, src, pkg)
	case *ast.ParenExpr:
		return p.typeKey(t.X, src, pkg)
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			if path, ok := src.imports[ident.Name]; ok {
				return packageName(path) + "." + t.Sel.Name
			}
		}
	}
	return types.ExprString(expr)
}

// qualifiedName returns the registry type name an injected field resolves
// to. Pointers resolve to their element type; unnamed types do not resolve.
func (p *Parser) qualifiedName(expr ast.Expr, src *sourceFile, pkg *models.PackageMetadata) (string, bool) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return p.qualifiedName(t.X, src, pkg)
	case *ast.ParenExpr:
		return p.qualifiedName(t.X, src, pkg)
	case *ast.Ident:
		if isPredeclared(t.Name) {
			return "", false
		}
		return pkg.Qualify(t.Name), true
	case *ast.SelectorExpr:
		ident, ok := t.X.(*ast.Ident)
		if !ok {
			return "", false
		}
		path, ok := src.imports[ident.Name]
		if !ok {
			return "", false
		}
		return p.qualifyImport(path, t.Sel.Name), true
	}
	return "", false
}

// qualifyReference qualifies a name written in a marker, such as an
// -Implements entry: "IFoo" is local, "pkg.IFoo" goes through the file's
// imports, anything else is taken as already qualified
func (p *Parser) qualifyReference(ref string, src *sourceFile, pkg *models.PackageMetadata) string {
	i := strings.LastIndex(ref, ".")
	if i < 0 {
		return pkg.Qualify(ref)
	}
	if path, ok := src.imports[ref[:i]]; ok {
		return p.qualifyImport(path, ref[i+1:])
	}
	return ref
}

func (p *Parser) qualifyImport(path, name string) string {
	if p.rootImportPath != "" {
		if path == p.rootImportPath {
			return name
		}
		if rel, ok := strings.CutPrefix(path, p.rootImportPath+"/"); ok {
			return rel + "." + name
		}
	}
	return path + "." + name
}

// addTypeImports records the imports a type expression refers to, so the
// generated file can spell the type the way the source does
func (p *Parser) addTypeImports(expr ast.Expr, src *sourceFile, pkg *models.PackageMetadata) error {
	var err error
	ast.Inspect(expr, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		path, ok := src.imports[ident.Name]
		if !ok {
			return true
		}
		imp := models.ImportMetadata{Path: path}
		if ident.Name != packageName(path) {
			imp.Alias = ident.Name
		}
		for _, existing := range pkg.Imports {
			if existing.Path != path && localName(existing) == ident.Name {
				err = p.reporter.validationError(sel.Pos(),
					suggest("use the same import alias in every file of the package"),
					"%s refers to %s here and to %s elsewhere in the package", ident.Name, path, existing.Path)
				return false
			}
			if existing.Path == path && localName(existing) != ident.Name {
				err = p.reporter.validationError(sel.Pos(),
					suggest("use the same import alias in every file of the package"),
					"%s is imported as both %s and %s", path, localName(existing), ident.Name)
				return false
			}
		}
		pkg.AddImport(imp)
		return false
	})
	return err
}

func localName(imp models.ImportMetadata) string {
	if imp.Alias != "" {
		return imp.Alias
	}
	return packageName(imp.Path)
}
