package models

// PackageMetadata represents all components found in a package
type PackageMetadata struct {
	PackageName string               // name of the Go package
	PackagePath string               // file system path to the package
	Dir         string               // catalog directory relative to the scan root, e.g. "app/service"
	ImportPath  string               // module import path of the package
	Imports     []ImportMetadata     // imports referenced by component, field and parameter types
	Controllers []ControllerMetadata // all controllers found in the package
	Services    []ServiceMetadata    // all services found in the package
}

// ImportMetadata represents one import the generated file needs
type ImportMetadata struct {
	Alias string // explicit alias, empty when the package name matches the last path element
	Path  string // import path
}

// HasComponents reports whether the package declares any controller or service
func (p *PackageMetadata) HasComponents() bool {
	return len(p.Controllers) > 0 || len(p.Services) > 0
}

// Qualify returns the qualified type name of a type declared in this package
func (p *PackageMetadata) Qualify(typeName string) string {
	if p.Dir == "" || p.Dir == "." {
		return typeName
	}
	return p.Dir + "." + typeName
}

// AddImport records an import once, keyed by path
func (p *PackageMetadata) AddImport(imp ImportMetadata) {
	for _, existing := range p.Imports {
		if existing.Path == imp.Path {
			return
		}
	}
	p.Imports = append(p.Imports, imp)
}
