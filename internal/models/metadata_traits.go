package models

// MetadataTraits contains composable trait structs embedded by the
// component metadata types

// BaseMetadataTrait provides core metadata functionality
type BaseMetadataTrait struct {
	Name          string       // explicit registry key, empty for the default
	StructName    string       // name of the struct
	QualifiedName string       // catalog name of the struct, e.g. "app/controller.DemoController"
	Implements    []string     // qualified interface names the component is also registered under
	Dependencies  []Dependency // fields marked for injection
	File          string       // file declaring the struct
	Line          int          // line of the struct declaration
}

// GetName returns the component name
func (b *BaseMetadataTrait) GetName() string {
	return b.Name
}

// GetStructName returns the struct name
func (b *BaseMetadataTrait) GetStructName() string {
	return b.StructName
}

// GetDependencies returns the dependencies
func (b *BaseMetadataTrait) GetDependencies() []Dependency {
	return b.Dependencies
}

// ConstructorTrait provides custom constructor functionality
type ConstructorTrait struct {
	Constructor        string // custom constructor function name
	ConstructorError   bool   // whether the constructor returns (T, error)
	ConstructorPointer bool   // whether the constructor returns *T rather than T
}

// GetConstructor returns the constructor name
func (c *ConstructorTrait) GetConstructor() string {
	return c.Constructor
}
