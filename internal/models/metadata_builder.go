package models

// MetadataBuilder provides a fluent interface for building component metadata
type MetadataBuilder struct {
	base        *BaseMetadataTrait
	constructor *ConstructorTrait
}

// NewMetadataBuilder creates a new metadata builder for a struct declared in
// pkg. The qualified name is derived from the package's catalog directory.
func NewMetadataBuilder(pkg *PackageMetadata, structName string) *MetadataBuilder {
	return &MetadataBuilder{
		base: &BaseMetadataTrait{
			StructName:    structName,
			QualifiedName: pkg.Qualify(structName),
		},
	}
}

// WithName sets the explicit registry key
func (b *MetadataBuilder) WithName(name string) *MetadataBuilder {
	b.base.Name = name
	return b
}

// WithLocation records where the struct is declared
func (b *MetadataBuilder) WithLocation(file string, line int) *MetadataBuilder {
	b.base.File = file
	b.base.Line = line
	return b
}

// WithDependencies adds dependencies to the metadata
func (b *MetadataBuilder) WithDependencies(deps ...Dependency) *MetadataBuilder {
	b.base.Dependencies = append(b.base.Dependencies, deps...)
	return b
}

// WithImplements adds qualified interface names
func (b *MetadataBuilder) WithImplements(names ...string) *MetadataBuilder {
	b.base.Implements = append(b.base.Implements, names...)
	return b
}

// WithConstructor sets a custom constructor
func (b *MetadataBuilder) WithConstructor(name string, pointer, returnsError bool) *MetadataBuilder {
	b.constructor = &ConstructorTrait{
		Constructor:        name,
		ConstructorPointer: pointer,
		ConstructorError:   returnsError,
	}
	return b
}

// BuildController creates a ControllerMetadata
func (b *MetadataBuilder) BuildController(prefix string, routes []RouteMethodMetadata) *ControllerMetadata {
	return &ControllerMetadata{
		BaseMetadataTrait: *b.base,
		Prefix:            prefix,
		Routes:            routes,
	}
}

// BuildService creates a ServiceMetadata
func (b *MetadataBuilder) BuildService() *ServiceMetadata {
	service := &ServiceMetadata{
		BaseMetadataTrait: *b.base,
	}
	if b.constructor != nil {
		service.ConstructorTrait = *b.constructor
	}
	return service
}
