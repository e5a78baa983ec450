package models

// Metadata is the base interface for all component metadata types
type Metadata interface {
	GetName() string
	GetStructName() string
	GetDependencies() []Dependency
}

var (
	_ Metadata = (*ControllerMetadata)(nil)
	_ Metadata = (*ServiceMetadata)(nil)
)
