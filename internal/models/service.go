package models

// Dependency represents an injection point with both field name and type
type Dependency struct {
	Name     string // field name in the struct
	Type     string // Go type expression of the field as written in the generated file
	TypeName string // qualified type name used as registry key, e.g. "app/service.IDemoService"
	BeanName string // explicit registry key from -Name, empty to resolve by type
	Line     int    // line of the field declaration
}

// Key returns the registry key the dependency resolves to
func (d Dependency) Key() string {
	if d.BeanName != "" {
		return d.BeanName
	}
	return d.TypeName
}

// ServiceMetadata represents an injectable service using composition
type ServiceMetadata struct {
	BaseMetadataTrait
	ConstructorTrait
}
