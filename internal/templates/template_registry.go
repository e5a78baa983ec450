package templates

// Template names
const (
	ComponentsFileTemplate = "components-file"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerComponentTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerComponentTemplates registers the descriptor file template
func (tr *TemplateRegistry) registerComponentTemplates() {
	tr.templates[ComponentsFileTemplate] = `// Code generated by mvcgen. DO NOT EDIT.

package {{.PackageName}}

{{.Imports}}
// Components returns the component descriptors declared in package {{.PackageName}}.
func Components() []mvc.ComponentDescriptor {
	return []mvc.ComponentDescriptor{
{{- range .Components}}
		{
			TypeName: {{quote .TypeName}},
			Kind:     {{.Kind}},
{{- if .Name}}
			Name:     {{quote .Name}},
{{- end}}
{{- if .Prefix}}
			Prefix:   {{quote .Prefix}},
{{- end}}
{{- if .Implements}}
			Implements: []string{ {{- quoteList .Implements -}} },
{{- end}}
			New: func() (any, error) {
{{- range .NewBody}}
				{{.}}
{{- end}}
			},
{{- if .Inject}}
			Inject: []mvc.InjectionPoint{
{{- range .Inject}}
				{
					Field:    {{quote .Field}},
					TypeName: {{quote .TypeName}},
{{- if .Name}}
					Name:     {{quote .Name}},
{{- end}}
					Assign: mvc.Setter(func(c *{{.StructName}}, v {{.Type}}) {
						c.{{.Field}} = v
					}),
				},
{{- end}}
			},
{{- end}}
{{- if .Methods}}
			Methods: []mvc.MethodDescriptor{
{{- range .Methods}}
				{
					Name: {{quote .Name}},
					Path: {{quote .Path}},
{{- if .Params}}
					Params: []mvc.ParamDescriptor{
{{- range .Params}}
						{Name: {{quote .Name}}, Type: {{quote .Type}}{{if .Binding}}, Binding: {{quote .Binding}}{{end}}},
{{- end}}
					},
{{- end}}
					Invoke: func(owner any, args mvc.Args) error {
{{- range $i, $p := .Params}}
						a{{$i}}, err := mvc.ArgAs[{{$p.TypeExpr}}](args, {{$i}})
						if err != nil {
							return err
						}
{{- end}}
{{- if .ReturnsError}}
						return owner.(*{{.StructName}}).{{.Name}}({{.ArgList}})
{{- else}}
						owner.(*{{.StructName}}).{{.Name}}({{.ArgList}})
						return nil
{{- end}}
					},
				},
{{- end}}
			},
{{- end}}
		},
{{- end}}
	}
}
`
}
