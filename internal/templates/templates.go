package templates

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/minimvc/internal/models"
)

// ComponentsFileData is the data the components file template renders
type ComponentsFileData struct {
	PackageName string
	Imports     string
	Components  []ComponentData
}

// ComponentData describes one component descriptor literal
type ComponentData struct {
	TypeName   string
	Kind       string
	Name       string
	Prefix     string
	Implements []string
	NewBody    []string
	Inject     []InjectData
	Methods    []MethodData
}

// InjectData describes one injection point literal
type InjectData struct {
	StructName string
	Field      string
	Type       string
	TypeName   string
	Name       string
}

// MethodData describes one method descriptor literal
type MethodData struct {
	StructName   string
	Name         string
	Path         string
	Params       []ParamData
	ReturnsError bool
	ArgList      string
}

// ParamData describes one parameter descriptor literal
type ParamData struct {
	Name     string
	Type     string
	TypeExpr string
	Binding  string
}

// BuildComponentsFileData converts package metadata into template data.
// imports is the rendered import block.
func BuildComponentsFileData(metadata *models.PackageMetadata, imports string) ComponentsFileData {
	data := ComponentsFileData{
		PackageName: metadata.PackageName,
		Imports:     imports,
	}
	for _, service := range metadata.Services {
		component := baseData(&service, service.QualifiedName, "mvc.KindService")
		component.Implements = service.Implements
		component.NewBody = constructorBody(service.StructName, service.ConstructorTrait)
		data.Components = append(data.Components, component)
	}
	for _, controller := range metadata.Controllers {
		component := baseData(&controller, controller.QualifiedName, "mvc.KindController")
		component.Prefix = controller.Prefix
		component.NewBody = constructorBody(controller.StructName, models.ConstructorTrait{})
		for _, route := range controller.Routes {
			component.Methods = append(component.Methods, methodData(controller.StructName, route))
		}
		data.Components = append(data.Components, component)
	}
	return data
}

// baseData fills what controllers and services share
func baseData(m models.Metadata, typeName, kind string) ComponentData {
	return ComponentData{
		TypeName: typeName,
		Kind:     kind,
		Name:     m.GetName(),
		Inject:   injectData(m.GetStructName(), m.GetDependencies()),
	}
}

// constructorBody returns the statements of a descriptor's New func. The
// instance is always a pointer so injection can assign its fields.
func constructorBody(structName string, ctor models.ConstructorTrait) []string {
	name := ctor.GetConstructor()
	switch {
	case name == "":
		return []string{"return &" + structName + "{}, nil"}
	case ctor.ConstructorPointer && ctor.ConstructorError:
		return []string{"return " + name + "()"}
	case ctor.ConstructorPointer:
		return []string{"return " + name + "(), nil"}
	case ctor.ConstructorError:
		return []string{
			"v, err := " + name + "()",
			"if err != nil {",
			"\treturn nil, err",
			"}",
			"return &v, nil",
		}
	default:
		return []string{
			"v := " + name + "()",
			"return &v, nil",
		}
	}
}

func injectData(structName string, deps []models.Dependency) []InjectData {
	var out []InjectData
	for _, dep := range deps {
		out = append(out, InjectData{
			StructName: structName,
			Field:      dep.Name,
			Type:       dep.Type,
			TypeName:   dep.TypeName,
			Name:       dep.BeanName,
		})
	}
	return out
}

func methodData(structName string, route models.RouteMethodMetadata) MethodData {
	method := MethodData{
		StructName:   structName,
		Name:         route.MethodName,
		Path:         route.Path,
		ReturnsError: route.ReturnsError(),
	}
	args := make([]string, 0, len(route.Parameters))
	for i, param := range route.Parameters {
		method.Params = append(method.Params, ParamData{
			Name:     param.Name,
			Type:     param.TypeKey,
			TypeExpr: param.TypeExpr,
			Binding:  param.Binding,
		})
		args = append(args, fmt.Sprintf("a%d", i))
	}
	method.ArgList = strings.Join(args, ", ")
	return method
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return strings.Join(quoted, ", ")
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data any) (string, error) {
	funcMap := template.FuncMap{
		"quote":     strconv.Quote,
		"quoteList": quoteList,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// ExecuteTemplate executes a Go template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data any) (string, error) {
	return executeTemplate(name, templateStr, data)
}

// RenderComponentsFile renders the unformatted components file of a package
func RenderComponentsFile(registry *TemplateRegistry, data ComponentsFileData) (string, error) {
	return executeTemplate(ComponentsFileTemplate, registry.MustGet(ComponentsFileTemplate), data)
}
