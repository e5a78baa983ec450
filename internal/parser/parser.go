package parser

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/minimvc/internal/annotations"
	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/pkg/mvc"
	"github.com/toyz/minimvc/pkg/mvc/catalog"
)

// Parser scans Go packages for //mvc:: markers and builds the metadata the
// generator turns into component descriptors
type Parser struct {
	fileSet        *token.FileSet
	annotations    *annotations.Parser
	reporter       *errorReporter
	rootImportPath string
}

// NewParser creates a parser. rootImportPath is the import path of the
// directory qualified type names are relative to; types imported from below
// it are named "<dir>.<Type>", everything else keeps its full import path.
func NewParser(rootImportPath string) *Parser {
	fset := token.NewFileSet()
	return &Parser{
		fileSet:        fset,
		annotations:    annotations.NewParser(annotations.DefaultRegistry()),
		reporter:       &errorReporter{fileSet: fset},
		rootImportPath: strings.TrimSuffix(rootImportPath, "/"),
	}
}

// sourceFile is one parsed file together with its import table
type sourceFile struct {
	name    string
	file    *ast.File
	imports map[string]string // local package name -> import path
}

// component collects everything known about one marked struct while the
// package is being scanned
type component struct {
	kind        annotations.AnnotationType
	structName  string
	builder     *models.MetadataBuilder
	src         *sourceFile
	pos         token.Pos
	prefix      string
	constructor string
	routes      []models.RouteMethodMetadata
}

// ParseDirectory parses the non-test Go files of the package at path. dir
// is the package's catalog directory relative to the scan root.
func (p *Parser) ParseDirectory(path, dir string) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, p.reporter.fileError(path, err)
	}

	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		fileName := filepath.Join(path, name)
		file, err := parser.ParseFile(p.fileSet, fileName, nil, parser.ParseComments)
		if err != nil {
			return nil, p.reporter.fileError(fileName, err)
		}
		files = append(files, file)
	}
	return p.parseFiles(path, dir, files)
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(dir, filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, p.reporter.fileError(filename, err)
	}
	return p.parseFiles(filepath.Dir(filename), dir, []*ast.File{file})
}

func (p *Parser) parseFiles(path, dir string, files []*ast.File) (*models.PackageMetadata, error) {
	dir = catalog.Dir(dir)
	metadata := &models.PackageMetadata{
		PackagePath: path,
		Dir:         dir,
		ImportPath:  p.importPathOf(dir),
	}

	sort.Slice(files, func(i, j int) bool {
		return p.fileSet.Position(files[i].Pos()).Filename < p.fileSet.Position(files[j].Pos()).Filename
	})

	var sources []*sourceFile
	for _, file := range files {
		// Generated files, including our own output, carry no markers.
		if ast.IsGenerated(file) {
			continue
		}
		if metadata.PackageName == "" {
			metadata.PackageName = file.Name.Name
		} else if file.Name.Name != metadata.PackageName {
			return nil, p.reporter.validationError(file.Name.Pos(),
				suggest("keep one package per directory"),
				"package %s conflicts with package %s in the same directory", file.Name.Name, metadata.PackageName)
		}
		sources = append(sources, newSourceFile(p.fileSet, file))
	}

	// First pass: marked structs and their injection points
	var order []*component
	byName := make(map[string]*component)
	for _, src := range sources {
		found, err := p.collectComponents(src, metadata)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			byName[c.structName] = c
			order = append(order, c)
		}
	}

	// Second pass: route methods and constructors
	for _, src := range sources {
		if err := p.collectRoutes(src, metadata, byName); err != nil {
			return nil, err
		}
	}
	for _, c := range order {
		if c.constructor == "" {
			continue
		}
		if err := p.resolveConstructor(c, sources); err != nil {
			return nil, err
		}
	}

	for _, c := range order {
		switch c.kind {
		case annotations.ControllerAnnotation:
			controller := c.builder.BuildController(c.prefix, c.routes)
			if err := p.checkPlaceholders(controller); err != nil {
				return nil, err
			}
			metadata.Controllers = append(metadata.Controllers, *controller)
		case annotations.ServiceAnnotation:
			metadata.Services = append(metadata.Services, *c.builder.BuildService())
		}
	}
	return metadata, nil
}

func newSourceFile(fset *token.FileSet, file *ast.File) *sourceFile {
	src := &sourceFile{
		name:    fset.Position(file.Pos()).Filename,
		file:    file,
		imports: make(map[string]string),
	}
	for _, spec := range file.Imports {
		path := strings.Trim(spec.Path.Value, `"`)
		local := packageName(path)
		if spec.Name != nil {
			local = spec.Name.Name
		}
		if local == "_" || local == "." {
			continue
		}
		src.imports[local] = path
	}
	return src
}

// markers parses every //mvc:: line of the given comment groups
func (p *Parser) markers(groups ...*ast.CommentGroup) ([]*annotations.ParsedAnnotation, error) {
	var out []*annotations.ParsedAnnotation
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			if !annotations.IsAnnotation(c.Text) {
				continue
			}
			at := p.fileSet.Position(c.Slash)
			parsed, err := p.annotations.Parse(c.Text, annotations.SourceLocation{
				File:   at.Filename,
				Line:   at.Line,
				Column: at.Column,
			})
			if err != nil {
				return nil, p.reporter.annotationError(c.Slash, err)
			}
			out = append(out, parsed)
		}
	}
	return out, nil
}

func (p *Parser) collectComponents(src *sourceFile, metadata *models.PackageMetadata) ([]*component, error) {
	var found []*component
	for _, decl := range src.file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			typeSpec := spec.(*ast.TypeSpec)
			doc := typeSpec.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}
			marks, err := p.markers(doc)
			if err != nil {
				return nil, err
			}
			if len(marks) == 0 {
				continue
			}
			c, err := p.newComponent(src, metadata, typeSpec, marks)
			if err != nil {
				return nil, err
			}
			found = append(found, c)
		}
	}
	return found, nil
}

func (p *Parser) newComponent(src *sourceFile, metadata *models.PackageMetadata, typeSpec *ast.TypeSpec, marks []*annotations.ParsedAnnotation) (*component, error) {
	name := typeSpec.Name.Name
	c := &component{structName: name, src: src, pos: typeSpec.Pos()}

	var kindMark, routeMark *annotations.ParsedAnnotation
	for _, mark := range marks {
		switch mark.Type {
		case annotations.ControllerAnnotation, annotations.ServiceAnnotation:
			if kindMark != nil {
				return nil, p.reporter.validationError(typeSpec.Pos(),
					suggest("a type is either a controller or a service, once"),
					"%s carries both //mvc::%s and //mvc::%s", name, kindMark.Type, mark.Type)
			}
			kindMark = mark
		case annotations.RouteAnnotation:
			if routeMark != nil {
				return nil, p.reporter.validationError(typeSpec.Pos(), nil, "%s carries more than one //mvc::route", name)
			}
			routeMark = mark
		default:
			return nil, p.reporter.validationError(typeSpec.Pos(),
				suggest("//mvc::inject belongs on a struct field", "//mvc::param belongs on a route method"),
				"//mvc::%s is not valid on type %s", mark.Type, name)
		}
	}
	if kindMark == nil {
		return nil, p.reporter.validationError(typeSpec.Pos(),
			suggest("add //mvc::controller to use //mvc::route as the type-level prefix"),
			"//mvc::route on type %s which is not a controller", name)
	}

	structType, ok := typeSpec.Type.(*ast.StructType)
	if !ok {
		return nil, p.reporter.validationError(typeSpec.Pos(), nil, "//mvc::%s on %s, which is not a struct", kindMark.Type, name)
	}
	if typeSpec.TypeParams != nil {
		return nil, p.reporter.validationError(typeSpec.Pos(), nil, "generic type %s cannot be a component", name)
	}

	c.kind = kindMark.Type
	c.builder = models.NewMetadataBuilder(metadata, name).
		WithName(kindMark.GetString("Name")).
		WithLocation(src.name, p.fileSet.Position(typeSpec.Pos()).Line)

	switch c.kind {
	case annotations.ControllerAnnotation:
		c.prefix = kindMark.GetString("Prefix")
		if routeMark != nil {
			if kindMark.HasParameter("Prefix") {
				return nil, p.reporter.validationError(typeSpec.Pos(),
					suggest("keep either -Prefix or the type-level //mvc::route"),
					"controller %s declares its prefix twice", name)
			}
			c.prefix = routeMark.Arg(0)
		}
	case annotations.ServiceAnnotation:
		if routeMark != nil {
			return nil, p.reporter.validationError(typeSpec.Pos(), nil, "//mvc::route on service %s", name)
		}
		c.constructor = kindMark.GetString("Constructor")
		for _, iface := range kindMark.GetStringSlice("Implements") {
			c.builder.WithImplements(p.qualifyReference(iface, src, metadata))
		}
	}

	deps, err := p.collectDependencies(src, metadata, name, structType)
	if err != nil {
		return nil, err
	}
	c.builder.WithDependencies(deps...)
	return c, nil
}

// collectDependencies reads //mvc::inject markers from field doc and
// trailing comments, in field order
func (p *Parser) collectDependencies(src *sourceFile, metadata *models.PackageMetadata, owner string, structType *ast.StructType) ([]models.Dependency, error) {
	var deps []models.Dependency
	for _, field := range structType.Fields.List {
		marks, err := p.markers(field.Doc, field.Comment)
		if err != nil {
			return nil, err
		}
		if len(marks) == 0 {
			continue
		}
		for _, mark := range marks {
			if mark.Type != annotations.InjectAnnotation {
				return nil, p.reporter.validationError(field.Pos(), nil, "//mvc::%s is not valid on a field of %s", mark.Type, owner)
			}
		}
		if len(marks) > 1 {
			return nil, p.reporter.validationError(field.Pos(), nil, "field of %s carries more than one //mvc::inject", owner)
		}
		if len(field.Names) == 0 {
			return nil, p.reporter.validationError(field.Pos(),
				suggest("give the field a name"),
				"embedded field %s of %s cannot be injected", types.ExprString(field.Type), owner)
		}

		typeName, ok := p.qualifiedName(field.Type, src, metadata)
		if !ok {
			return nil, p.reporter.validationError(field.Pos(),
				suggest("inject a named struct, pointer or interface type"),
				"field %s of %s has type %s, which cannot be resolved from the registry",
				field.Names[0].Name, owner, types.ExprString(field.Type))
		}
		if err := p.addTypeImports(field.Type, src, metadata); err != nil {
			return nil, err
		}

		for _, ident := range field.Names {
			deps = append(deps, models.Dependency{
				Name:     ident.Name,
				Type:     types.ExprString(field.Type),
				TypeName: typeName,
				BeanName: strings.TrimSpace(marks[0].GetString("Name")),
				Line:     p.fileSet.Position(ident.Pos()).Line,
			})
		}
	}
	return deps, nil
}

func (p *Parser) collectRoutes(src *sourceFile, metadata *models.PackageMetadata, components map[string]*component) error {
	for _, decl := range src.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		marks, err := p.markers(fn.Doc)
		if err != nil {
			return err
		}
		if len(marks) == 0 {
			continue
		}

		var route *annotations.ParsedAnnotation
		var params []*annotations.ParsedAnnotation
		for _, mark := range marks {
			switch mark.Type {
			case annotations.RouteAnnotation:
				if route != nil {
					return p.reporter.validationError(fn.Pos(),
						suggest("declare one method per path"),
						"%s carries more than one //mvc::route", fn.Name.Name)
				}
				route = mark
			case annotations.ParamAnnotation:
				params = append(params, mark)
			default:
				return p.reporter.validationError(fn.Pos(), nil, "//mvc::%s is not valid on function %s", mark.Type, fn.Name.Name)
			}
		}
		if route == nil {
			return p.reporter.validationError(fn.Pos(),
				suggest("add //mvc::route <path> above the method"),
				"//mvc::param on %s, which has no //mvc::route", fn.Name.Name)
		}

		recv := receiverName(fn)
		if recv == "" {
			return p.reporter.validationError(fn.Pos(),
				suggest("routes are methods of a //mvc::controller struct"),
				"//mvc::route on function %s, which has no receiver", fn.Name.Name)
		}
		owner, ok := components[recv]
		if !ok || owner.kind != annotations.ControllerAnnotation {
			return p.reporter.validationError(fn.Pos(),
				suggest("mark "+recv+" with //mvc::controller"),
				"//mvc::route on %s.%s, but %s is not a controller", recv, fn.Name.Name, recv)
		}
		if !fn.Name.IsExported() {
			return p.reporter.validationError(fn.Pos(),
				suggest("export the method"),
				"route method %s.%s is not exported", recv, fn.Name.Name)
		}

		method, err := p.routeMethod(src, metadata, fn, route, params)
		if err != nil {
			return err
		}
		owner.routes = append(owner.routes, method)
	}
	return nil
}

func (p *Parser) routeMethod(src *sourceFile, metadata *models.PackageMetadata, fn *ast.FuncDecl, route *annotations.ParsedAnnotation, params []*annotations.ParsedAnnotation) (models.RouteMethodMetadata, error) {
	method := models.RouteMethodMetadata{
		MethodName: fn.Name.Name,
		Path:       route.Arg(0),
		Line:       p.fileSet.Position(fn.Pos()).Line,
	}

	bindings := make(map[string]string, len(params))
	for _, mark := range params {
		name := mark.Arg(0)
		if _, dup := bindings[name]; dup {
			return method, p.reporter.validationError(fn.Pos(), nil, "parameter %s of %s is bound twice", name, fn.Name.Name)
		}
		bindings[name] = mark.Arg(1, name)
	}

	declared := make(map[string]bool)
	for _, field := range fn.Type.Params.List {
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			return method, p.reporter.validationError(field.Pos(), nil, "variadic parameter in route method %s", fn.Name.Name)
		}
		if err := p.addTypeImports(field.Type, src, metadata); err != nil {
			return method, err
		}
		key := p.typeKey(field.Type, src, metadata)
		expr := types.ExprString(field.Type)

		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{nil}
		}
		for _, ident := range names {
			param := models.ParamMetadata{TypeExpr: expr, TypeKey: key}
			if ident != nil {
				param.Name = ident.Name
			}

			switch key {
			case mvc.RequestType:
				param.Source = models.ParameterSourceHTTPRequest
			case mvc.ResponseType:
				param.Source = models.ParameterSourceResponseWriter
			default:
				if param.Name == "" || param.Name == "_" {
					return method, p.reporter.validationError(field.Pos(),
						suggest("name the parameter so it can be bound"),
						"parameter %d of %s of type %s has no name", len(method.Parameters), fn.Name.Name, expr)
				}
				// Unmarked parameters stay unbound and receive their zero value.
				param.Source = models.ParameterSourceRequest
				param.Binding = bindings[param.Name]
			}
			if _, ok := bindings[param.Name]; ok && param.IsContext() {
				return method, p.reporter.validationError(fn.Pos(), nil,
					"//mvc::param %s names a %s parameter of %s", param.Name, key, fn.Name.Name)
			}

			declared[param.Name] = true
			method.Parameters = append(method.Parameters, param)
		}
	}

	for _, mark := range params {
		if !declared[mark.Arg(0)] {
			return method, p.reporter.validationError(fn.Pos(),
				suggest("name a parameter declared by "+fn.Name.Name),
				"//mvc::param names unknown parameter %q of %s", mark.Arg(0), fn.Name.Name)
		}
	}

	returnType, ok := returnShape(fn.Type.Results)
	if !ok {
		return method, p.reporter.validationError(fn.Pos(),
			suggest("write the response to the http.ResponseWriter", "return nothing or a single error"),
			"route method %s returns (%s)", fn.Name.Name, resultList(fn.Type.Results))
	}
	method.ReturnType = returnType
	return method, nil
}

// checkPlaceholders rejects path placeholders no parameter is bound to
func (p *Parser) checkPlaceholders(controller *models.ControllerMetadata) error {
	for _, route := range controller.Routes {
		bound := make(map[string]bool)
		for _, param := range route.Parameters {
			bound[param.Binding] = true
		}
		for _, name := range mvc.JoinPath(controller.Prefix, route.Path).Placeholders() {
			if !bound[name] {
				return models.NewValidationError(controller.File, route.Line,
					"placeholder {"+name+"} of "+controller.StructName+"."+route.MethodName+" is not bound to a parameter",
					"add a parameter named "+name, "or bind one with //mvc::param <param> "+name)
			}
		}
	}
	return nil
}

func (p *Parser) resolveConstructor(c *component, sources []*sourceFile) error {
	structName := c.structName
	for _, src := range sources {
		for _, decl := range src.file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Name.Name != c.constructor {
				continue
			}
			pointer, returnsError, ok := constructorShape(fn, structName)
			if !ok {
				return p.reporter.validationError(fn.Pos(),
					suggest("use func() *"+structName, "or func() (*"+structName+", error)"),
					"constructor %s of %s has an unsupported signature", c.constructor, structName)
			}
			c.builder.WithConstructor(c.constructor, pointer, returnsError)
			return nil
		}
	}
	return p.reporter.validationError(c.pos,
		suggest("declare func "+c.constructor+"() *"+structName+" in package "+c.src.file.Name.Name),
		"constructor %s of %s not found", c.constructor, structName)
}

func (p *Parser) importPathOf(dir string) string {
	if p.rootImportPath == "" {
		return ""
	}
	if dir == "." {
		return p.rootImportPath
	}
	return p.rootImportPath + "/" + dir
}

func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

func returnShape(results *ast.FieldList) (models.ReturnType, bool) {
	if results == nil || len(results.List) == 0 {
		return models.ReturnTypeNone, true
	}
	if len(results.List) == 1 && len(results.List[0].Names) <= 1 && isIdent(results.List[0].Type, "error") {
		return models.ReturnTypeError, true
	}
	return models.ReturnTypeNone, false
}

func resultList(results *ast.FieldList) string {
	var parts []string
	for _, field := range results.List {
		n := max(len(field.Names), 1)
		for i := 0; i < n; i++ {
			parts = append(parts, types.ExprString(field.Type))
		}
	}
	return strings.Join(parts, ", ")
}

func constructorShape(fn *ast.FuncDecl, structName string) (pointer, returnsError, ok bool) {
	if fn.Type.TypeParams != nil || len(fn.Type.Params.List) > 0 || fn.Type.Results == nil {
		return false, false, false
	}
	var results []ast.Expr
	for _, field := range fn.Type.Results.List {
		for i := 0; i < max(len(field.Names), 1); i++ {
			results = append(results, field.Type)
		}
	}
	if len(results) == 0 || len(results) > 2 {
		return false, false, false
	}
	if len(results) == 2 {
		if !isIdent(results[1], "error") {
			return false, false, false
		}
		returnsError = true
	}
	first := results[0]
	if star, isStar := first.(*ast.StarExpr); isStar {
		pointer = true
		first = star.X
	}
	return pointer, returnsError, isIdent(first, structName)
}

func isIdent(expr ast.Expr, name string) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == name
}
