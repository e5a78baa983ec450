package mvc

import (
	"regexp"
	"strings"
)

// PathPartType is the kind of one piece of a route pattern
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart is one piece of a route pattern
type PathPart struct {
	Type      PathPartType
	Value     string // literal text (may hold regex syntax), or the placeholder name
	ParamType string // placeholder type, empty for untyped
}

// PathPattern is a normalized route pattern such as "/demo/users/{id:int}"
type PathPattern string

var (
	repeatedSlashes  = regexp.MustCompile(`/+`)
	placeholderToken = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(:[A-Za-z_][A-Za-z0-9_.]*)?$`)
)

// JoinPath concatenates a controller prefix and a method fragment and
// collapses every run of '/' into one
func JoinPath(prefix, suffix string) PathPattern {
	return PathPattern(CollapseSlashes("/" + prefix + "/" + suffix))
}

// CollapseSlashes replaces every run of '/' with a single '/'
func CollapseSlashes(p string) string {
	return repeatedSlashes.ReplaceAllString(p, "/")
}

// Raw returns the pattern text
func (p PathPattern) Raw() string {
	return string(p)
}

// Parts splits the pattern into literal text, placeholders and wildcards.
// Brace groups that do not look like a placeholder ("{3}", "{1,2}") stay
// literal so regex quantifiers keep working
func (p PathPattern) Parts() []PathPart {
	path := string(p)
	var parts []PathPart
	static := strings.Builder{}

	flush := func() {
		if static.Len() > 0 {
			parts = append(parts, PathPart{Type: StaticPart, Value: static.String()})
			static.Reset()
		}
	}

	for i := 0; i < len(path); {
		if path[i] != '{' {
			static.WriteByte(path[i])
			i++
			continue
		}
		j := strings.IndexByte(path[i:], '}')
		if j < 0 {
			static.WriteString(path[i:])
			break
		}
		content := path[i+1 : i+j]
		switch {
		case content == "*":
			flush()
			parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
		case placeholderToken.MatchString(content):
			flush()
			name, typ, _ := strings.Cut(content, ":")
			parts = append(parts, PathPart{Type: ParameterPart, Value: name, ParamType: typ})
		default:
			static.WriteString(path[i : i+j+1])
		}
		i += j + 1
	}
	flush()
	return parts
}

// Placeholders returns the names of the pattern's path placeholders in order
func (p PathPattern) Placeholders() []string {
	var names []string
	for _, part := range p.Parts() {
		if part.Type == ParameterPart {
			names = append(names, part.Value)
		}
	}
	return names
}

// placeholderExprs constrains typed placeholders
var placeholderExprs = map[string]string{
	"int":       `-?[0-9]+`,
	"int64":     `-?[0-9]+`,
	"uuid":      `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"uuid.UUID": `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"string":    `[^/]+`,
}

// Compile converts the pattern into an anchored regular expression. Literal
// text is used as regex source, so regex-style segments match as written
func (p PathPattern) Compile() (*regexp.Regexp, error) {
	var expr strings.Builder
	expr.WriteString("^(?:")
	for _, part := range p.Parts() {
		switch part.Type {
		case ParameterPart:
			sub, ok := placeholderExprs[part.ParamType]
			if !ok {
				sub = `[^/]+`
			}
			expr.WriteString("(?P<" + part.Value + ">" + sub + ")")
		case WildcardPart:
			expr.WriteString(".*")
		default:
			expr.WriteString(part.Value)
		}
	}
	expr.WriteString(")$")
	return regexp.Compile(expr.String())
}

// NormalizeRequestPath strips the context path and collapses separators
func NormalizeRequestPath(path, contextPath string) string {
	path = CollapseSlashes(path)
	ctx := strings.TrimSuffix(CollapseSlashes(contextPath), "/")
	if ctx != "" && ctx != "/" {
		if path == ctx {
			path = "/"
		} else if strings.HasPrefix(path, ctx+"/") {
			path = path[len(ctx):]
		}
	}
	if path == "" {
		path = "/"
	}
	return path
}
