package mvc

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// BindingSource says where a parameter value comes from
type BindingSource int

const (
	SourceNone BindingSource = iota
	SourceQuery
	SourcePath
	SourceRequest
	SourceResponse
)

func (s BindingSource) String() string {
	switch s {
	case SourceQuery:
		return "query"
	case SourcePath:
		return "path"
	case SourceRequest:
		return "request"
	case SourceResponse:
		return "response"
	default:
		return "none"
	}
}

// ParamIndexMap maps a binding key (request parameter name, RequestType or
// ResponseType) to the formal parameter position that receives it
type ParamIndexMap map[string]int

// Binding is the resolved plan for one formal parameter
type Binding struct {
	Key      string
	Position int
	Type     string
	Source   BindingSource
	Coerce   Coercer
}

// Route is one compiled pattern bound to a controller method
type Route struct {
	Pattern    PathPattern
	TargetKey  string
	TargetType string
	Method     string
	Params     []ParamDescriptor
	Index      ParamIndexMap
	Bindings   []Binding

	regexp *regexp.Regexp
	invoke func(owner any, args Args) error
}

func (r *Route) String() string {
	return fmt.Sprintf("%s -> %s.%s", r.Pattern, r.TargetType, r.Method)
}

// Match reports whether path fully matches the route and returns the
// placeholder captures
func (r *Route) Match(path string) (map[string]string, bool) {
	m := r.regexp.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	var captures map[string]string
	for i, name := range r.regexp.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		if captures == nil {
			captures = make(map[string]string)
		}
		captures[name] = m[i]
	}
	return captures, true
}

// RouteTable is the flat, ordered list of routes. The first match wins
type RouteTable struct {
	routes []*Route
}

// Match returns the first route whose pattern fully matches path
func (t *RouteTable) Match(path string) (*Route, map[string]string, bool) {
	for _, route := range t.routes {
		if captures, ok := route.Match(path); ok {
			return route, captures, true
		}
	}
	return nil, nil, false
}

// Routes returns the routes in registration order
func (t *RouteTable) Routes() []*Route {
	return slices.Clone(t.routes)
}

// Len returns the number of routes
func (t *RouteTable) Len() int {
	return len(t.routes)
}

// BuildRoutes derives one route per routable method of every registered
// controller. Services are skipped
func BuildRoutes(registry *Registry, coercers *Coercers, logger logrus.FieldLogger) (*RouteTable, error) {
	if coercers == nil {
		coercers = NewCoercers()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	table := &RouteTable{}
	for _, entry := range registry.entries {
		desc := entry.Descriptor
		if desc.Kind != KindController {
			continue
		}
		for _, method := range desc.Methods {
			if strings.TrimSpace(method.Path) == "" {
				continue
			}
			route, err := buildRoute(entry, method, coercers)
			if err != nil {
				return nil, err
			}
			table.routes = append(table.routes, route)
			logger.WithFields(logrus.Fields{
				"pattern":    route.Pattern,
				"controller": entry.Key,
				"method":     method.Name,
			}).Info("mapped route")
		}
	}
	return table, nil
}

func buildRoute(entry *Entry, method MethodDescriptor, coercers *Coercers) (*Route, error) {
	desc := entry.Descriptor
	pattern := JoinPath(desc.Prefix, strings.TrimSpace(method.Path))
	routeErr := func(cause error) error {
		return &RouteError{Controller: desc.TypeName, Method: method.Name, Pattern: pattern.Raw(), Cause: cause}
	}

	if method.Invoke == nil {
		return nil, routeErr(fmt.Errorf("no invoker"))
	}
	re, err := pattern.Compile()
	if err != nil {
		return nil, routeErr(err)
	}

	placeholders := pattern.Placeholders()
	index := make(ParamIndexMap, len(method.Params))
	bindings := make([]Binding, 0, len(method.Params))
	bound := make(map[string]bool)

	for i, p := range method.Params {
		switch p.Type {
		case RequestType:
			index[RequestType] = i
			bindings = append(bindings, Binding{Key: RequestType, Position: i, Type: p.Type, Source: SourceRequest})
			continue
		case ResponseType:
			index[ResponseType] = i
			bindings = append(bindings, Binding{Key: ResponseType, Position: i, Type: p.Type, Source: SourceResponse})
			continue
		}

		name := strings.TrimSpace(p.Binding)
		if name == "" {
			continue
		}
		if bound[name] {
			return nil, routeErr(fmt.Errorf("binding %q used by more than one parameter", name))
		}
		bound[name] = true
		index[name] = i

		source := SourceQuery
		if slices.Contains(placeholders, name) {
			source = SourcePath
		}
		// Only a string parameter can take the raw value as is.
		coerce, ok := coercers.Lookup(p.Type)
		if !ok {
			return nil, routeErr(fmt.Errorf("parameter %s of type %s has no coercer, register one with WithCoercer", p.Name, p.Type))
		}
		bindings = append(bindings, Binding{Key: name, Position: i, Type: p.Type, Source: source, Coerce: coerce})
	}

	for _, name := range placeholders {
		if !bound[name] {
			return nil, routeErr(fmt.Errorf("placeholder {%s} is not bound to a parameter", name))
		}
	}

	return &Route{
		Pattern:    pattern,
		TargetKey:  entry.Key,
		TargetType: desc.TypeName,
		Method:     method.Name,
		Params:     slices.Clone(method.Params),
		Index:      index,
		Bindings:   bindings,
		regexp:     re,
		invoke:     method.Invoke,
	}, nil
}
