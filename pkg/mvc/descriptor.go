package mvc

import (
	"fmt"
	"iter"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the marker a component type was declared with
type Kind int

const (
	KindUnknown Kind = iota
	KindController
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Reserved parameter type keys. A handler parameter declared with one of these
// types receives the live request or response of the call
const (
	RequestType  = "*http.Request"
	ResponseType = "http.ResponseWriter"
)

// ComponentDescriptor is the static description of one marked type, produced
// by mvcgen. It replaces runtime inspection: the constructor, the field
// setters and the method invokers are all plain closures
type ComponentDescriptor struct {
	TypeName   string // qualified name, e.g. "app/service.DemoService"
	Kind       Kind
	Name       string   // explicit registry key, optional
	Prefix     string   // controller path prefix, optional
	Implements []string // extra lookup names (interfaces satisfied)
	New        func() (any, error)
	Inject     []InjectionPoint
	Methods    []MethodDescriptor
}

// Key derives the registry key: the explicit name, or the lower-camel simple
// type name
func (d ComponentDescriptor) Key() string {
	if name := strings.TrimSpace(d.Name); name != "" {
		return name
	}
	return lowerFirst(simpleName(d.TypeName))
}

// InjectionPoint is a field marked for injection
type InjectionPoint struct {
	Field    string
	TypeName string // declared type, qualified
	Name     string // explicit registry key, optional
	Assign   func(owner, dep any) error
}

// Key returns the registry key the field is resolved from
func (p InjectionPoint) Key() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.TypeName
}

// MethodDescriptor is a routable method of a controller
type MethodDescriptor struct {
	Name   string
	Path   string // path fragment from the route marker
	Params []ParamDescriptor
	Invoke func(owner any, args Args) error
}

// ParamDescriptor describes one formal parameter of a routable method
type ParamDescriptor struct {
	Name    string // Go parameter name
	Type    string // declared type key
	Binding string // request parameter name, empty when unbound
}

// Args is the argument array handed to a generated invoker
type Args []any

// ArgAs returns args[i] as T. A nil or missing slot yields the zero value
func ArgAs[T any](args Args, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(args) || args[i] == nil {
		return zero, nil
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, &CoercionError{
			Position: i,
			Type:     reflect.TypeFor[T]().String(),
			Value:    fmt.Sprint(args[i]),
			Cause:    fmt.Errorf("argument holds %T", args[i]),
		}
	}
	return v, nil
}

// Setter adapts a typed field assignment to InjectionPoint.Assign. Owner and
// dependency are checked against O and D before set runs
func Setter[O, D any](set func(owner O, dep D)) func(owner, dep any) error {
	return func(owner, dep any) error {
		o, ok := owner.(O)
		if !ok {
			return fmt.Errorf("owner is %T, want %s", owner, reflect.TypeFor[O]())
		}
		d, ok := dep.(D)
		if !ok {
			return fmt.Errorf("dependency is %T, want %s", dep, reflect.TypeFor[D]())
		}
		set(o, d)
		return nil
	}
}

// Table holds component descriptors keyed by qualified type name, in
// insertion order
type Table struct {
	order  []string
	byType map[string]ComponentDescriptor
}

// NewTable builds a table from descriptors. A type described twice is an error
func NewTable(descs ...ComponentDescriptor) (*Table, error) {
	t := &Table{byType: make(map[string]ComponentDescriptor, len(descs))}
	for _, d := range descs {
		if err := t.Add(d); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustTable is NewTable for package-level wiring; it panics on error
func MustTable(descs ...ComponentDescriptor) *Table {
	t, err := NewTable(descs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Add appends a descriptor
func (t *Table) Add(d ComponentDescriptor) error {
	if d.TypeName == "" {
		return fmt.Errorf("descriptor without type name")
	}
	if _, exists := t.byType[d.TypeName]; exists {
		return fmt.Errorf("type %s described twice", d.TypeName)
	}
	t.order = append(t.order, d.TypeName)
	t.byType[d.TypeName] = d
	return nil
}

// Lookup returns the descriptor for a qualified type name
func (t *Table) Lookup(typeName string) (ComponentDescriptor, bool) {
	if t == nil {
		return ComponentDescriptor{}, false
	}
	d, ok := t.byType[typeName]
	return d, ok
}

// Len returns the number of descriptors
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Types yields the described type names in insertion order, shaped like a
// catalog sequence. It lets binaries without a source tree skip the scan
func (t *Table) Types(string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if t == nil {
			return
		}
		for _, name := range t.order {
			if !yield(name, nil) {
				return
			}
		}
	}
}

func simpleName(typeName string) string {
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
