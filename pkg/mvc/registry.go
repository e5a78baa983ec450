package mvc

import (
	"fmt"
	"slices"
	"strings"
)

// Entry is one registered component
type Entry struct {
	Key        string
	Descriptor ComponentDescriptor
	Instance   any
}

// Registry owns every constructed component. It is populated once during
// startup and read-only after Seal
type Registry struct {
	table   *Table
	entries []*Entry
	byKey   map[string]*Entry
	aliases map[string]*Entry
	sealed  bool
}

// NewRegistry creates a registry that constructs components from table
func NewRegistry(table *Table) *Registry {
	return &Registry{
		table:   table,
		byKey:   make(map[string]*Entry),
		aliases: make(map[string]*Entry),
	}
}

// Register constructs and stores the component described for typeName.
// Types without a descriptor or without a recognised marker are skipped and
// report registered == false
func (r *Registry) Register(typeName string) (bool, error) {
	if r.sealed {
		return false, ErrSealed
	}

	desc, ok := r.table.Lookup(typeName)
	if !ok {
		return false, nil
	}
	if desc.Kind != KindController && desc.Kind != KindService {
		return false, nil
	}

	key := desc.Key()
	if key == "" {
		return false, &InstantiationError{TypeName: typeName, Reason: "empty registry key"}
	}
	aliases := aliasNames(desc, key)
	if err := r.checkNames(desc, key, aliases); err != nil {
		return false, err
	}

	instance, err := construct(desc)
	if err != nil {
		return false, &InstantiationError{TypeName: typeName, Key: key, Cause: err}
	}

	entry := &Entry{Key: key, Descriptor: desc, Instance: instance}
	r.entries = append(r.entries, entry)
	r.byKey[key] = entry
	for _, name := range aliases {
		r.aliases[name] = entry
	}
	return true, nil
}

// aliasNames lists the qualified type name and implemented interfaces a
// component is also reachable under, without the key itself
func aliasNames(desc ComponentDescriptor, key string) []string {
	var names []string
	for _, name := range append([]string{desc.TypeName}, desc.Implements...) {
		name = strings.TrimSpace(name)
		if name != "" && name != key && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// checkNames rejects a key or alias already taken by another component,
// whether as a key or as an alias. Lookups must resolve to one component
func (r *Registry) checkNames(desc ComponentDescriptor, key string, aliases []string) error {
	conflict := func(format string, args ...any) error {
		return &InstantiationError{TypeName: desc.TypeName, Key: key, Reason: fmt.Sprintf(format, args...)}
	}
	if prev, exists := r.byKey[key]; exists {
		return conflict("key already registered by %s", prev.Descriptor.TypeName)
	}
	if prev, exists := r.aliases[key]; exists {
		return conflict("key is already an alias of %s", prev.Descriptor.TypeName)
	}
	for _, name := range aliases {
		if prev, exists := r.byKey[name]; exists {
			return conflict("alias %q is already the key of %s", name, prev.Descriptor.TypeName)
		}
		if prev, exists := r.aliases[name]; exists {
			return conflict("alias %q already bound to %s", name, prev.Descriptor.TypeName)
		}
	}
	return nil
}

func construct(desc ComponentDescriptor) (instance any, err error) {
	if desc.New == nil {
		return nil, fmt.Errorf("no constructor")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec}
		}
	}()
	instance, err = desc.New()
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, fmt.Errorf("constructor returned nil")
	}
	return instance, nil
}

// Lookup returns the instance stored under key. Qualified type names and
// implemented interface names resolve as well
func (r *Registry) Lookup(key string) (any, bool) {
	if e := r.entry(key); e != nil {
		return e.Instance, true
	}
	return nil, false
}

// Descriptor returns the descriptor of the component stored under key
func (r *Registry) Descriptor(key string) (ComponentDescriptor, bool) {
	if e := r.entry(key); e != nil {
		return e.Descriptor, true
	}
	return ComponentDescriptor{}, false
}

func (r *Registry) entry(key string) *Entry {
	if e, ok := r.byKey[key]; ok {
		return e
	}
	return r.aliases[key]
}

// Keys returns the primary keys in registration order
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the registered components in registration order
func (r *Registry) Entries() []*Entry {
	return slices.Clone(r.entries)
}

// Len returns the number of registered components
func (r *Registry) Len() int {
	return len(r.entries)
}

// Seal ends the registration phase
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal was called
func (r *Registry) Sealed() bool {
	return r.sealed
}
