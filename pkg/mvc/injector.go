package mvc

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// InjectorOptions tunes how injection misses are handled
type InjectorOptions struct {
	// Lenient leaves fields with no matching component unset and logs a
	// warning instead of failing
	Lenient bool
	Logger  logrus.FieldLogger
}

// Injector assigns marked fields from the registry
type Injector struct {
	registry *Registry
	opts     InjectorOptions
}

// NewInjector creates an injector over registry
func NewInjector(registry *Registry, opts InjectorOptions) *Injector {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Injector{registry: registry, opts: opts}
}

// Inject makes one pass over every registered component, in registration
// order, and every injection point, in field order. All failures are joined
// into the returned error
func (inj *Injector) Inject() error {
	var errs []error
	for _, entry := range inj.registry.entries {
		for _, point := range entry.Descriptor.Inject {
			if err := inj.injectField(entry, point); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (inj *Injector) injectField(entry *Entry, point InjectionPoint) error {
	key := point.Key()
	dep, ok := inj.registry.Lookup(key)
	if !ok {
		miss := &InjectionMiss{Owner: entry.Key, Field: point.Field, Key: key}
		if inj.opts.Lenient {
			inj.opts.Logger.WithFields(logrus.Fields{
				"component": entry.Key,
				"field":     point.Field,
				"key":       key,
			}).Warn("injection miss, field left unset")
			return nil
		}
		return miss
	}

	if point.Assign == nil {
		return &InjectionError{Owner: entry.Key, Field: point.Field, Key: key, Cause: fmt.Errorf("no setter")}
	}
	if err := assign(point, entry.Instance, dep); err != nil {
		return &InjectionError{Owner: entry.Key, Field: point.Field, Key: key, Cause: err}
	}

	inj.opts.Logger.WithFields(logrus.Fields{
		"component": entry.Key,
		"field":     point.Field,
		"key":       key,
	}).Debug("injected")
	return nil
}

func assign(point InjectionPoint, owner, dep any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec}
		}
	}()
	return point.Assign(owner, dep)
}
