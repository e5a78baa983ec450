package mvc

import (
	"fmt"
	"iter"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/toyz/minimvc/pkg/mvc/catalog"
)

// TypeSource enumerates qualified type names under a scan package.
// *catalog.Catalog and *Table both satisfy it
type TypeSource interface {
	Types(scanPackage string) iter.Seq2[string, error]
}

// Option configures New
type Option func(*options)

type options struct {
	source   TypeSource
	logger   logrus.FieldLogger
	coercers map[string]Coercer
	metrics  *Metrics
}

// WithTypeSource scans type names from source instead of the descriptor
// table, typically a catalog over embedded sources
func WithTypeSource(source TypeSource) Option {
	return func(o *options) { o.source = source }
}

// WithLogger replaces the logger built from Config.LogLevel
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCoercer registers a parameter coercer for a declared type
func WithCoercer(typeName string, fn Coercer) Option {
	return func(o *options) {
		if o.coercers == nil {
			o.coercers = make(map[string]Coercer)
		}
		o.coercers[typeName] = fn
	}
}

// WithMetrics records dispatch metrics into m
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Application is the built context: a sealed registry, its route table and
// the dispatcher over them
type Application struct {
	config     Config
	registry   *Registry
	routes     *RouteTable
	logger     logrus.FieldLogger
	metrics    *Metrics
	dispatcher *Dispatcher
}

// New runs startup once: scan, register, inject, build routes. Any failure
// aborts startup and no application is returned
func New(cfg Config, table *Table, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		logger, err := NewLogger(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		o.logger = logger
	}
	if o.source == nil {
		o.source = table
	}

	coercers := NewCoercers()
	for typeName, fn := range o.coercers {
		coercers.Register(typeName, fn)
	}

	registry := NewRegistry(table)
	if err := populate(registry, o.source, cfg.ScanPackage, o.logger); err != nil {
		return nil, err
	}

	injector := NewInjector(registry, InjectorOptions{Lenient: cfg.LenientInjection, Logger: o.logger})
	if err := injector.Inject(); err != nil {
		return nil, fmt.Errorf("dependency injection: %w", err)
	}

	routes, err := BuildRoutes(registry, coercers, o.logger)
	if err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}
	registry.Seal()

	app := &Application{
		config:   cfg,
		registry: registry,
		routes:   routes,
		logger:   o.logger,
		metrics:  o.metrics,
	}
	app.dispatcher = NewDispatcher(app)

	o.logger.WithFields(logrus.Fields{
		"scan_package": cfg.ScanPackage,
		"components":   registry.Len(),
		"routes":       routes.Len(),
	}).Info("application started")
	return app, nil
}

func populate(registry *Registry, source TypeSource, scanPackage string, logger logrus.FieldLogger) error {
	for typeName, err := range source.Types(scanPackage) {
		if err != nil {
			return fmt.Errorf("component scan: %w", err)
		}
		if !catalog.Within(typeName, scanPackage) {
			continue
		}
		registered, err := registry.Register(typeName)
		if err != nil {
			return fmt.Errorf("component registry: %w", err)
		}
		if registered {
			logger.WithField("type", typeName).Debug("registered component")
		}
	}
	return nil
}

// Config returns the configuration the application was built with
func (a *Application) Config() Config { return a.config }

// Registry returns the sealed component registry
func (a *Application) Registry() *Registry { return a.registry }

// Routes returns the route table
func (a *Application) Routes() *RouteTable { return a.routes }

// Dispatcher returns the request dispatcher
func (a *Application) Dispatcher() *Dispatcher { return a.dispatcher }

// Handler returns the dispatcher as an http.Handler
func (a *Application) Handler() http.Handler { return a.dispatcher }

// Metrics returns the metrics collector, nil when metrics are disabled
func (a *Application) Metrics() *Metrics { return a.metrics }

// Logger returns the runtime logger
func (a *Application) Logger() logrus.FieldLogger { return a.logger }
