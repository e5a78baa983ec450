package mvc

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Outcome is the terminal state of one dispatch
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeServerError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "server_error"
	}
}

// Response bodies written by the dispatcher itself
const (
	NotFoundBody    = "404 Not found!"
	ServerErrorBody = "500 Exception, Detail: "
	RequestIDHeader = "X-Request-Id"
)

// Result describes how a request was handled
type Result struct {
	Outcome   Outcome
	Route     *Route
	Err       error
	RequestID string
}

// Dispatcher matches requests against the route table and invokes the
// target method. It only reads the registry and the routes
type Dispatcher struct {
	registry    *Registry
	routes      *RouteTable
	contextPath string
	logger      logrus.FieldLogger
	metrics     *Metrics
}

// NewDispatcher creates the dispatcher of an application
func NewDispatcher(app *Application) *Dispatcher {
	return &Dispatcher{
		registry:    app.registry,
		routes:      app.routes,
		contextPath: app.config.ContextPath,
		logger:      app.logger,
		metrics:     app.metrics,
	}
}

// ServeHTTP implements http.Handler
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.Dispatch(w, r)
}

// Dispatch handles one request and reports its outcome. Failures are written
// to w and returned in the Result; they never escape as panics
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) (res Result) {
	start := time.Now()
	res.RequestID = uuid.NewString()
	w.Header().Set(RequestIDHeader, res.RequestID)

	log := d.logger.WithFields(logrus.Fields{
		"request_id": res.RequestID,
		"method":     r.Method,
		"path":       r.URL.Path,
	})
	defer func() {
		elapsed := time.Since(start)
		d.metrics.Observe(res.Outcome, elapsed)
		entry := log.WithFields(logrus.Fields{"outcome": res.Outcome.String(), "duration": elapsed})
		if res.Err != nil && res.Outcome == OutcomeServerError {
			entry.WithError(res.Err).Error("dispatch failed")
			return
		}
		entry.Debug("dispatched")
	}()

	path := NormalizeRequestPath(r.URL.Path, d.contextPath)
	route, captures, ok := d.routes.Match(path)
	if !ok {
		res.Outcome = OutcomeNotFound
		res.Err = &NotFoundError{Path: path}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, NotFoundBody)
		return res
	}
	res.Route = route

	if err := d.invoke(w, r, route, captures, log); err != nil {
		res.Outcome = OutcomeServerError
		res.Err = err
		writeServerError(w, err)
		return res
	}
	res.Outcome = OutcomeOK
	return res
}

func (d *Dispatcher) invoke(w http.ResponseWriter, r *http.Request, route *Route, captures map[string]string, log logrus.FieldLogger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &ServerError{Route: route.String(), Cause: &PanicError{Value: rec}, Stack: debug.Stack()}
		}
	}()

	args, err := d.bind(w, r, route, captures, log)
	if err != nil {
		return &ServerError{Route: route.String(), Cause: err}
	}

	owner, ok := d.registry.Lookup(route.TargetKey)
	if !ok {
		return &ServerError{Route: route.String(), Cause: fmt.Errorf("component %q is not registered", route.TargetKey)}
	}
	if err := route.invoke(owner, args); err != nil {
		return &ServerError{Route: route.String(), Cause: err}
	}
	return nil
}

// bind stages every parameter of the route into a fresh argument array
func (d *Dispatcher) bind(w http.ResponseWriter, r *http.Request, route *Route, captures map[string]string, log logrus.FieldLogger) (Args, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse request parameters: %w", err)
	}

	args := make(Args, len(route.Params))
	for _, b := range route.Bindings {
		switch b.Source {
		case SourceRequest, SourceResponse:
			if pos, ok := route.Index[b.Key]; !ok || pos != b.Position {
				return nil, fmt.Errorf("no %s slot recorded for parameter %d", b.Key, b.Position)
			}
			if b.Source == SourceRequest {
				args[b.Position] = r
			} else {
				args[b.Position] = w
			}
			continue
		}

		var raw string
		switch b.Source {
		case SourceQuery:
			values, ok := r.Form[b.Key]
			if !ok {
				continue
			}
			for _, v := range values {
				log.WithFields(logrus.Fields{"param": b.Key, "value": v}).Debug("bound parameter")
			}
			raw = strings.Join(values, ",")
		case SourcePath:
			value, ok := captures[b.Key]
			if !ok {
				continue
			}
			log.WithFields(logrus.Fields{"param": b.Key, "value": value}).Debug("bound path parameter")
			raw = value
		default:
			continue
		}

		v, err := b.Coerce(raw)
		if err != nil {
			return nil, &CoercionError{Param: b.Key, Position: b.Position, Type: b.Type, Value: raw, Cause: err}
		}
		args[b.Position] = v
	}
	return args, nil
}

func writeServerError(w http.ResponseWriter, err error) {
	detail := err.Error()
	if serr, ok := err.(*ServerError); ok {
		detail = serr.Detail()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, ServerErrorBody+detail)
}
