package mvc

import (
	"errors"
	"fmt"

	"github.com/toyz/minimvc/pkg/mvc/catalog"
)

// Sentinel values matched with errors.Is
var (
	ErrScan          = catalog.ErrScan
	ErrInstantiation = errors.New("mvc: instantiation failed")
	ErrInjectionMiss = errors.New("mvc: injection miss")
	ErrInjection     = errors.New("mvc: injection failed")
	ErrRoute         = errors.New("mvc: invalid route")
	ErrCoercion      = errors.New("mvc: coercion failed")
	ErrNotFound      = errors.New("mvc: not found")
	ErrServer        = errors.New("mvc: server error")
	ErrSealed        = errors.New("mvc: registry is sealed")
	ErrConfig        = errors.New("mvc: invalid configuration")
)

// ScanError is the catalog's scan failure
type ScanError = catalog.ScanError

// InstantiationError reports a component that could not be constructed or
// could not be stored under its key
type InstantiationError struct {
	TypeName string
	Key      string
	Reason   string
	Cause    error
}

func (e *InstantiationError) Error() string {
	msg := fmt.Sprintf("instantiate %s", e.TypeName)
	if e.Key != "" {
		msg += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiation }
func (e *InstantiationError) Unwrap() error        { return e.Cause }

// InjectionMiss reports an injection point whose key has no registry entry
type InjectionMiss struct {
	Owner string // key of the owning component
	Field string
	Key   string
}

func (e *InjectionMiss) Error() string {
	return fmt.Sprintf("inject %s.%s: no component registered under %q", e.Owner, e.Field, e.Key)
}

func (e *InjectionMiss) Is(target error) bool { return target == ErrInjectionMiss }

// InjectionError reports a dependency that was found but could not be assigned
type InjectionError struct {
	Owner string
	Field string
	Key   string
	Cause error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("inject %s.%s from %q: %v", e.Owner, e.Field, e.Key, e.Cause)
}

func (e *InjectionError) Is(target error) bool { return target == ErrInjection }
func (e *InjectionError) Unwrap() error        { return e.Cause }

// RouteError reports a route that cannot be built at startup
type RouteError struct {
	Controller string
	Method     string
	Pattern    string
	Cause      error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %s.%s %q: %v", e.Controller, e.Method, e.Pattern, e.Cause)
}

func (e *RouteError) Is(target error) bool { return target == ErrRoute }
func (e *RouteError) Unwrap() error        { return e.Cause }

// CoercionError reports a request value that cannot be converted to the
// declared parameter type
type CoercionError struct {
	Param    string
	Position int
	Type     string
	Value    string
	Cause    error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("parameter %q (position %d): cannot convert %q to %s", e.Param, e.Position, e.Value, e.Type)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CoercionError) Is(target error) bool { return target == ErrCoercion }
func (e *CoercionError) Unwrap() error        { return e.Cause }

// NotFoundError reports a request path without a matching route
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route matches %q", e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ServerError wraps every failure raised while binding or invoking a handler
type ServerError struct {
	Route string
	Cause error
	Stack []byte // set when the handler panicked
}

func (e *ServerError) Error() string {
	if e.Route == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Route, e.Cause)
}

// Detail renders the failure the way it is written to the response body
func (e *ServerError) Detail() string {
	if len(e.Stack) == 0 {
		return e.Cause.Error()
	}
	return e.Cause.Error() + "\n" + string(e.Stack)
}

func (e *ServerError) Is(target error) bool { return target == ErrServer }
func (e *ServerError) Unwrap() error        { return e.Cause }

// PanicError carries a recovered panic value
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ConfigError reports a missing or malformed configuration value
type ConfigError struct {
	Key    string
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	msg := "config"
	if e.Key != "" {
		msg += fmt.Sprintf(" %q", e.Key)
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
func (e *ConfigError) Unwrap() error        { return e.Cause }
