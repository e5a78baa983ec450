package mvc

import (
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Coercer converts a raw request value into a declared parameter type
type Coercer func(raw string) (any, error)

// Coercers is a strategy table keyed by declared type. The route builder
// resolves each parameter's coercer once; the dispatcher only calls it
type Coercers struct {
	byType  map[string]Coercer
	aliases map[string]string
}

// builtinCoercers lists the conversions every application starts with
var builtinCoercers = map[string]Coercer{
	"string":    CoerceString,
	"int":       CoerceInt,
	"int64":     CoerceInt64,
	"float64":   CoerceFloat64,
	"float32":   CoerceFloat32,
	"bool":      CoerceBool,
	"uuid.UUID": CoerceUUID,
	"time.Time": CoerceTime,
}

// coercerAliases maps convenient type names to the table key
var coercerAliases = map[string]string{
	"UUID":   "uuid.UUID",
	"uuid":   "uuid.UUID",
	"float":  "float64",
	"double": "float64",
}

// NewCoercers returns a table holding the built-in conversions
func NewCoercers() *Coercers {
	return &Coercers{
		byType:  maps.Clone(builtinCoercers),
		aliases: maps.Clone(coercerAliases),
	}
}

// Register adds or replaces the coercer for a declared type
func (c *Coercers) Register(typeName string, fn Coercer) {
	c.byType[c.resolve(typeName)] = fn
}

// Lookup returns the coercer for typeName. Unknown types get the passthrough
// coercer and ok == false
func (c *Coercers) Lookup(typeName string) (Coercer, bool) {
	if fn, ok := c.byType[c.resolve(typeName)]; ok {
		return fn, true
	}
	return CoerceString, false
}

// Types returns the registered type keys, sorted
func (c *Coercers) Types() []string {
	return slices.Sorted(maps.Keys(c.byType))
}

func (c *Coercers) resolve(typeName string) string {
	if actual, ok := c.aliases[typeName]; ok {
		return actual
	}
	return typeName
}

// CoerceString passes the raw value through
func CoerceString(raw string) (any, error) {
	return raw, nil
}

// CoerceInt parses a base-10 int
func CoerceInt(raw string) (any, error) {
	return strconv.Atoi(raw)
}

// CoerceInt64 parses a base-10 int64
func CoerceInt64(raw string) (any, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// CoerceFloat64 parses a float64
func CoerceFloat64(raw string) (any, error) {
	return strconv.ParseFloat(raw, 64)
}

// CoerceFloat32 parses a float32
func CoerceFloat32(raw string) (any, error) {
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return nil, err
	}
	return float32(v), nil
}

// CoerceBool parses the values accepted by strconv.ParseBool
func CoerceBool(raw string) (any, error) {
	return strconv.ParseBool(raw)
}

// CoerceUUID parses a uuid.UUID
func CoerceUUID(raw string) (any, error) {
	return uuid.Parse(raw)
}

// CoerceTime parses an RFC 3339 timestamp or a plain date
func CoerceTime(raw string) (any, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}
