package mvc

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the startup configuration of an application
type Config struct {
	// ScanPackage is the package root searched for components (required).
	// Dot- and slash-delimited forms are equivalent
	ScanPackage string

	// ContextPath is stripped from request paths before matching
	ContextPath string

	// Addr is the listen address (default ":8080", or ":$PORT")
	Addr string

	// Adapter selects the transport: std, echo, gin, fiber or chi (default std)
	Adapter string

	// LenientInjection leaves unresolved injection points unset instead of
	// failing startup
	LenientInjection bool

	// ShutdownTimeout bounds graceful shutdown (default 30s)
	ShutdownTimeout time.Duration

	// LogLevel is a logrus level name (default info)
	LogLevel string
}

// Property keys understood in configuration files
const (
	KeyScanPackage      = "scanPackage"
	KeyContextPath      = "contextPath"
	KeyAddr             = "addr"
	KeyAdapter          = "adapter"
	KeyLenientInjection = "injection.lenient"
	KeyShutdownTimeout  = "shutdownTimeout"
	KeyLogLevel         = "logLevel"
)

// envOverrides maps environment variables to property keys
var envOverrides = []struct{ env, key string }{
	{"MVC_SCAN_PACKAGE", KeyScanPackage},
	{"MVC_CONTEXT_PATH", KeyContextPath},
	{"MVC_ADDR", KeyAddr},
	{"MVC_ADAPTER", KeyAdapter},
	{"MVC_INJECTION_LENIENT", KeyLenientInjection},
	{"MVC_SHUTDOWN_TIMEOUT", KeyShutdownTimeout},
	{"MVC_LOG_LEVEL", KeyLogLevel},
}

// DefaultConfig returns a configuration with defaults filled in. It reads
// PORT the same way most container platforms expect
func DefaultConfig() Config {
	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return Config{
		Addr:            addr,
		Adapter:         "std",
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        "info",
	}
}

// LoadConfig reads a configuration file from disk. See LoadConfigFS
func LoadConfig(name string) (Config, error) {
	return LoadConfigFS(os.DirFS(filepath.Dir(name)), filepath.Base(name))
}

// LoadConfigFS reads a key=value property file (.properties, .env) or a flat
// YAML document (.yaml, .yml), then applies MVC_* environment overrides
func LoadConfigFS(fsys fs.FS, name string) (Config, error) {
	props, err := readProperties(fsys, name)
	if err != nil {
		return Config{}, err
	}
	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.env); ok {
			props[o.key] = v
		}
	}
	return FromProperties(props)
}

func readProperties(fsys fs.FS, name string) (map[string]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, &ConfigError{Reason: "cannot open " + name, Cause: err}
	}
	defer f.Close()

	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
			return nil, &ConfigError{Reason: "cannot parse " + name, Cause: err}
		}
		props := make(map[string]string, len(doc))
		for k, v := range doc {
			if v == nil {
				continue
			}
			props[k] = fmt.Sprint(v)
		}
		return props, nil
	default:
		props, err := godotenv.Parse(f)
		if err != nil {
			return nil, &ConfigError{Reason: "cannot parse " + name, Cause: err}
		}
		return props, nil
	}
}

// FromProperties builds a Config from string properties over DefaultConfig
func FromProperties(props map[string]string) (Config, error) {
	cfg := DefaultConfig()
	if v, ok := props[KeyScanPackage]; ok {
		cfg.ScanPackage = strings.TrimSpace(v)
	}
	if v, ok := props[KeyContextPath]; ok {
		cfg.ContextPath = strings.TrimSpace(v)
	}
	if v, ok := props[KeyAddr]; ok && strings.TrimSpace(v) != "" {
		cfg.Addr = strings.TrimSpace(v)
	}
	if v, ok := props[KeyAdapter]; ok && strings.TrimSpace(v) != "" {
		cfg.Adapter = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := props[KeyLenientInjection]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, &ConfigError{Key: KeyLenientInjection, Reason: "not a boolean", Cause: err}
		}
		cfg.LenientInjection = b
	}
	if v, ok := props[KeyShutdownTimeout]; ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return Config{}, &ConfigError{Key: KeyShutdownTimeout, Reason: "not a duration", Cause: err}
		}
		cfg.ShutdownTimeout = d
	}
	if v, ok := props[KeyLogLevel]; ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	return cfg, cfg.Validate()
}

// Validate checks required values
func (c Config) Validate() error {
	if strings.TrimSpace(c.ScanPackage) == "" {
		return &ConfigError{Key: KeyScanPackage, Reason: "missing"}
	}
	if c.ShutdownTimeout < 0 {
		return &ConfigError{Key: KeyShutdownTimeout, Reason: "must not be negative"}
	}
	return nil
}
