// Package adapters mounts an mvc dispatcher on a concrete HTTP transport.
//
// The dispatcher is the whole router, so every adapter registers it as a
// catch-all and leaves path matching to the route table.
package adapters

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/toyz/minimvc/pkg/mvc"
)

// Server is the transport contract shared by all adapters
type Server = mvc.WebServer

// Factory builds a transport around a handler
type Factory func(h http.Handler) Server

var factories = map[string]Factory{
	"std":   func(h http.Handler) Server { return NewStdServer(h) },
	"echo":  func(h http.Handler) Server { return NewEchoServer(h) },
	"gin":   func(h http.Handler) Server { return NewGinServer(h) },
	"fiber": func(h http.Handler) Server { return NewFiberServer(h) },
	"chi":   func(h http.Handler) Server { return NewChiServer(h) },
}

// New builds the adapter registered under name
func New(name string, h http.Handler) (Server, error) {
	factory, ok := factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &mvc.ConfigError{
			Key:    mvc.KeyAdapter,
			Reason: fmt.Sprintf("unknown adapter %q (available: %s)", name, strings.Join(Names(), ", ")),
		}
	}
	return factory(h), nil
}

// Names returns the registered adapter names, sorted
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// httpServer runs a handler on a plain net/http server. Gin, chi and the
// standard adapter share it
type httpServer struct {
	handler http.Handler
	server  *http.Server
}

func newHTTPServer(h http.Handler) httpServer {
	return httpServer{handler: h, server: &http.Server{Handler: h}}
}

func (s httpServer) start(addr string) error {
	s.server.Addr = addr
	return s.server.ListenAndServe()
}

func (s httpServer) stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
