package adapters

import (
	"context"
	"net/http"
)

// StdServer serves the dispatcher with net/http alone
type StdServer struct {
	httpServer
}

// NewStdServer creates a net/http server around h
func NewStdServer(h http.Handler) *StdServer {
	return &StdServer{httpServer: newHTTPServer(h)}
}

// Start starts the server
func (s *StdServer) Start(addr string) error { return s.start(addr) }

// Stop stops the server
func (s *StdServer) Stop(ctx context.Context) error { return s.stop(ctx) }

// Name returns the adapter name
func (s *StdServer) Name() string { return "Std" }

// Handler returns the served handler
func (s *StdServer) Handler() http.Handler { return s.handler }

var _ Server = (*StdServer)(nil)
