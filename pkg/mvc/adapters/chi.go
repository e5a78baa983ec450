package adapters

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ChiServer mounts the dispatcher on a chi router
type ChiServer struct {
	httpServer
	router chi.Router
}

// NewChiServer creates a chi server that forwards every request to h
func NewChiServer(h http.Handler) *ChiServer {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Handle("/*", h)
	return &ChiServer{httpServer: newHTTPServer(r), router: r}
}

// Start starts the server
func (cs *ChiServer) Start(addr string) error {
	return cs.start(addr)
}

// Stop stops the server
func (cs *ChiServer) Stop(ctx context.Context) error {
	return cs.stop(ctx)
}

// Name returns the adapter name
func (cs *ChiServer) Name() string {
	return "Chi"
}

// Handler returns the chi router
func (cs *ChiServer) Handler() http.Handler {
	return cs.router
}

var _ Server = (*ChiServer)(nil)
