package adapters

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoServer mounts the dispatcher on Echo v4
type EchoServer struct {
	engine *echo.Echo
}

// NewEchoServer creates an Echo server that forwards every request to h
func NewEchoServer(h http.Handler) *EchoServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	wrapped := echo.WrapHandler(h)
	e.Any("/", wrapped)
	e.Any("/*", wrapped)
	return &EchoServer{engine: e}
}

// Start starts the server
func (es *EchoServer) Start(addr string) error {
	return es.engine.Start(addr)
}

// Stop stops the server
func (es *EchoServer) Stop(ctx context.Context) error {
	return es.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (es *EchoServer) Name() string {
	return "Echo"
}

// Handler returns the Echo instance
func (es *EchoServer) Handler() http.Handler {
	return es.engine
}

var _ Server = (*EchoServer)(nil)
