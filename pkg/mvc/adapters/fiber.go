package adapters

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// FiberServer mounts the dispatcher on Fiber through its net/http adaptor
type FiberServer struct {
	app *fiber.App
}

// NewFiberServer creates a Fiber server that forwards every request to h
func NewFiberServer(h http.Handler) *FiberServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(adaptor.HTTPHandler(h))
	return &FiberServer{app: app}
}

// Start starts the server
func (fs *FiberServer) Start(addr string) error {
	return fs.app.Listen(addr)
}

// Stop stops the server
func (fs *FiberServer) Stop(ctx context.Context) error {
	return fs.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fs *FiberServer) Name() string {
	return "Fiber"
}

// Handler converts the Fiber app back into an http.Handler
func (fs *FiberServer) Handler() http.Handler {
	return adaptor.FiberApp(fs.app)
}

var _ Server = (*FiberServer)(nil)
