package adapters

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinServer mounts the dispatcher on Gin
type GinServer struct {
	httpServer
	engine *gin.Engine
}

// NewGinServer creates a Gin server that forwards every request to h
func NewGinServer(h http.Handler) *GinServer {
	engine := gin.New()
	engine.Any("/*path", gin.WrapH(h))
	return &GinServer{httpServer: newHTTPServer(engine), engine: engine}
}

// Start starts the server
func (gs *GinServer) Start(addr string) error {
	return gs.start(addr)
}

// Stop stops the server. Gin has no shutdown of its own, so the wrapping
// http.Server handles it
func (gs *GinServer) Stop(ctx context.Context) error {
	return gs.stop(ctx)
}

// Name returns the adapter name
func (gs *GinServer) Name() string {
	return "Gin"
}

// Handler returns the Gin engine
func (gs *GinServer) Handler() http.Handler {
	return gs.engine
}

var _ Server = (*GinServer)(nil)
