package mvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// WebServer is a transport that serves one handler
type WebServer interface {
	// Start listens on addr and blocks until the server stops
	Start(addr string) error
	// Stop shuts the server down gracefully
	Stop(ctx context.Context) error
	// Name identifies the transport in logs
	Name() string
	// Handler returns the transport's root handler, for tests
	Handler() http.Handler
}

// Serve runs server on the application's address until ctx is cancelled or
// the process receives SIGINT/SIGTERM, then shuts it down within
// Config.ShutdownTimeout
func Serve(ctx context.Context, app *Application, server WebServer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := app.logger.WithFields(logrus.Fields{"adapter": server.Name(), "addr": app.config.Addr})

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server")
		errCh <- server.Start(app.config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", server.Name(), err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	timeout := app.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", server.Name(), err)
	}
	log.Info("server shutdown complete")
	return nil
}
