package mvc_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/minimvc/pkg/mvc"
)

type fakeServer struct {
	addr     chan string
	stopped  chan struct{}
	stops    atomic.Int32
	startErr error
}

func newFakeServer() *fakeServer {
	return &fakeServer{addr: make(chan string, 1), stopped: make(chan struct{})}
}

func (s *fakeServer) Start(addr string) error {
	s.addr <- addr
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stopped
	return http.ErrServerClosed
}

func (s *fakeServer) Stop(context.Context) error {
	if s.stops.Add(1) == 1 {
		close(s.stopped)
	}
	return nil
}

func (s *fakeServer) Name() string          { return "Fake" }
func (s *fakeServer) Handler() http.Handler { return http.NotFoundHandler() }

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Addr = ":0"
	app := newTestApp(t, cfg)
	server := newFakeServer()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mvc.Serve(ctx, app, server) }()

	select {
	case addr := <-server.addr:
		assert.Equal(t, ":0", addr)
	case <-time.After(time.Second):
		t.Fatal("server was not started")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, int32(1), server.stops.Load())
}

func TestServe_StartFailure(t *testing.T) {
	app := newTestApp(t, testConfig())
	server := newFakeServer()
	server.startErr = errors.New("address in use")

	err := mvc.Serve(context.Background(), app, server)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
	assert.Zero(t, server.stops.Load())
}
