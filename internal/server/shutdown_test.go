package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
)

func newTestGracefulServer() *GracefulServer {
	cfg := config.Default()
	cfg.Server.Port = 0
	return NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
}

func TestGracefulServer_ShutdownRunsHooks(t *testing.T) {
	gs := newTestGracefulServer()

	var calls atomic.Int32
	for range 3 {
		gs.RegisterShutdownHook(func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	require.NoError(t, gs.Shutdown(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGracefulServer_ShutdownReportsHookFailure(t *testing.T) {
	gs := newTestGracefulServer()
	boom := errors.New("flush failed")

	gs.RegisterShutdownHook(func(ctx context.Context) error { return nil })
	gs.RegisterShutdownHook(func(ctx context.Context) error { return boom })

	err := gs.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestGracefulServer_ShutdownTimeout(t *testing.T) {
	gs := newTestGracefulServer()
	release := make(chan struct{})
	defer close(release)

	gs.RegisterShutdownHook(func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, gs.Shutdown(ctx), context.DeadlineExceeded)
}

func TestGracefulServer_ListenAndServeStopsOnCancel(t *testing.T) {
	gs := newTestGracefulServer()

	var hooked atomic.Bool
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		hooked.Store(true)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, hooked.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
