package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

type fakeServer struct {
	addr string

	listenErr   error
	shutdownErr error

	listenCalled   bool
	shutdownCalled bool
	closeCalled    bool
}

func (f *fakeServer) ListenAndServe() error {
	f.listenCalled = true
	return f.listenErr
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdownCalled = true
	return f.shutdownErr
}

func (f *fakeServer) Close() error {
	f.closeCalled = true
	return nil
}

func (f *fakeServer) Addr() string { return f.addr }

func TestRunBootstrapFailure(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	build := func() (httpServer, func(), error) {
		return nil, func() {}, errors.New("boom")
	}

	if got := Run(build, sigCh, zerolog.Nop()); got != 1 {
		t.Fatalf("exit code = %d, want 1", got)
	}
}

func TestRunGracefulShutdownOnSignal(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt // take the signal path deterministically

	fs := &fakeServer{addr: ":0", listenErr: http.ErrServerClosed}
	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	if got := Run(build, sigCh, zerolog.Nop()); got != 0 {
		t.Fatalf("exit code = %d, want 0", got)
	}
	if !fs.listenCalled || !fs.shutdownCalled {
		t.Error("expected listen and shutdown to be called")
	}
	if fs.closeCalled {
		t.Error("Close must not run on a clean shutdown")
	}
	if !cleanupCalled {
		t.Error("cleanup not called")
	}
}

func TestRunServerCrash(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	fs := &fakeServer{addr: ":0", listenErr: errors.New("crash")}

	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	if got := Run(build, sigCh, zerolog.Nop()); got != 1 {
		t.Fatalf("exit code = %d, want 1", got)
	}
	if fs.shutdownCalled {
		t.Error("crash path must not attempt graceful shutdown")
	}
	if !cleanupCalled {
		t.Error("cleanup not called")
	}
}

func TestRunForcesCloseWhenShutdownFails(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	fs := &fakeServer{
		addr:        ":0",
		listenErr:   http.ErrServerClosed,
		shutdownErr: errors.New("shutdown failed"),
	}
	build := func() (httpServer, func(), error) {
		return fs, func() {}, nil
	}

	_ = Run(build, sigCh, zerolog.Nop())

	if !fs.closeCalled {
		t.Error("expected Close after failed Shutdown")
	}
}
