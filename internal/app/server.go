// Package app assembles the listener, handler, warm-up and shutdown of a service process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/exitcode"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/lifecycle"
)

// Task runs alongside the server until its context is cancelled.
type Task func(ctx context.Context) error

// Server owns one listener and the http.Server serving it.
type Server struct {
	http     *http.Server
	listener net.Listener
	grace    time.Duration
	logger   *slog.Logger
	tasks    []Task
}

func newServer(handler http.Handler, grace time.Duration, logger *slog.Logger, tasks ...Task) *Server {
	return &Server{
		http: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			// OPTIONS * must reach the handler to be counted and answered 404.
			DisableGeneralOptionsHandler: true,
		},
		grace:  grace,
		logger: logger,
		tasks:  tasks,
	}
}

// listen binds port on all interfaces and returns the bound port number.
func (s *Server) listen(port string) (int, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return 0, fmt.Errorf("listen on port %s: %w", port, err)
	}
	s.listener = ln

	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port, nil
	}
	return 0, nil
}

// Addr is the bound address, nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run serves until a signal arrives on signals, then drains and returns the
// process exit code. Background tasks are cancelled when Run returns.
func (s *Server) Run(ctx context.Context, signals <-chan os.Signal) int {
	if s.listener == nil {
		s.logger.Error("server started without a listener")
		return exitcode.ServerError
	}

	ctx, cancel := context.WithCancel(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range s.tasks {
		g.Go(func() error {
			if err := task(gctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Warn("background task stopped", "error", err)
			}
			return nil
		})
	}
	defer func() {
		cancel()
		_ = g.Wait()
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(s.listener)
	}()

	select {
	case err := <-serveErr:
		s.logger.Error("server error", "error", err)
		return exitcode.ServerError
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down gracefully...")
		return lifecycle.NewSupervisor(s.http, s.grace, s.logger).Drain(nil, signals)
	case sig := <-signals:
		cancel()
		return lifecycle.NewSupervisor(s.http, s.grace, s.logger).Drain(sig, signals)
	}
}
