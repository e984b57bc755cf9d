// Package lifecycle turns termination signals into a bounded graceful shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/exitcode"
)

// Drainer stops accepting connections and waits for in-flight ones.
// *http.Server satisfies it.
type Drainer interface {
	Shutdown(ctx context.Context) error
}

// Supervisor drains a server within a grace window.
type Supervisor struct {
	drainer Drainer
	grace   time.Duration
	logger  *slog.Logger
}

func NewSupervisor(drainer Drainer, grace time.Duration, logger *slog.Logger) *Supervisor {
	return &Supervisor{drainer: drainer, grace: grace, logger: logger}
}

// Notify relays SIGINT and SIGTERM. Call stop to restore default handling.
func Notify() (signals <-chan os.Signal, stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	return ch, func() { signal.Stop(ch) }
}

// Drain shuts the server down after sig, which may be nil when the shutdown
// was not caused by a signal, and returns the process exit code:
// exitcode.Success once drained, exitcode.ShutdownTimeout when the grace
// window runs out first. Signals arriving on more during the drain are
// logged but do not extend the window.
func (s *Supervisor) Drain(sig os.Signal, more <-chan os.Signal) int {
	if sig != nil {
		s.logReceived(sig)
	}

	// The deadline is released as soon as Drain returns.
	ctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.drainer.Shutdown(ctx)
	}()

	for {
		select {
		case sig := <-more:
			s.logReceived(sig)
		case err := <-done:
			if err != nil {
				return s.failed(err)
			}
			s.logger.Info("Server closed. Exiting.")
			return exitcode.Success
		case <-ctx.Done():
			return s.failed(ctx.Err())
		}
	}
}

func (s *Supervisor) failed(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Error("Shutdown exceeded grace period, forcing exit", "grace", s.grace.String())
		return exitcode.ShutdownTimeout
	}

	s.logger.Error("Shutdown failed", "error", err)
	return exitcode.ServerError
}

func (s *Supervisor) logReceived(sig os.Signal) {
	name := signalName(sig)
	s.logger.Info(fmt.Sprintf("Received %s, shutting down gracefully...", name), "signal", name)
}

func signalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGINT:
		return "SIGINT"
	default:
		return sig.String()
	}
}
