// Package warmup decides when the service starts reporting ready.
//
// Readiness is a one-shot transition: after a fixed delay, and once every
// configured dependency answers, the callback passed to Run fires exactly once.
package warmup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// checkTimeout bounds a single probe attempt.
const checkTimeout = 5 * time.Second

// Probe reports whether a dependency is reachable.
type Probe interface {
	Name() string
	Check(ctx context.Context) error
}

// Runner waits out the warm-up delay and then the probes.
type Runner struct {
	delay  time.Duration
	retry  time.Duration
	probes []Probe
	logger *slog.Logger
}

func NewRunner(delay, retry time.Duration, logger *slog.Logger, probes ...Probe) *Runner {
	return &Runner{delay: delay, retry: retry, probes: probes, logger: logger}
}

// Run blocks until the service is ready or ctx is done. onReady is called
// once on success and never on failure.
func (r *Runner) Run(ctx context.Context, onReady func()) error {
	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range r.probes {
		g.Go(func() error {
			return r.await(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("warm-up: %w", err)
	}

	onReady()
	r.logger.InfoContext(ctx, "Service ready to accept traffic")

	return nil
}

// await retries p until it passes or ctx is done.
func (r *Runner) await(ctx context.Context, p Probe) error {
	for attempt := 1; ; attempt++ {
		err := r.check(ctx, p)
		if err == nil {
			r.logger.DebugContext(ctx, "dependency ready", "dependency", p.Name(), "attempts", attempt)
			return nil
		}

		r.logger.WarnContext(ctx, "dependency not ready", "dependency", p.Name(), "attempt", attempt, "error", err)

		wait := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			wait.Stop()
			return fmt.Errorf("%s: %w", p.Name(), ctx.Err())
		case <-wait.C:
		}
	}
}

func (r *Runner) check(ctx context.Context, p Probe) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return p.Check(ctx)
}
