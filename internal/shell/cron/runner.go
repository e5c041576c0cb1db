// Package cron contains the background polling loop that triggers scheduled
// job processing inside the running environment.
package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the polling interval used when none is configured.
const DefaultInterval = 60 * time.Second

// InvokeFunc triggers one job-processing run inside the environment. The
// orchestrator exec passthrough is the production implementation.
type InvokeFunc func(ctx context.Context) error

// Runner is a single cooperative polling loop: it re-arms only after the
// previous invocation's result is observed, and a cancel stops re-arming and
// returns promptly without forcibly aborting an in-flight call.
type Runner struct {
	interval time.Duration
	invoke   InvokeFunc
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a polling runner.
func NewRunner(interval time.Duration, invoke InvokeFunc, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		interval: interval,
		invoke:   invoke,
		logger:   logger.With("component", "cron"),
	}
}

// Start begins the polling goroutine.
func (r *Runner) Start() {
	var ctx context.Context
	ctx, r.cancel = context.WithCancel(context.Background())

	r.wg.Add(1)
	go r.run(ctx)

	r.logger.Info("cron runner started", "interval", r.interval)
}

// Stop cancels the loop and waits for the goroutine to exit.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info("cron runner stopped")
}

func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	for {
		r.runCycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
		}
	}
}

func (r *Runner) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := r.invoke(ctx); err != nil {
		r.logger.Warn("cron invocation failed", "error", err, "duration", time.Since(start))
		return
	}
	r.logger.Debug("cron invocation completed", "duration", time.Since(start))
}
