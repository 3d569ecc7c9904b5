// Package scheduler refreshes the datasets and artifacts on a fixed
// interval.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/couchcryptid/hk-data-viz/internal/pipeline"
)

// Runner executes one pipeline run.
type Runner interface {
	RunOnce(ctx context.Context) pipeline.Summary
}

// Scheduler runs the pipeline immediately and then every interval. Runs
// never overlap; a tick that arrives during a run is dropped.
type Scheduler struct {
	sched    *gocron.Scheduler
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
}

// New creates a Scheduler. Call Start to begin.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{sched: s, runner: runner, interval: interval, logger: logger}
}

// Start schedules the job and returns without waiting for the first run.
// Cancelling ctx aborts an in-flight run.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if _, err := s.sched.Every(s.interval).StartImmediately().Do(s.run, runCtx); err != nil {
		cancel()
		return err
	}
	s.sched.StartAsync()
	s.logger.Info("scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	summary := s.runner.RunOnce(ctx)
	if summary.Failed() {
		s.logger.Error("scheduled run finished with errors", "error", summary.Err())
		return
	}
	s.logger.Info("scheduled run finished", "artifacts", len(summary.Artifacts))
}

// Stop cancels any in-flight run and halts the scheduler.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.sched.Stop()
	s.logger.Info("scheduler stopped")
}
