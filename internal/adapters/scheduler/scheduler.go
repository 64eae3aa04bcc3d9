// Package scheduler runs periodic tasks at a fixed interval without overlap.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hackboard/pkg/logger"
	"github.com/okian/hackboard/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

// ErrAlreadyRunning is returned by Run when the runner was already started.
var ErrAlreadyRunning = errors.New("scheduler already running")

// Task is a unit of periodic work. Tick receives the instant the run was
// scheduled for.
type Task interface {
	Name() string
	Tick(ctx context.Context, now time.Time) error
}

// Runner invokes a Task on every tick. A tick arriving while the previous
// run is still active is skipped.
type Runner struct {
	task       Task
	interval   time.Duration
	runOnStart bool
	now        func() time.Time
	ticks      <-chan time.Time
	logger     logger.Logger

	started  atomic.Bool
	busy     atomic.Bool
	inflight sync.WaitGroup
	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}
}

// NewRunner creates a runner for task.
func NewRunner(task Task, opts ...Option) *Runner {
	r := &Runner{
		task:     task,
		interval: defaultInterval,
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("scheduler")
	}
	r.logger = r.logger.With(logger.String("task", task.Name()))
	return r
}

// RunOnce executes a single tick synchronously.
func (r *Runner) RunOnce(ctx context.Context) error {
	at := r.now()
	start := time.Now()
	err := r.task.Tick(ctx, at)
	took := time.Since(start)
	if err != nil {
		metrics.RecordErrorByComponent("scheduler", r.task.Name())
		r.logger.Error(ctx, "tick failed", logger.Time("at", at), logger.Duration("took", took), logger.Error(err))
		return fmt.Errorf("%s tick: %w", r.task.Name(), err)
	}
	r.logger.Debug(ctx, "tick finished", logger.Time("at", at), logger.Duration("took", took))
	return nil
}

// Run ticks until ctx is canceled or Shutdown is called.
func (r *Runner) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(r.done)

	ticks := r.ticks
	if ticks == nil {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	r.logger.Info(ctx, "scheduler started", logger.Duration("interval", r.interval))
	if r.runOnStart {
		r.dispatch(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			r.inflight.Wait()
			return nil
		case <-r.shutdown:
			r.inflight.Wait()
			return nil
		case _, ok := <-ticks:
			if !ok {
				r.inflight.Wait()
				return nil
			}
			r.dispatch(ctx)
		}
	}
}

// dispatch starts a run unless one is active.
func (r *Runner) dispatch(ctx context.Context) {
	if !r.busy.CompareAndSwap(false, true) {
		metrics.RecordSchedulerTickSkipped(r.task.Name())
		r.logger.Warn(ctx, "previous tick still running, skipping")
		return
	}
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		defer r.busy.Store(false)
		_ = r.RunOnce(ctx)
	}()
}

// Shutdown stops the loop and waits for an in-flight tick.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.shutdown) })
	if !r.started.Load() {
		return nil
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
