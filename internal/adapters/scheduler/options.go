package scheduler

import (
	"time"

	"github.com/okian/hackboard/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithInterval sets the fixed period between ticks.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithRunOnStart runs one tick as soon as Run starts.
func WithRunOnStart(enabled bool) Option {
	return func(r *Runner) {
		r.runOnStart = enabled
	}
}

// WithClock replaces the wall clock handed to each tick.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTicks replaces the interval ticker with an external tick source.
func WithTicks(ticks <-chan time.Time) Option {
	return func(r *Runner) {
		if ticks != nil {
			r.ticks = ticks
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
