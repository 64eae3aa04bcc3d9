package repository

import "time"

const (
	defaultMaxOpenConns = 10
	defaultBusyTimeout  = 5 * time.Second
)

type options struct {
	maxOpenConns int
	busyTimeout  time.Duration
	applySchema  bool
}

func defaultOptions() options {
	return options{
		maxOpenConns: defaultMaxOpenConns,
		busyTimeout:  defaultBusyTimeout,
		applySchema:  true,
	}
}

// Option configures a SQL store.
type Option func(*options)

// WithMaxOpenConns bounds the connection pool.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// WithSchema controls whether missing tables are created on open.
func WithSchema(apply bool) Option {
	return func(o *options) {
		o.applySchema = apply
	}
}
