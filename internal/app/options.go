package service

import (
	"time"

	"github.com/okian/hackboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock used for attempts and snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSnapshotInterval sets the period of the snapshot aggregator.
func WithSnapshotInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.snapshotInterval = d
		}
	}
}

// WithSnapshotOnStart runs one aggregation as soon as the service starts.
func WithSnapshotOnStart(enabled bool) Option {
	return func(s *Service) {
		s.snapshotOnStart = enabled
	}
}
