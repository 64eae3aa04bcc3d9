package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/hackboard/internal/adapters/repository"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/pkg/logger"
	"github.com/okian/hackboard/pkg/metrics"
)

// SnapshotAggregator appends one raw sidequest score row per team of every
// hacking event on each tick.
type SnapshotAggregator struct {
	store  repository.Store
	engine *Engine
	logger logger.Logger
}

// NewSnapshotAggregator creates the aggregator task.
func NewSnapshotAggregator(store repository.Store, engine *Engine, log logger.Logger) *SnapshotAggregator {
	if log == nil {
		log = logger.Get().Named("snapshot")
	}
	return &SnapshotAggregator{store: store, engine: engine, logger: log}
}

// Name implements scheduler.Task.
func (a *SnapshotAggregator) Name() string { return "snapshot" }

// Tick snapshots every hacking event at now. A failing event is logged and
// the remaining events are still processed; the joined failures are returned.
func (a *SnapshotAggregator) Tick(ctx context.Context, now time.Time) error {
	start := time.Now()
	now = now.UTC()

	events, err := a.store.ListEvents(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("snapshot", "list_events")
		return fmt.Errorf("list events: %w", err)
	}

	var errs []error
	written := 0
	for _, event := range events {
		if !event.AcceptsAttempts() {
			metrics.RecordSnapshotEventSkipped()
			continue
		}
		n, err := a.snapshotEvent(ctx, event, now)
		if err != nil {
			metrics.RecordSnapshotEventFailure()
			a.logger.Error(ctx, "snapshot failed",
				logger.String("event_id", event.ID.String()),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("event %s: %w", event.ID, err))
			continue
		}
		written += n
	}

	metrics.RecordSnapshotTick(time.Since(start), now)
	a.logger.Info(ctx, "snapshot tick finished",
		logger.Int("events", len(events)),
		logger.Int("rows", written),
		logger.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}

func (a *SnapshotAggregator) snapshotEvent(ctx context.Context, event model.Event, now time.Time) (int, error) {
	teams, totals, err := a.engine.SidequestTotals(ctx, event.ID)
	if err != nil {
		return 0, err
	}
	if len(teams) == 0 {
		return 0, nil
	}

	rows := make([]model.ScoreSnapshot, 0, len(teams))
	for _, team := range teams {
		rows = append(rows, model.ScoreSnapshot{TeamID: team.ID, Score: totals[team.ID], ValidAt: now})
	}
	if err := a.store.InsertSnapshots(ctx, rows); err != nil {
		return 0, err
	}
	metrics.RecordSnapshotRows(len(rows))
	return len(rows), nil
}
