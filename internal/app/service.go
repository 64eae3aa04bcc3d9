// Package service implements the scoring operations exposed to the HTTP API
// and the CLI, and owns the periodic score snapshot job.
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/adapters/repository"
	"github.com/okian/hackboard/internal/adapters/scheduler"
	"github.com/okian/hackboard/internal/domain/cooldown"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/internal/domain/scoring"
	"github.com/okian/hackboard/pkg/logger"
	"github.com/okian/hackboard/pkg/metrics"
)

const defaultSnapshotInterval = 5 * time.Minute

// Scoring views reported to metrics.
const (
	viewComplete = "complete"
	viewOverview = "overview"
	viewHistory  = "history"
)

// HistoryPoint is one snapshot of a team's raw sidequest score.
type HistoryPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// Service implements the scoring operations over a raw signal store.
type Service struct {
	mu sync.Mutex

	store      repository.Store
	engine     *Engine
	aggregator *SnapshotAggregator
	runner     *scheduler.Runner

	snapshotInterval time.Duration
	snapshotOnStart  bool
	now              func() time.Time

	started bool
	runErr  chan error

	logger logger.Logger
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:            store,
		engine:           NewEngine(store),
		snapshotInterval: defaultSnapshotInterval,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.aggregator = NewSnapshotAggregator(store, s.engine, s.logger.Named("snapshot"))
	return s
}

// Engine returns the store-backed scoring engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Aggregator returns the snapshot task, e.g. to run a single tick.
func (s *Service) Aggregator() *SnapshotAggregator {
	return s.aggregator
}

// Start launches the snapshot scheduler.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.runner = scheduler.NewRunner(s.aggregator,
		scheduler.WithInterval(s.snapshotInterval),
		scheduler.WithRunOnStart(s.snapshotOnStart),
		scheduler.WithClock(s.now),
		scheduler.WithLogger(s.logger.Named("scheduler")),
	)
	s.runErr = make(chan error, 1)
	go func() { s.runErr <- s.runner.Run(ctx) }()

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Duration("snapshot_interval", s.snapshotInterval),
		logger.Bool("snapshot_on_start", s.snapshotOnStart),
	)
	return nil
}

// Stop stops the scheduler, waiting for an in-flight snapshot tick.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false

	if err := s.runner.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "scoring service stopped")
	return <-s.runErr
}

// GetCooldown reports when the user may record the next attempt in the event.
func (s *Service) GetCooldown(ctx context.Context, userID, eventID uuid.UUID) (cooldown.Status, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return cooldown.Status{}, err
	}
	return s.cooldownStatus(ctx, userID, event)
}

func (s *Service) cooldownStatus(ctx context.Context, userID uuid.UUID, event model.Event) (cooldown.Status, error) {
	latest, err := s.store.LatestAttempt(ctx, userID, event.ID)
	if err != nil {
		return cooldown.Status{}, err
	}
	var last *time.Time
	if latest != nil {
		last = &latest.AttemptedAt
	}
	return cooldown.Evaluate(event.SidequestCooldown(), last, s.now()), nil
}

// CreateAttempt records a sidequest result for the user. It fails with
// model.ErrEventNotHacking outside the hacking phase and with a
// *cooldown.Error while the user's cooldown is active.
func (s *Service) CreateAttempt(ctx context.Context, userID, sidequestID uuid.UUID, result float64) (model.Attempt, error) {
	if math.IsNaN(result) || math.IsInf(result, 0) {
		metrics.RecordAttemptRejected("invalid_result")
		return model.Attempt{}, fmt.Errorf("%w: %v", ErrInvalidResult, result)
	}

	sq, err := s.store.GetSidequest(ctx, sidequestID)
	if err != nil {
		return model.Attempt{}, err
	}
	event, err := s.store.GetEvent(ctx, sq.EventID)
	if err != nil {
		return model.Attempt{}, err
	}
	if err := event.RequireActive(); err != nil {
		metrics.RecordAttemptRejected("phase")
		return model.Attempt{}, err
	}

	status, err := s.cooldownStatus(ctx, userID, event)
	if err != nil {
		return model.Attempt{}, err
	}
	if err := status.Check(); err != nil {
		metrics.RecordAttemptRejected("cooldown")
		return model.Attempt{}, err
	}

	attempt := model.Attempt{
		ID:          uuid.New(),
		SidequestID: sq.ID,
		UserID:      userID,
		Result:      result,
		AttemptedAt: s.now().UTC(),
	}
	if err := s.store.InsertAttempt(ctx, attempt); err != nil {
		return model.Attempt{}, err
	}
	metrics.RecordAttemptCreated()
	s.logger.Debug(ctx, "attempt recorded",
		logger.String("attempt_id", attempt.ID.String()),
		logger.String("sidequest_id", sq.ID.String()),
		logger.Float64("result", result),
	)
	return attempt, nil
}

// ListUserAttempts returns the user's attempts in the event, oldest first.
func (s *Service) ListUserAttempts(ctx context.Context, userID, eventID uuid.UUID, w repository.Window) ([]model.Attempt, error) {
	if err := validateWindow(w); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ListAttemptsByUser(ctx, userID, eventID, w)
}

// GetCompleteScores returns every team's full breakdown sorted by rank.
func (s *Service) GetCompleteScores(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreNormalized, error) {
	start := time.Now()
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := s.engine.CompleteScores(ctx, eventID)
	if err != nil {
		metrics.RecordScoringError(viewComplete)
		return nil, err
	}
	metrics.RecordScoringComputation(viewComplete, sinceMs(start))
	return rows, nil
}

// GetOverviewLeaderboard ranks teams by raw sidequest total plus bonus.
// With finalists the top expert-rated teams lead the list.
func (s *Service) GetOverviewLeaderboard(ctx context.Context, eventID uuid.UUID, finalists bool) ([]scoring.OverviewEntry, error) {
	start := time.Now()
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	entries, err := s.engine.Overview(ctx, eventID, finalists)
	if err != nil {
		metrics.RecordScoringError(viewOverview)
		return nil, err
	}
	metrics.RecordScoringComputation(viewOverview, sinceMs(start))
	return entries, nil
}

// GetHistory groups the event's snapshots by team, oldest first.
func (s *Service) GetHistory(ctx context.Context, eventID uuid.UUID, w repository.Window) (map[uuid.UUID][]HistoryPoint, error) {
	if err := validateWindow(w); err != nil {
		return nil, err
	}
	start := time.Now()
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListSnapshots(ctx, eventID, w)
	if err != nil {
		metrics.RecordScoringError(viewHistory)
		return nil, err
	}

	history := make(map[uuid.UUID][]HistoryPoint)
	for _, r := range rows {
		history[r.TeamID] = append(history[r.TeamID], HistoryPoint{Date: r.ValidAt, Score: r.Score})
	}
	metrics.RecordScoringComputation(viewHistory, sinceMs(start))
	return history, nil
}

// SetTechnicalResult awards points to a team for a technical question.
// Nil points clears the answer.
func (s *Service) SetTechnicalResult(ctx context.Context, questionID, teamID uuid.UUID, points *float64) error {
	q, err := s.store.GetTechnicalQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if points != nil {
		if err := scoring.ValidateTechnicalPoints(q, *points); err != nil {
			return err
		}
	}
	if err := s.requireTeam(ctx, q.EventID, teamID); err != nil {
		return err
	}
	if err := s.store.UpsertTechnicalResult(ctx, model.TechnicalResult{TeamID: teamID, QuestionID: questionID, Points: points}); err != nil {
		return err
	}
	metrics.RecordTechnicalResultWritten()
	return nil
}

// CastVote stores a public vote, replacing the voter's earlier vote of the
// same rank.
func (s *Service) CastVote(ctx context.Context, v model.Vote) error {
	if v.Rank < 1 || v.Rank > 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidVoteRank, v.Rank)
	}
	if _, err := s.store.GetEvent(ctx, v.EventID); err != nil {
		return err
	}
	if err := s.requireTeam(ctx, v.EventID, v.TeamID); err != nil {
		return err
	}
	if err := s.store.UpsertVote(ctx, v); err != nil {
		return err
	}
	metrics.RecordVoteCast()
	return nil
}

// requireTeam rejects a team that is not registered in the event.
func (s *Service) requireTeam(ctx context.Context, eventID, teamID uuid.UUID) error {
	teams, err := s.store.ListTeams(ctx, eventID)
	if err != nil {
		return err
	}
	for _, t := range teams {
		if t.ID == teamID {
			return nil
		}
	}
	return fmt.Errorf("%w: team %s, event %s", ErrTeamNotInEvent, teamID, eventID)
}

// Snapshot runs one aggregation tick at the current time.
func (s *Service) Snapshot(ctx context.Context) error {
	return s.aggregator.Tick(ctx, s.now())
}

func validateWindow(w repository.Window) error {
	if w.After != nil && w.Before != nil && !w.After.Before(*w.Before) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidWindow, w.After.Format(time.RFC3339), w.Before.Format(time.RFC3339))
	}
	return nil
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
