// Package repository defines the raw signal store and its SQL implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// Window optionally bounds a time-ordered query. Nil bounds are open.
// After is inclusive and Before is exclusive.
type Window struct {
	After  *time.Time
	Before *time.Time
}

// EventReader reads event configuration and rosters.
type EventReader interface {
	// GetEvent returns ErrNotFound for unknown ids.
	GetEvent(ctx context.Context, eventID uuid.UUID) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	// CountParticipants counts users registered with role participant.
	CountParticipants(ctx context.Context, eventID uuid.UUID) (int, error)
	// ListTeams returns the event's teams with their member rosters.
	ListTeams(ctx context.Context, eventID uuid.UUID) ([]model.Team, error)
}

// AttemptStore reads sidequests and reads/appends attempts.
type AttemptStore interface {
	GetSidequest(ctx context.Context, sidequestID uuid.UUID) (model.Sidequest, error)
	ListSidequests(ctx context.Context, eventID uuid.UUID) ([]model.Sidequest, error)
	ListAttemptsBySidequest(ctx context.Context, sidequestID uuid.UUID, w Window) ([]model.Attempt, error)
	ListAttemptsByUser(ctx context.Context, userID, eventID uuid.UUID, w Window) ([]model.Attempt, error)
	// LatestAttempt returns the user's most recent attempt across all
	// sidequests of the event, or nil if there is none.
	LatestAttempt(ctx context.Context, userID, eventID uuid.UUID) (*model.Attempt, error)
	InsertAttempt(ctx context.Context, a model.Attempt) error
}

// JudgingStore reads expert, technical and public vote signals.
type JudgingStore interface {
	ListExpertRatings(ctx context.Context, eventID uuid.UUID) ([]model.ExpertRating, error)
	GetTechnicalQuestion(ctx context.Context, questionID uuid.UUID) (model.TechnicalQuestion, error)
	ListTechnicalQuestions(ctx context.Context, eventID uuid.UUID) ([]model.TechnicalQuestion, error)
	ListTechnicalResults(ctx context.Context, eventID uuid.UUID) ([]model.TechnicalResult, error)
	// UpsertTechnicalResult sets or clears (nil points) a team's award.
	UpsertTechnicalResult(ctx context.Context, r model.TechnicalResult) error
	ListVotes(ctx context.Context, eventID uuid.UUID) ([]model.Vote, error)
	// UpsertVote replaces the voter's earlier vote for the same rank.
	UpsertVote(ctx context.Context, v model.Vote) error
}

// SnapshotStore appends and reads the raw sidequest score time series.
type SnapshotStore interface {
	// InsertSnapshots appends rows; it never updates or deduplicates.
	InsertSnapshots(ctx context.Context, rows []model.ScoreSnapshot) error
	// ListSnapshots returns the event's rows ordered by valid_at ascending.
	ListSnapshots(ctx context.Context, eventID uuid.UUID, w Window) ([]model.ScoreSnapshot, error)
}

// Store provides every fetch and append operation scoring needs.
type Store interface {
	EventReader
	AttemptStore
	JudgingStore
	SnapshotStore

	Close() error
}
