package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/adapters/repository"
	"github.com/okian/hackboard/internal/domain/model"
	"github.com/okian/hackboard/internal/domain/scoring"
	"golang.org/x/sync/errgroup"
)

// maxSidequestFetches bounds concurrent attempt fetches of one event.
const maxSidequestFetches = 4

// Engine recomputes scores from the raw signal store on every call. It
// holds no state besides the store and is safe for concurrent use.
type Engine struct {
	store repository.Store
}

// NewEngine creates an engine over store.
func NewEngine(store repository.Store) *Engine {
	return &Engine{store: store}
}

// SidequestTotals returns the event's teams and their raw sidequest totals.
func (e *Engine) SidequestTotals(ctx context.Context, eventID uuid.UUID) ([]model.Team, scoring.TeamScores, error) {
	var (
		teams        []model.Team
		participants int
		sidequests   []model.Sidequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teams, err = e.store.ListTeams(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		participants, err = e.store.CountParticipants(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		sidequests, err = e.store.ListSidequests(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	withAttempts := make([]scoring.SidequestAttempts, len(sidequests))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(maxSidequestFetches)
	for i, sq := range sidequests {
		i, sq := i, sq
		g.Go(func() error {
			attempts, err := e.store.ListAttemptsBySidequest(gctx, sq.ID, repository.Window{})
			if err != nil {
				return err
			}
			withAttempts[i] = scoring.SidequestAttempts{Sidequest: sq, Attempts: attempts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return teams, scoring.SidequestTotals(teams, withAttempts, participants), nil
}

// CompleteScores computes every team's normalized breakdown, final score
// and rank. Any failed fetch fails the whole computation.
func (e *Engine) CompleteScores(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreNormalized, error) {
	var (
		in        scoring.CombineInput
		questions []model.TechnicalQuestion
		results   []model.TechnicalResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Teams, in.Sidequest, err = e.SidequestTotals(gctx, eventID)
		return err
	})
	g.Go(func() error {
		ratings, err := e.store.ListExpertRatings(gctx, eventID)
		if err != nil {
			return err
		}
		in.Expert = scoring.AggregateExpert(ratings)
		return nil
	})
	g.Go(func() (err error) {
		questions, err = e.store.ListTechnicalQuestions(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		results, err = e.store.ListTechnicalResults(gctx, eventID)
		return err
	})
	g.Go(func() error {
		votes, err := e.store.ListVotes(gctx, eventID)
		if err != nil {
			return err
		}
		in.Voting = scoring.AggregateVotes(votes)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	in.Technical = scoring.AggregateTechnical(questions, results)

	rows, err := scoring.Combine(in)
	if err != nil {
		return nil, fmt.Errorf("combine scores of event %s: %w", eventID, err)
	}
	return rows, nil
}

// Overview ranks teams by raw sidequest total plus bonus. With finalists,
// the top expert-rated teams are moved to the front.
func (e *Engine) Overview(ctx context.Context, eventID uuid.UUID, finalists bool) ([]scoring.OverviewEntry, error) {
	teams, totals, err := e.SidequestTotals(ctx, eventID)
	if err != nil {
		return nil, err
	}
	overview := scoring.Overview(teams, totals)
	if !finalists {
		return overview, nil
	}

	ratings, err := e.store.ListExpertRatings(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return scoring.MergeFinalists(scoring.Raws(scoring.AggregateExpert(ratings)), overview, scoring.FinalistCount), nil
}
