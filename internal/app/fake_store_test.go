package service_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/adapters/repository"
	"github.com/okian/hackboard/internal/domain/model"
)

var errStoreDown = errors.New("store down")

// fakeStore is an in-memory repository.Store.
type fakeStore struct {
	mu sync.Mutex

	events       map[uuid.UUID]model.Event
	participants map[uuid.UUID]int
	teams        map[uuid.UUID][]model.Team
	sidequests   map[uuid.UUID]model.Sidequest
	attempts     []model.Attempt
	ratings      map[uuid.UUID][]model.ExpertRating
	questions    map[uuid.UUID]model.TechnicalQuestion
	results      map[[2]uuid.UUID]model.TechnicalResult
	votes        map[uuid.UUID][]model.Vote
	snapshots    []model.ScoreSnapshot

	// failTeams makes ListTeams fail for the given events.
	failTeams map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:       map[uuid.UUID]model.Event{},
		participants: map[uuid.UUID]int{},
		teams:        map[uuid.UUID][]model.Team{},
		sidequests:   map[uuid.UUID]model.Sidequest{},
		ratings:      map[uuid.UUID][]model.ExpertRating{},
		questions:    map[uuid.UUID]model.TechnicalQuestion{},
		results:      map[[2]uuid.UUID]model.TechnicalResult{},
		votes:        map[uuid.UUID][]model.Vote{},
		failTeams:    map[uuid.UUID]bool{},
	}
}

var _ repository.Store = (*fakeStore)(nil)

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
}

func inWindow(w repository.Window, a model.Attempt) bool {
	if w.After != nil && a.AttemptedAt.Before(*w.After) {
		return false
	}
	if w.Before != nil && !a.AttemptedAt.Before(*w.Before) {
		return false
	}
	return true
}

// seeding helpers

func (f *fakeStore) addEvent(phase model.Phase, cooldownMinutes, participants int) model.Event {
	e := model.Event{ID: uuid.New(), Name: "event", Phase: phase, SidequestCooldownMinutes: cooldownMinutes}
	f.events[e.ID] = e
	f.participants[e.ID] = participants
	return e
}

func (f *fakeStore) addTeam(eventID uuid.UUID, name string, members ...uuid.UUID) model.Team {
	t := model.Team{ID: uuid.New(), EventID: eventID, Name: name, Members: members}
	f.teams[eventID] = append(f.teams[eventID], t)
	return t
}

func (f *fakeStore) addSidequest(eventID uuid.UUID, higherBetter bool) model.Sidequest {
	sq := model.Sidequest{ID: uuid.New(), EventID: eventID, Name: "sq", IsHigherResultBetter: higherBetter}
	f.sidequests[sq.ID] = sq
	return sq
}

// EventReader

func (f *fakeStore) GetEvent(_ context.Context, id uuid.UUID) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return model.Event{}, notFound("event", id)
	}
	return e, nil
}

func (f *fakeStore) ListEvents(_ context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (f *fakeStore) CountParticipants(_ context.Context, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.participants[id], nil
}

func (f *fakeStore) ListTeams(_ context.Context, id uuid.UUID) ([]model.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTeams[id] {
		return nil, errStoreDown
	}
	return slices.Clone(f.teams[id]), nil
}

// AttemptStore

func (f *fakeStore) GetSidequest(_ context.Context, id uuid.UUID) (model.Sidequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sq, ok := f.sidequests[id]
	if !ok {
		return model.Sidequest{}, notFound("sidequest", id)
	}
	return sq, nil
}

func (f *fakeStore) ListSidequests(_ context.Context, eventID uuid.UUID) ([]model.Sidequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Sidequest
	for _, sq := range f.sidequests {
		if sq.EventID == eventID {
			out = append(out, sq)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAttemptsBySidequest(_ context.Context, id uuid.UUID, w repository.Window) ([]model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.SidequestID == id && inWindow(w, a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAttemptsByUser(_ context.Context, userID, eventID uuid.UUID, w repository.Window) ([]model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID && f.sidequests[a.SidequestID].EventID == eventID && inWindow(w, a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) LatestAttempt(_ context.Context, userID, eventID uuid.UUID) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.Attempt
	for i, a := range f.attempts {
		if a.UserID != userID || f.sidequests[a.SidequestID].EventID != eventID {
			continue
		}
		if latest == nil || a.AttemptedAt.After(latest.AttemptedAt) {
			latest = &f.attempts[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeStore) InsertAttempt(_ context.Context, a model.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, a)
	return nil
}

// JudgingStore

func (f *fakeStore) ListExpertRatings(_ context.Context, eventID uuid.UUID) ([]model.ExpertRating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ratings[eventID]), nil
}

func (f *fakeStore) GetTechnicalQuestion(_ context.Context, id uuid.UUID) (model.TechnicalQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return model.TechnicalQuestion{}, notFound("technical question", id)
	}
	return q, nil
}

func (f *fakeStore) ListTechnicalQuestions(_ context.Context, eventID uuid.UUID) ([]model.TechnicalQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.TechnicalQuestion
	for _, q := range f.questions {
		if q.EventID == eventID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTechnicalResults(_ context.Context, eventID uuid.UUID) ([]model.TechnicalResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.TechnicalResult
	for _, r := range f.results {
		if f.questions[r.QuestionID].EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertTechnicalResult(_ context.Context, r model.TechnicalResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[[2]uuid.UUID{r.TeamID, r.QuestionID}] = r
	return nil
}

func (f *fakeStore) ListVotes(_ context.Context, eventID uuid.UUID) ([]model.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.votes[eventID]), nil
}

func (f *fakeStore) UpsertVote(_ context.Context, v model.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	votes := f.votes[v.EventID]
	for i, existing := range votes {
		if existing.VoterID == v.VoterID && existing.Rank == v.Rank {
			votes[i] = v
			return nil
		}
	}
	f.votes[v.EventID] = append(votes, v)
	return nil
}

// SnapshotStore

func (f *fakeStore) InsertSnapshots(_ context.Context, rows []model.ScoreSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, rows...)
	return nil
}

func (f *fakeStore) ListSnapshots(_ context.Context, eventID uuid.UUID, w repository.Window) ([]model.ScoreSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	teamIDs := map[uuid.UUID]bool{}
	for _, t := range f.teams[eventID] {
		teamIDs[t.ID] = true
	}
	var out []model.ScoreSnapshot
	for _, r := range f.snapshots {
		if !teamIDs[r.TeamID] {
			continue
		}
		if w.After != nil && r.ValidAt.Before(*w.After) {
			continue
		}
		if w.Before != nil && !r.ValidAt.Before(*w.Before) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ValidAt.Before(out[j].ValidAt) })
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) snapshotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snapshots)
}
