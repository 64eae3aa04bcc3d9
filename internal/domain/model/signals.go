package model

import (
	"time"

	"github.com/google/uuid"
)

// Sidequest is a timed challenge belonging to an event.
type Sidequest struct {
	ID      uuid.UUID `db:"id" json:"id"`
	EventID uuid.UUID `db:"event_id" json:"event_id"`
	Name    string    `db:"name" json:"name"`
	// IsHigherResultBetter picks max (true) or min (false) as the best result.
	IsHigherResultBetter bool `db:"is_higher_result_better" json:"is_higher_result_better"`
}

// Better reports whether result a beats result b for this sidequest.
func (s Sidequest) Better(a, b float64) bool {
	if s.IsHigherResultBetter {
		return a > b
	}
	return a < b
}

// Attempt is a single recorded sidequest result of a user.
type Attempt struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SidequestID uuid.UUID `db:"sidequest_id" json:"sidequest_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Result      float64   `db:"result" json:"result"`
	AttemptedAt time.Time `db:"attempted_at" json:"attempted_at"`
}

// ExpertCategory is the aspect an expert rating judges.
type ExpertCategory string

// Expert rating categories.
const (
	ExpertCategoryProduct      ExpertCategory = "product"
	ExpertCategoryPresentation ExpertCategory = "presentation"
)

// ExpertRating is one rater's score for a team in a category.
type ExpertRating struct {
	TeamID   uuid.UUID      `db:"team_id" json:"team_id"`
	RaterID  uuid.UUID      `db:"rater_id" json:"rater_id"`
	Category ExpertCategory `db:"category" json:"category"`
	Rating   float64        `db:"rating" json:"rating"`
}

// TechnicalQuestion defines the legal point range of a technical question.
type TechnicalQuestion struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	Question  string    `db:"question" json:"question"`
	MinPoints float64   `db:"min_points" json:"min_points"`
	MaxPoints float64   `db:"max_points" json:"max_points"`
	// Binary restricts awards to exactly MinPoints or MaxPoints.
	Binary bool `db:"is_binary" json:"binary"`
}

// TechnicalResult is the award of a team for one technical question.
type TechnicalResult struct {
	TeamID     uuid.UUID `db:"team_id" json:"team_id"`
	QuestionID uuid.UUID `db:"question_id" json:"question_id"`
	// Points is nil while the question is unanswered.
	Points *float64 `db:"points" json:"points,omitempty"`
}

// Answered reports whether points were awarded.
func (r TechnicalResult) Answered() bool {
	return r.Points != nil
}

// Vote is a public audience vote; (EventID, VoterID, Rank) is unique.
type Vote struct {
	EventID uuid.UUID `db:"event_id" json:"event_id"`
	VoterID uuid.UUID `db:"voter_id" json:"voter_id"`
	TeamID  uuid.UUID `db:"team_id" json:"team_id"`
	Rank    int       `db:"rank" json:"rank"`
}

// ScoreSnapshot is one append-only point of a team's raw sidequest score.
type ScoreSnapshot struct {
	TeamID  uuid.UUID `db:"team_id" json:"team_id"`
	Score   float64   `db:"score" json:"score"`
	ValidAt time.Time `db:"valid_at" json:"valid_at"`
}
