// Package scoring turns raw hackathon signals into comparable per-team
// scores and ranks.
//
// Every function in this package is pure: callers fetch raw signals, pass
// them in and get fresh results back. Nothing is cached between calls, so
// the live leaderboard and the snapshot series share one code path.
package scoring

import "github.com/google/uuid"

// Upper bounds each category is normalized onto.
const (
	UpperBoundSidequest = 10.0
	UpperBoundExpert    = 30.0
	UpperBoundTechnical = 20.0
	UpperBoundVoting    = 30.0
)

// TeamScores maps a team id to a score in some category's units.
type TeamScores map[uuid.UUID]float64

// rawScorer is implemented by per-category aggregates.
type rawScorer interface {
	RawScore() float64
}

// Raws projects per-team aggregates onto their raw scores.
func Raws[T rawScorer](aggregates map[uuid.UUID]T) TeamScores {
	out := make(TeamScores, len(aggregates))
	for id, a := range aggregates {
		out[id] = a.RawScore()
	}
	return out
}
