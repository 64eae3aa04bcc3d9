package scoring

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// TechnicalAggregate is a team's technical question result.
type TechnicalAggregate struct {
	Raw         float64 `json:"raw"`
	Answered    int     `json:"answered"`
	Questions   int     `json:"questions"`
	AllAnswered bool    `json:"all_answered"`
}

// RawScore implements rawScorer.
func (a TechnicalAggregate) RawScore() float64 { return a.Raw }

// AggregateTechnical sums awarded points per team over the event's
// questions. Only teams with at least one answered question appear.
func AggregateTechnical(questions []model.TechnicalQuestion, results []model.TechnicalResult) map[uuid.UUID]TechnicalAggregate {
	known := make(map[uuid.UUID]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	out := make(map[uuid.UUID]TechnicalAggregate)
	for _, r := range results {
		if !r.Answered() {
			continue
		}
		if _, ok := known[r.QuestionID]; !ok {
			continue
		}
		agg := out[r.TeamID]
		agg.Raw += *r.Points
		agg.Answered++
		out[r.TeamID] = agg
	}
	for id, agg := range out {
		agg.Questions = len(questions)
		agg.AllAnswered = agg.Answered == len(questions)
		out[id] = agg
	}
	return out
}

// ValidateTechnicalPoints checks an award against the question's legal
// values: exactly a bound for binary questions, within bounds otherwise.
func ValidateTechnicalPoints(q model.TechnicalQuestion, points float64) error {
	if q.Binary {
		if points != q.MinPoints && points != q.MaxPoints {
			return fmt.Errorf("%w: question %s accepts only %v or %v, got %v",
				ErrWrongTechnicalQuestionPoints, q.ID, q.MinPoints, q.MaxPoints, points)
		}
		return nil
	}
	if points < q.MinPoints || points > q.MaxPoints {
		return fmt.Errorf("%w: question %s accepts [%v, %v], got %v",
			ErrWrongTechnicalQuestionPoints, q.ID, q.MinPoints, q.MaxPoints, points)
	}
	return nil
}
