package scoring

import (
	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// ExpertWeights are the fixed weights of each expert category.
var ExpertWeights = map[model.ExpertCategory]float64{
	model.ExpertCategoryProduct:      0.7,
	model.ExpertCategoryPresentation: 0.3,
}

// ExpertAggregate is a team's expert panel result.
type ExpertAggregate struct {
	Raw           float64                          `json:"raw"`
	CategoryMeans map[model.ExpertCategory]float64 `json:"category_means"`
}

// RawScore implements rawScorer.
func (a ExpertAggregate) RawScore() float64 { return a.Raw }

// AggregateExpert averages ratings per team and category and weights the
// means. A missing category contributes 0. Unknown categories are ignored.
func AggregateExpert(ratings []model.ExpertRating) map[uuid.UUID]ExpertAggregate {
	type acc struct {
		sum float64
		n   int
	}
	byTeam := make(map[uuid.UUID]map[model.ExpertCategory]*acc)
	for _, r := range ratings {
		if _, ok := ExpertWeights[r.Category]; !ok {
			continue
		}
		cats, ok := byTeam[r.TeamID]
		if !ok {
			cats = make(map[model.ExpertCategory]*acc)
			byTeam[r.TeamID] = cats
		}
		a, ok := cats[r.Category]
		if !ok {
			a = &acc{}
			cats[r.Category] = a
		}
		a.sum += r.Rating
		a.n++
	}

	out := make(map[uuid.UUID]ExpertAggregate, len(byTeam))
	for team, cats := range byTeam {
		agg := ExpertAggregate{CategoryMeans: make(map[model.ExpertCategory]float64, len(cats))}
		for cat, a := range cats {
			mean := a.sum / float64(a.n)
			agg.CategoryMeans[cat] = mean
			agg.Raw += mean * ExpertWeights[cat]
		}
		out[team] = agg
	}
	return out
}
