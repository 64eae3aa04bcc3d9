package scoring

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// CategoryScore is one normalized category result of a team.
type CategoryScore struct {
	Score float64 `json:"score"`
	Raw   float64 `json:"raw"`
	Rank  int     `json:"rank"`
}

// ExpertScore adds the per-category means to the expert result.
type ExpertScore struct {
	CategoryScore
	CategoryMeans map[model.ExpertCategory]float64 `json:"category_means"`
}

// TechnicalScore adds answer progress to the technical result.
type TechnicalScore struct {
	CategoryScore
	Answered    int  `json:"answered"`
	AllAnswered bool `json:"all_answered"`
}

// VotingScore adds the vote histogram to the voting result.
type VotingScore struct {
	CategoryScore
	VotesByRank map[int]int `json:"votes_by_rank"`
}

// ScoreNormalized is a team's complete leaderboard row. A nil category
// means the team had no comparable data in it.
type ScoreNormalized struct {
	TeamID    uuid.UUID       `json:"team_id"`
	TeamName  string          `json:"team_name"`
	Technical *TechnicalScore `json:"technical,omitempty"`
	Expert    *ExpertScore    `json:"expert,omitempty"`
	Sidequest *CategoryScore  `json:"sidequest,omitempty"`
	Voting    *VotingScore    `json:"voting,omitempty"`
	Bonus     float64         `json:"bonus"`
	Final     float64         `json:"final"`
	MaxFinal  float64         `json:"max_final"`
	Rank      int             `json:"rank"`
}

// CombineInput carries the raw category results of one event.
type CombineInput struct {
	Teams     []model.Team
	Sidequest TeamScores
	Expert    map[uuid.UUID]ExpertAggregate
	Technical map[uuid.UUID]TechnicalAggregate
	Voting    map[uuid.UUID]VotingAggregate
}

type normalizedCategory struct {
	raw   TeamScores
	score TeamScores
	rank  map[uuid.UUID]int
}

func (c normalizedCategory) get(id uuid.UUID) (CategoryScore, bool) {
	s, ok := c.score[id]
	if !ok {
		return CategoryScore{}, false
	}
	return CategoryScore{Score: s, Raw: c.raw[id], Rank: c.rank[id]}, true
}

func normalizeCategory(name string, raw TeamScores, known map[uuid.UUID]struct{}, upperBound float64) (normalizedCategory, error) {
	filtered := make(TeamScores, len(raw))
	for id, v := range raw {
		if _, ok := known[id]; ok {
			filtered[id] = v
		}
	}
	score, err := Normalize(filtered, upperBound)
	if err != nil {
		return normalizedCategory{}, fmt.Errorf("normalize %s: %w", name, err)
	}
	return normalizedCategory{raw: filtered, score: score, rank: Rank(score)}, nil
}

// Combine normalizes every category, sums them with the unnormalized bonus
// and ranks the teams. The result is sorted by rank ascending.
func Combine(in CombineInput) ([]ScoreNormalized, error) {
	known := make(map[uuid.UUID]struct{}, len(in.Teams))
	for _, t := range in.Teams {
		known[t.ID] = struct{}{}
	}

	sidequest, err := normalizeCategory("sidequest", in.Sidequest, known, UpperBoundSidequest)
	if err != nil {
		return nil, err
	}
	expert, err := normalizeCategory("expert", Raws(in.Expert), known, UpperBoundExpert)
	if err != nil {
		return nil, err
	}
	technical, err := normalizeCategory("technical", Raws(in.Technical), known, UpperBoundTechnical)
	if err != nil {
		return nil, err
	}
	voting, err := normalizeCategory("voting", Raws(in.Voting), known, UpperBoundVoting)
	if err != nil {
		return nil, err
	}

	rows := make([]ScoreNormalized, 0, len(in.Teams))
	finals := make(TeamScores, len(in.Teams))
	for _, team := range sortedTeams(in.Teams) {
		row := ScoreNormalized{TeamID: team.ID, TeamName: team.Name, Bonus: team.Bonus()}

		if cs, ok := technical.get(team.ID); ok {
			agg := in.Technical[team.ID]
			row.Technical = &TechnicalScore{CategoryScore: cs, Answered: agg.Answered, AllAnswered: agg.AllAnswered}
			row.Final += cs.Score
		}
		if cs, ok := expert.get(team.ID); ok {
			row.Expert = &ExpertScore{CategoryScore: cs, CategoryMeans: in.Expert[team.ID].CategoryMeans}
			row.Final += cs.Score
		}
		if cs, ok := sidequest.get(team.ID); ok {
			row.Sidequest = &cs
			row.Final += cs.Score
		}
		if cs, ok := voting.get(team.ID); ok {
			row.Voting = &VotingScore{CategoryScore: cs, VotesByRank: in.Voting[team.ID].VotesByRank}
			row.Final += cs.Score
		}
		row.Final += row.Bonus

		finals[team.ID] = row.Final
		rows = append(rows, row)
	}

	ranks := Rank(finals)
	maxFinal := 0.0
	for i, row := range rows {
		if i == 0 || row.Final > maxFinal {
			maxFinal = row.Final
		}
	}
	for i := range rows {
		rows[i].Rank = ranks[rows[i].TeamID]
		rows[i].MaxFinal = maxFinal
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	return rows, nil
}

// sortedTeams returns a copy of teams in name order, giving ties a stable order.
func sortedTeams(teams []model.Team) []model.Team {
	out := slices.Clone(teams)
	slices.SortFunc(out, func(a, b model.Team) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}
