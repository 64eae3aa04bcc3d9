package scoring

import (
	"cmp"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// FinalistCount is how many expert-panel teams lead the merged overview.
const FinalistCount = 3

// OverviewEntry is one row of the overview leaderboard.
type OverviewEntry struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Score    float64   `json:"score"`
}

// Overview ranks teams by raw sidequest total plus bonus, descending.
// Nothing is normalized here.
func Overview(teams []model.Team, sidequestRaw TeamScores) []OverviewEntry {
	out := make([]OverviewEntry, 0, len(teams))
	for _, team := range sortedTeams(teams) {
		out = append(out, OverviewEntry{
			TeamID:   team.ID,
			TeamName: team.Name,
			Score:    sidequestRaw[team.ID] + team.Bonus(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// MergeFinalists puts the top n teams by expert raw score first, then the
// rest of overview in its order, skipping teams already included. Only
// teams present in overview can become finalists.
func MergeFinalists(expertRaw TeamScores, overview []OverviewEntry, n int) []OverviewEntry {
	candidates := make([]OverviewEntry, 0, len(expertRaw))
	for _, e := range overview {
		if _, ok := expertRaw[e.TeamID]; ok {
			candidates = append(candidates, e)
		}
	}
	slices.SortStableFunc(candidates, func(a, b OverviewEntry) int {
		return cmp.Compare(expertRaw[b.TeamID], expertRaw[a.TeamID])
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]OverviewEntry, 0, len(overview))
	included := make(map[uuid.UUID]struct{}, len(candidates))
	for _, c := range candidates {
		out = append(out, c)
		included[c.TeamID] = struct{}{}
	}
	for _, e := range overview {
		if _, ok := included[e.TeamID]; ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
