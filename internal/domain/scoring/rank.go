package scoring

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// TieQuantum is the fixed precision used to decide ties: values are
// multiplied by it and truncated, so scores equal to 4 decimal places tie.
const TieQuantum = 10_000

// Quantize converts a score into its tie-comparison key.
func Quantize(v float64) int64 {
	return int64(v * TieQuantum)
}

type rankedTeam struct {
	id  uuid.UUID
	key int64
}

// Rank assigns competition ranks (1, 1, 3, ...) to teams by descending value.
// Teams whose quantized values are equal share the rank of the first of them.
func Rank(values TeamScores) map[uuid.UUID]int {
	teams := make([]rankedTeam, 0, len(values))
	for id, v := range values {
		teams = append(teams, rankedTeam{id: id, key: Quantize(v)})
	}
	slices.SortFunc(teams, func(a, b rankedTeam) int {
		if c := cmp.Compare(b.key, a.key); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})

	ranks := make(map[uuid.UUID]int, len(teams))
	rank := 0
	for i, t := range teams {
		if i == 0 || t.key != teams[i-1].key {
			rank = i + 1
		}
		ranks[t.id] = rank
	}
	return ranks
}
