package scoring

import (
	"slices"

	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// SidequestAttempts bundles a sidequest with every attempt recorded for it.
type SidequestAttempts struct {
	Sidequest model.Sidequest
	Attempts  []model.Attempt
}

// BestResults returns each user's best result for the sidequest.
func BestResults(sq model.Sidequest, attempts []model.Attempt) map[uuid.UUID]float64 {
	best := make(map[uuid.UUID]float64)
	for _, a := range attempts {
		cur, ok := best[a.UserID]
		if !ok || sq.Better(a.Result, cur) {
			best[a.UserID] = a.Result
		}
	}
	return best
}

// SidequestUserPoints awards points by rank of distinct best result. The
// best group gets participants points, every following distinct result one
// point less, never below zero. Tied users get the same points.
func SidequestUserPoints(sq model.Sidequest, attempts []model.Attempt, participants int) map[uuid.UUID]float64 {
	best := BestResults(sq, attempts)

	distinct := make([]float64, 0, len(best))
	for _, v := range best {
		if !slices.Contains(distinct, v) {
			distinct = append(distinct, v)
		}
	}
	slices.SortFunc(distinct, func(a, b float64) int {
		switch {
		case sq.Better(a, b):
			return -1
		case sq.Better(b, a):
			return 1
		default:
			return 0
		}
	})

	pointsByResult := make(map[float64]float64, len(distinct))
	for i, v := range distinct {
		pointsByResult[v] = float64(max(participants-i, 0))
	}

	points := make(map[uuid.UUID]float64, len(best))
	for user, v := range best {
		points[user] = pointsByResult[v]
	}
	return points
}

// TeamSidequestScores averages user points over each team's scored members.
// Teams without any scored member get 0.
func TeamSidequestScores(teams []model.Team, userPoints map[uuid.UUID]float64) TeamScores {
	out := make(TeamScores, len(teams))
	for _, team := range teams {
		sum, n := 0.0, 0
		for _, member := range team.Members {
			if p, ok := userPoints[member]; ok {
				sum += p
				n++
			}
		}
		if n == 0 {
			out[team.ID] = 0
			continue
		}
		out[team.ID] = sum / float64(n)
	}
	return out
}

// SidequestTotals sums each team's per-sidequest score across the event.
// Every team gets an entry, even when the event has no sidequests.
func SidequestTotals(teams []model.Team, sidequests []SidequestAttempts, participants int) TeamScores {
	totals := make(TeamScores, len(teams))
	for _, team := range teams {
		totals[team.ID] = 0
	}
	for _, sq := range sidequests {
		userPoints := SidequestUserPoints(sq.Sidequest, sq.Attempts, participants)
		for id, score := range TeamSidequestScores(teams, userPoints) {
			totals[id] += score
		}
	}
	return totals
}
