package scoring

import (
	"github.com/google/uuid"
	"github.com/okian/hackboard/internal/domain/model"
)

// RankScore is the weight of one vote at the given rank.
func RankScore(rank int) float64 {
	switch rank {
	case 1:
		return 5
	case 2:
		return 3
	case 3:
		return 1
	default:
		return 0
	}
}

// VotingAggregate is a team's public vote result.
type VotingAggregate struct {
	Raw         float64     `json:"raw"`
	VotesByRank map[int]int `json:"votes_by_rank"`
}

// RawScore implements rawScorer.
func (a VotingAggregate) RawScore() float64 { return a.Raw }

// AggregateVotes computes sum(votes at rank * RankScore(rank)) per team.
func AggregateVotes(votes []model.Vote) map[uuid.UUID]VotingAggregate {
	out := make(map[uuid.UUID]VotingAggregate)
	for _, v := range votes {
		agg, ok := out[v.TeamID]
		if !ok {
			agg.VotesByRank = make(map[int]int)
		}
		agg.VotesByRank[v.Rank]++
		agg.Raw += RankScore(v.Rank)
		out[v.TeamID] = agg
	}
	return out
}
