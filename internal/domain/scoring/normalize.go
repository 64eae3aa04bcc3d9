package scoring

import (
	"fmt"
	"math"
)

// Normalize rescales raw scores so the best team maps to upperBound and
// relative order is preserved. An empty input yields an empty result and an
// all-zero input maps every team to 0.
func Normalize(raw TeamScores, upperBound float64) (TeamScores, error) {
	out := make(TeamScores, len(raw))
	if len(raw) == 0 {
		return out, nil
	}

	maxScore := 0.0
	for id, v := range raw {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return nil, &CalculationError{Message: fmt.Sprintf("team %s has non-finite raw score %v", id, v)}
		case v < 0:
			return nil, &CalculationError{Message: fmt.Sprintf("team %s has negative raw score %v", id, v)}
		}
		if v > maxScore {
			maxScore = v
		}
	}

	if maxScore == 0 {
		for id := range raw {
			out[id] = 0
		}
		return out, nil
	}

	for id, v := range raw {
		out[id] = v / maxScore * upperBound
	}
	return out, nil
}
