package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scoring errors.
var (
	ErrScoreCalculation             = errors.New("score calculation failed")
	ErrWrongTechnicalQuestionPoints = errors.New("wrong technical question points")
)

// CalculationError reports a raw score set the normalizer cannot handle.
type CalculationError struct {
	Message string
}

// Error implements error.
func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrScoreCalculation, e.Message)
}

// Is makes errors.Is(err, ErrScoreCalculation) hold.
func (e *CalculationError) Is(target error) bool {
	return target == ErrScoreCalculation
}
