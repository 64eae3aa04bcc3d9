package service

import (
	"errors"
	"fmt"

	"github.com/okian/hackboard/internal/adapters/repository"
)

// Sentinel errors of the scoring service. Domain and store errors
// (cooldown, phase, not found) pass through wrapped.
var (
	ErrInvalidResult   = errors.New("attempt result must be a finite number")
	ErrInvalidVoteRank = errors.New("vote rank must be 1, 2 or 3")
	ErrInvalidWindow   = errors.New("window lower bound must precede its upper bound")

	// ErrTeamNotInEvent matches repository.ErrInvalidReference.
	ErrTeamNotInEvent = fmt.Errorf("team does not belong to the event: %w", repository.ErrInvalidReference)
)
