// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEventNotHacking is returned when an operation that needs the Hacking
// phase is attempted on an event in any other phase.
var ErrEventNotHacking = errors.New("event is not in the hacking phase")

// ErrUnknownPhase is returned when a phase string cannot be parsed.
var ErrUnknownPhase = errors.New("unknown event phase")

// Phase is the lifecycle state of an event.
type Phase string

// Event phases in lifecycle order.
const (
	PhaseRegistration Phase = "registration"
	PhaseHacking      Phase = "hacking"
	PhaseJudging      Phase = "judging"
	PhaseFinished     Phase = "finished"
)

// ParsePhase parses a phase name case-insensitively.
func ParsePhase(s string) (Phase, error) {
	switch p := Phase(strings.ToLower(strings.TrimSpace(s))); p {
	case PhaseRegistration, PhaseHacking, PhaseJudging, PhaseFinished:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
}

// IsActive reports whether the phase is the active competition phase.
// It is the only predicate deciding both attempt creation and snapshotting.
func (p Phase) IsActive() bool {
	return p == PhaseHacking
}

// Event is the read-only event configuration consumed by scoring.
type Event struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
	// Phase gates attempt creation and snapshotting.
	Phase Phase `db:"phase" json:"phase"`
	// SidequestCooldownMinutes is the minimum gap between two attempts of one user.
	SidequestCooldownMinutes int `db:"sidequest_cooldown" json:"sidequest_cooldown"`
}

// SidequestCooldown returns the configured cooldown as a duration.
func (e Event) SidequestCooldown() time.Duration {
	if e.SidequestCooldownMinutes <= 0 {
		return 0
	}
	return time.Duration(e.SidequestCooldownMinutes) * time.Minute
}

// AcceptsAttempts reports whether new sidequest attempts may be recorded.
func (e Event) AcceptsAttempts() bool {
	return e.Phase.IsActive()
}

// RequireActive returns ErrEventNotHacking unless the event is in its active phase.
func (e Event) RequireActive() error {
	if !e.Phase.IsActive() {
		return fmt.Errorf("%w: event %s is in phase %q", ErrEventNotHacking, e.ID, e.Phase)
	}
	return nil
}
