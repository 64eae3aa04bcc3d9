// Package cooldown decides whether a user may record another sidequest
// attempt. The check is best effort: two concurrent submissions inside one
// window can both pass. Only a user's best result counts, so a duplicate
// attempt is harmless.
package cooldown

import (
	"errors"
	"fmt"
	"time"
)

// ErrSidequestCooldown is the kind of every cooldown rejection.
var ErrSidequestCooldown = errors.New("sidequest cooldown active")

// Error rejects an attempt made before the cooldown expired.
type Error struct {
	ExpiresAt time.Time
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s until %s", ErrSidequestCooldown, e.ExpiresAt.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrSidequestCooldown) hold.
func (e *Error) Is(target error) bool {
	return target == ErrSidequestCooldown
}

// Status is the cooldown state of a user in an event.
type Status struct {
	Duration    time.Duration `json:"duration"`
	LastAttempt *time.Time    `json:"last_attempt,omitempty"`
	NextAttempt *time.Time    `json:"next_attempt,omitempty"`
}

// Active reports whether a new attempt would be rejected.
func (s Status) Active() bool {
	return s.NextAttempt != nil
}

// Check returns the cooldown error for an active status, or nil.
func (s Status) Check() error {
	if s.NextAttempt == nil {
		return nil
	}
	return &Error{ExpiresAt: *s.NextAttempt}
}

// Evaluate computes the status from the event's cooldown, the user's most
// recent attempt across all sidequests of the event (nil if none) and now.
// NextAttempt is set only while lastAttempt+duration is still in the future.
func Evaluate(duration time.Duration, lastAttempt *time.Time, now time.Time) Status {
	s := Status{Duration: duration}
	if lastAttempt == nil {
		return s
	}
	last := *lastAttempt
	s.LastAttempt = &last

	next := last.Add(duration)
	if next.After(now) {
		s.NextAttempt = &next
	}
	return s
}
