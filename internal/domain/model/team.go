package model

import "github.com/google/uuid"

// Team is a competing team with its roster as of read time.
type Team struct {
	ID      uuid.UUID `db:"id" json:"id"`
	EventID uuid.UUID `db:"event_id" json:"event_id"`
	Name    string    `db:"name" json:"name"`
	// ExtraScore is a manually granted bonus; nil means none.
	ExtraScore *float64 `db:"extra_score" json:"extra_score,omitempty"`
	// Members holds the user ids with role Member.
	Members []uuid.UUID `db:"-" json:"members"`
}

// Bonus returns the team's extra score, or 0 when none was granted.
func (t Team) Bonus() float64 {
	if t.ExtraScore == nil {
		return 0
	}
	return *t.ExtraScore
}
