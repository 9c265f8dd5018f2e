package models

import "time"

// StampID identifies a Stamp record.
type StampID string

// Stamp is one completion event for a Goal. Stamps are immutable once
// created; they are only ever removed by a full reset.
type Stamp struct {
	ID         StampID   `json:"id"`
	GoalID     GoalID    `json:"goal_id"`
	Date       time.Time `json:"date"` // calendar day of completion, midnight local time
	StampedAt  time.Time `json:"stamped_at"`
	Type       string    `json:"type,omitempty"` // free-form completion tag, e.g. "done", "partial"
	Mood       string    `json:"mood,omitempty"`
	Difficulty int       `json:"difficulty"` // snapshot of the goal's difficulty at stamp time
	Note       string    `json:"note,omitempty"`
}
