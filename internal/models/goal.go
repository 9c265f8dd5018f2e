package models

import "time"

// GoalID identifies a Goal record.
type GoalID string

// Goal is a tracked habit with accumulated completion counters.
// The counters (TotalStamps, CurrentStreak, BestStreak, LastStampDate) are
// mutated only by the progress engine; direct edits are limited to the
// descriptive fields.
type Goal struct {
	ID            GoalID     `json:"id"`
	Title         string     `json:"title"`
	Category      string     `json:"category,omitempty"`
	Motivation    string     `json:"motivation,omitempty"`
	IsActive      bool       `json:"is_active"`
	Difficulty    int        `json:"difficulty"` // 1 (easy) to 5 (hard)
	CreatedAt     time.Time  `json:"created_at"`
	TargetEndDate *time.Time `json:"target_end_date,omitempty"`
	TotalStamps   int        `json:"total_stamps"`
	CurrentStreak int        `json:"current_streak"`
	BestStreak    int        `json:"best_streak"` // always >= CurrentStreak after any update
	LastStampDate *time.Time `json:"last_stamp_date,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}
