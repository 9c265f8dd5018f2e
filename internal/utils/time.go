package utils

import "time"

// DateFormat is the standard calendar-day format used throughout the app.
const DateFormat = "2006-01-02"

// DayOf truncates an instant to midnight of its calendar day, keeping the
// instant's location. All streak arithmetic works on calendar days.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day,
// compared in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetweenCeil returns the number of days from a to b, rounding any
// partial day up. Returns 0 when b is not after a.
func DaysBetweenCeil(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	d := b.Sub(a)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ParseClock parses an HH:MM time-of-day string.
func ParseClock(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}

// ParseDay parses a YYYY-MM-DD string as midnight in the given location.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
