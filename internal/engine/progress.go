package engine

import (
	"time"

	"stampcard/internal/models"
	"stampcard/internal/utils"
)

// IsCompletedToday reports whether the goal's last stamp falls on today's
// calendar date in local time.
func (s *Service) IsCompletedToday(g models.Goal) bool {
	return IsCompletedOn(g, s.now())
}

// IsCompletedOn is the pure form of IsCompletedToday for an arbitrary day.
func IsCompletedOn(g models.Goal, day time.Time) bool {
	return g.LastStampDate != nil && utils.SameDay(*g.LastStampDate, day)
}

// ProgressPercentage relates accumulated stamps to the number of days
// between creation and the target end date (partial days rounded up).
// Goals without a target report 0. The value is unclamped: more than one
// stamp per day pushes it past 100, which is meaningful over-performance.
func ProgressPercentage(g models.Goal) float64 {
	if g.TargetEndDate == nil {
		return 0
	}
	days := utils.DaysBetweenCeil(g.CreatedAt, *g.TargetEndDate)
	if days == 0 {
		return 0
	}
	return float64(g.TotalStamps) / float64(days) * 100
}
