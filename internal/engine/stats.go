package engine

import (
	"fmt"
	"time"

	"stampcard/internal/models"
	"stampcard/internal/storage"
	"stampcard/internal/utils"
)

// Summary is the aggregate view of one goal's progress.
type Summary struct {
	GoalID         models.GoalID
	Title          string
	TotalStamps    int
	CurrentStreak  int
	BestStreak     int
	CompletedToday bool
	Progress       float64 // percent, unclamped
}

// DayCount is one day's stamp tally.
type DayCount struct {
	Day   time.Time
	Count int
}

// Summary builds the aggregate view for a goal, served through the read
// cache under a per-goal key.
func (s *Service) Summary(id models.GoalID) (Summary, error) {
	key := fmt.Sprintf("stats:summary:%s", id)
	if v, ok := s.cache.Get(key); ok {
		if sum, ok := v.(Summary); ok {
			return sum, nil
		}
	}

	goal, err := s.store.GetGoal(id)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		GoalID:         goal.ID,
		Title:          goal.Title,
		TotalStamps:    goal.TotalStamps,
		CurrentStreak:  goal.CurrentStreak,
		BestStreak:     goal.BestStreak,
		CompletedToday: s.IsCompletedToday(goal),
		Progress:       ProgressPercentage(goal),
	}
	s.cache.Set(key, sum)
	return sum, nil
}

// WeeklyActivity tallies the goal's stamps per day over the trailing
// seven calendar days, oldest first. Served through the read cache.
func (s *Service) WeeklyActivity(id models.GoalID) ([]DayCount, error) {
	key := fmt.Sprintf("stats:weekly:%s", id)
	if v, ok := s.cache.Get(key); ok {
		if counts, ok := v.([]DayCount); ok {
			return counts, nil
		}
	}

	today := utils.DayOf(s.now())
	from := today.AddDate(0, 0, -6)

	stamps, err := s.store.QueryStamps(storage.StampQuery{
		GoalID: id,
		From:   from,
		To:     today,
	})
	if err != nil {
		return nil, err
	}

	counts := make([]DayCount, 7)
	for i := range counts {
		counts[i].Day = from.AddDate(0, 0, i)
	}
	for _, st := range stamps {
		for i := range counts {
			if utils.SameDay(st.Date, counts[i].Day) {
				counts[i].Count++
				break
			}
		}
	}

	s.cache.Set(key, counts)
	return counts, nil
}
