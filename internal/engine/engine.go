// Package engine holds the progress-tracking core: transactional stamp
// recording with streak bookkeeping, goal lifecycle operations, and the
// cached statistics queries built on top of them.
package engine

import (
	"time"

	"github.com/google/uuid"

	"stampcard/internal/cache"
	"stampcard/internal/logger"
	"stampcard/internal/models"
	"stampcard/internal/storage"
	"stampcard/internal/utils"
)

const (
	cacheKeyGoals = "goals:active"
)

// Service owns the streak/progress logic. It is constructed once at
// startup and passed by handle to its consumers.
type Service struct {
	store storage.Provider
	cache *cache.Cache
	now   func() time.Time
}

func New(store storage.Provider, c *cache.Cache) *Service {
	return &Service{
		store: store,
		cache: c,
		now:   time.Now,
	}
}

// GoalInput carries the caller-editable fields for goal creation.
type GoalInput struct {
	Title         string
	Category      string
	Motivation    string
	Difficulty    int // 1-5; 0 defaults to 3
	TargetEndDate *time.Time
}

// GoalUpdate carries optional field edits; nil fields are left unchanged.
// Counter fields are deliberately absent: only RecordStamp moves them.
type GoalUpdate struct {
	Title         *string
	Category      *string
	Motivation    *string
	Difficulty    *int
	IsActive      *bool
	TargetEndDate *time.Time
}

// StampInput carries the caller-supplied attributes of a completion.
type StampInput struct {
	Type string
	Mood string
	Note string
}

func (s *Service) CreateGoal(in GoalInput) (models.Goal, error) {
	difficulty := in.Difficulty
	if difficulty == 0 {
		difficulty = 3
	}

	goal := models.Goal{
		ID:            models.GoalID(uuid.New().String()),
		Title:         in.Title,
		Category:      in.Category,
		Motivation:    in.Motivation,
		IsActive:      true,
		Difficulty:    difficulty,
		CreatedAt:     s.now(),
		TargetEndDate: in.TargetEndDate,
	}

	if err := s.store.AddGoal(goal); err != nil {
		return models.Goal{}, err
	}
	s.cache.Clear()
	return goal, nil
}

func (s *Service) GetGoal(id models.GoalID) (models.Goal, error) {
	return s.store.GetGoal(id)
}

// ListGoals returns the active goals through the read cache. Per the
// read-path policy, a storage error degrades to an empty list with a
// logged warning so the caller stays usable.
func (s *Service) ListGoals() []models.Goal {
	if v, ok := s.cache.Get(cacheKeyGoals); ok {
		if goals, ok := v.([]models.Goal); ok {
			return goals
		}
	}

	goals, err := s.store.ListGoals(false)
	if err != nil {
		logger.Warn("failed to list goals, returning empty", "error", err)
		return nil
	}
	s.cache.Set(cacheKeyGoals, goals)
	return goals
}

func (s *Service) UpdateGoal(id models.GoalID, upd GoalUpdate) (models.Goal, error) {
	goal, err := s.store.GetGoal(id)
	if err != nil {
		return models.Goal{}, err
	}

	if upd.Title != nil {
		goal.Title = *upd.Title
	}
	if upd.Category != nil {
		goal.Category = *upd.Category
	}
	if upd.Motivation != nil {
		goal.Motivation = *upd.Motivation
	}
	if upd.Difficulty != nil {
		goal.Difficulty = *upd.Difficulty
	}
	if upd.IsActive != nil {
		goal.IsActive = *upd.IsActive
	}
	if upd.TargetEndDate != nil {
		goal.TargetEndDate = upd.TargetEndDate
	}

	if err := s.store.UpdateGoal(goal); err != nil {
		return models.Goal{}, err
	}
	s.cache.Clear()
	return goal, nil
}

func (s *Service) DeleteGoal(id models.GoalID) error {
	if err := s.store.DeleteGoal(id); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

func (s *Service) RestoreGoal(id models.GoalID) error {
	if err := s.store.RestoreGoal(id); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// RecordStamp records one completion for the goal: the streak counters
// are recomputed against the goal's pre-mutation LastStampDate, and the
// goal update plus the stamp insert are applied in a single write
// transaction. The goal is read inside that same transaction, so the
// full read-modify-write runs serialized: two concurrent calls cannot
// base their counters on the same pre-state.
//
// A second stamp on the same calendar day is not rejected: TotalStamps
// still increments and, because the last stamp date is neither absent nor
// yesterday, CurrentStreak resets to 1 (BestStreak is retained). This
// mirrors the shipped app behavior and is pinned by a test.
func (s *Service) RecordStamp(id models.GoalID, in StampInput) (models.Goal, error) {
	now := s.now()
	today := utils.DayOf(now)
	yesterday := today.AddDate(0, 0, -1)

	var goal models.Goal
	err := s.store.WriteTx(func(tx storage.Tx) error {
		var err error
		goal, err = tx.GetGoal(id)
		if err != nil {
			return err
		}

		switch {
		case goal.LastStampDate == nil:
			goal.CurrentStreak = 1
		case utils.SameDay(*goal.LastStampDate, yesterday):
			goal.CurrentStreak++
		default:
			// Gap of two or more days, or a stamp already recorded today.
			goal.CurrentStreak = 1
		}
		if goal.CurrentStreak > goal.BestStreak {
			goal.BestStreak = goal.CurrentStreak
		}
		goal.TotalStamps++
		goal.LastStampDate = &now

		stamp := models.Stamp{
			ID:         models.StampID(uuid.New().String()),
			GoalID:     goal.ID,
			Date:       today,
			StampedAt:  now,
			Type:       in.Type,
			Mood:       in.Mood,
			Difficulty: goal.Difficulty,
			Note:       in.Note,
		}

		if err := tx.PutGoal(goal); err != nil {
			return err
		}
		return tx.AddStamp(stamp)
	})
	if err != nil {
		return models.Goal{}, err
	}

	s.cache.Clear()
	logger.Debug("stamp recorded",
		"goal", goal.ID, "streak", goal.CurrentStreak, "total", goal.TotalStamps)
	return goal, nil
}

// Stamps returns the goal's stamps, newest first.
func (s *Service) Stamps(id models.GoalID, limit int) ([]models.Stamp, error) {
	return s.store.QueryStamps(storage.StampQuery{
		GoalID: id,
		Newest: true,
		Limit:  limit,
	})
}
