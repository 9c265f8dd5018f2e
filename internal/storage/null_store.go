package storage

import (
	"fmt"

	"stampcard/internal/models"
)

// NullStore is the degraded-mode backend installed when the selected
// backend fails to initialize. Reads return empty collections so the UI
// stays usable; writes fail fast with ErrStorageUnavailable.
type NullStore struct{}

func NewNullStore() *NullStore { return &NullStore{} }

func (s *NullStore) Init() error  { return nil }
func (s *NullStore) Close() error { return nil }
func (s *NullStore) Kind() string { return "null" }

func (s *NullStore) AddGoal(models.Goal) error { return ErrStorageUnavailable }

func (s *NullStore) GetGoal(id models.GoalID) (models.Goal, error) {
	return models.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
}

func (s *NullStore) ListGoals(bool) ([]models.Goal, error) { return nil, nil }

func (s *NullStore) UpdateGoal(models.Goal) error { return ErrStorageUnavailable }

func (s *NullStore) DeleteGoal(models.GoalID) error { return ErrStorageUnavailable }

func (s *NullStore) RestoreGoal(models.GoalID) error { return ErrStorageUnavailable }

func (s *NullStore) AddStamp(models.Stamp) error { return ErrStorageUnavailable }

func (s *NullStore) QueryStamps(StampQuery) ([]models.Stamp, error) { return nil, nil }

func (s *NullStore) CountStamps(models.GoalID) (int, error) { return 0, nil }

func (s *NullStore) AddTrainer(models.Trainer) error { return ErrStorageUnavailable }

func (s *NullStore) GetTrainer(id models.TrainerID) (models.Trainer, error) {
	return models.Trainer{}, fmt.Errorf("trainer %s: %w", id, ErrNotFound)
}

func (s *NullStore) ListTrainers() ([]models.Trainer, error) { return nil, nil }

func (s *NullStore) UpdateTrainer(models.Trainer) error { return ErrStorageUnavailable }

func (s *NullStore) GetSettings() (models.AppSettings, error) {
	return models.AppSettings{}, ErrStorageUnavailable
}

func (s *NullStore) SaveSettings(models.AppSettings) error { return ErrStorageUnavailable }

func (s *NullStore) WriteTx(func(Tx) error) error { return ErrStorageUnavailable }

func (s *NullStore) Reset() error { return ErrStorageUnavailable }
