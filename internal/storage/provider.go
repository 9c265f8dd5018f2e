package storage

import (
	"time"

	"stampcard/internal/models"
)

// StampQuery selects stamps by owning goal and calendar-day range. These
// are the two access patterns the progress engine and the statistics
// queries depend on.
type StampQuery struct {
	GoalID models.GoalID // zero value matches all goals
	From   time.Time     // inclusive lower day bound; zero means unbounded
	To     time.Time     // inclusive upper day bound; zero means unbounded
	Newest bool          // sort by date descending instead of ascending
	Limit  int           // 0 means no limit
}

// Tx is the set of operations that may be composed atomically inside
// WriteTx. A reader never observes a partially applied Tx body. The read
// methods exist so that read-modify-write sequences can run entirely
// inside the serialized region: a Tx read sees the latest committed
// state plus the Tx's own writes, never a snapshot taken before the
// transaction began.
type Tx interface {
	GetGoal(id models.GoalID) (models.Goal, error)
	PutGoal(models.Goal) error
	AddStamp(models.Stamp) error
	ListTrainers() ([]models.Trainer, error)
	PutTrainer(models.Trainer) error
	PutSettings(models.AppSettings) error
}

// Provider is the uniform interface over the platform storage backends.
// Callers above this layer must not depend on which backend is active.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id models.GoalID) (models.Goal, error)
	ListGoals(includeDeleted bool) ([]models.Goal, error)
	UpdateGoal(models.Goal) error
	DeleteGoal(id models.GoalID) error // soft delete
	RestoreGoal(id models.GoalID) error

	// Stamps
	AddStamp(models.Stamp) error
	QueryStamps(StampQuery) ([]models.Stamp, error)
	CountStamps(goalID models.GoalID) (int, error)

	// Trainers
	AddTrainer(models.Trainer) error
	GetTrainer(id models.TrainerID) (models.Trainer, error)
	ListTrainers() ([]models.Trainer, error)
	UpdateTrainer(models.Trainer) error

	// Settings (singleton record)
	GetSettings() (models.AppSettings, error)
	SaveSettings(models.AppSettings) error

	// WriteTx runs fn atomically. Writers are serialized: a WriteTx issued
	// while another write is in flight queues behind it.
	WriteTx(fn func(Tx) error) error

	// Reset wipes every table. Destructive; reset-and-reseed only.
	Reset() error

	// Kind names the active backend for diagnostics ("sqlite", "json",
	// "null"). Behavior must never branch on it above this layer.
	Kind() string
}
