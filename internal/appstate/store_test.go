package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stampcard/internal/cache"
	"stampcard/internal/models"
	"stampcard/internal/seed"
	"stampcard/internal/storage"
)

func newSeededStore(t *testing.T) (*Store, storage.Provider) {
	t.Helper()

	provider := storage.NewJSONStore("")
	require.NoError(t, provider.Init())
	t.Cleanup(func() { provider.Close() })
	require.NoError(t, seed.Bootstrap(provider))

	return New(provider, cache.New(cache.DefaultTTL)), provider
}

func trainerByName(t *testing.T, trainers []models.Trainer, name string) models.Trainer {
	t.Helper()
	for _, tr := range trainers {
		if tr.Name == name {
			return tr
		}
	}
	t.Fatalf("no trainer named %q", name)
	return models.Trainer{}
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	state, provider := newSeededStore(t)

	goal := models.Goal{ID: models.GoalID("g1"), Title: "Run", IsActive: true}
	require.NoError(t, provider.AddGoal(goal))

	ch, cancel := state.Subscribe()
	defer cancel()

	require.NoError(t, state.Refresh())

	select {
	case snap := <-ch:
		require.Len(t, snap.Goals, 1)
		assert.Equal(t, goal.ID, snap.Goals[0].ID)
		assert.Len(t, snap.Trainers, 5)
		require.NotNil(t, snap.SelectedTrainer)
		assert.True(t, snap.SelectedTrainer.IsSelected)
	default:
		t.Fatal("no snapshot delivered")
	}

	assert.Equal(t, state.Current().Goals[0].ID, goal.ID)
}

func TestSubscriberKeepsLatestSnapshot(t *testing.T) {
	state, provider := newSeededStore(t)

	ch, cancel := state.Subscribe()
	defer cancel()

	// Two refreshes without a read in between: the slow subscriber must
	// see the latest state, not the first one.
	require.NoError(t, state.Refresh())
	require.NoError(t, provider.AddGoal(models.Goal{ID: models.GoalID("g1"), Title: "Run", IsActive: true}))
	state.cache.Clear()
	require.NoError(t, state.Refresh())

	select {
	case snap := <-ch:
		assert.Len(t, snap.Goals, 1, "stale snapshot was not replaced")
	default:
		t.Fatal("no snapshot delivered")
	}
}

func TestCancelUnsubscribes(t *testing.T) {
	state, _ := newSeededStore(t)

	ch, cancel := state.Subscribe()
	cancel()

	require.NoError(t, state.Refresh())

	select {
	case <-ch:
		t.Fatal("cancelled subscriber still received a snapshot")
	default:
	}
}

func TestSelectTrainer(t *testing.T) {
	state, provider := newSeededStore(t)
	require.NoError(t, state.Refresh())

	trainers, err := provider.ListTrainers()
	require.NoError(t, err)
	target := trainerByName(t, trainers, "シズク")
	require.False(t, target.IsSelected)

	require.NoError(t, state.SelectTrainer(target.ID))

	trainers, err = provider.ListTrainers()
	require.NoError(t, err)
	selected := 0
	for _, tr := range trainers {
		if tr.IsSelected {
			selected++
			assert.Equal(t, target.ID, tr.ID)
		}
	}
	assert.Equal(t, 1, selected, "exactly one trainer is selected")

	// The refresh ran as part of the selection.
	snap := state.Current()
	require.NotNil(t, snap.SelectedTrainer)
	assert.Equal(t, target.ID, snap.SelectedTrainer.ID)
}

func TestSelectTrainerCoversNewlyAddedTrainer(t *testing.T) {
	state, provider := newSeededStore(t)
	require.NoError(t, state.Refresh())

	// A trainer added behind the store's back (cache and snapshot are
	// both stale) must still be part of the clear-all-then-set-one pass:
	// the selection reads the trainer list inside its own transaction.
	extra := models.Trainer{ID: models.TrainerID("extra"), Name: "ユイ", Type: models.TrainerCalm, IsSelected: true}
	require.NoError(t, provider.AddTrainer(extra))

	trainers, err := provider.ListTrainers()
	require.NoError(t, err)
	target := trainerByName(t, trainers, "ゴウ")

	require.NoError(t, state.SelectTrainer(target.ID))

	trainers, err = provider.ListTrainers()
	require.NoError(t, err)
	selected := 0
	for _, tr := range trainers {
		if tr.IsSelected {
			selected++
			assert.Equal(t, target.ID, tr.ID)
		}
	}
	assert.Equal(t, 1, selected, "the late-added trainer was deselected too")
}

func TestSelectTrainerUnknown(t *testing.T) {
	state, provider := newSeededStore(t)

	err := state.SelectTrainer(models.TrainerID("missing"))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	trainers, err := provider.ListTrainers()
	require.NoError(t, err)
	selected := 0
	for _, tr := range trainers {
		if tr.IsSelected {
			selected++
		}
	}
	assert.Equal(t, 1, selected, "selection is untouched on failure")
}

func TestRefreshDegradesToEmpty(t *testing.T) {
	state := New(storage.NewNullStore(), cache.New(cache.DefaultTTL))

	require.NoError(t, state.Refresh())

	snap := state.Current()
	assert.Empty(t, snap.Goals)
	assert.Empty(t, snap.Trainers)
	assert.Nil(t, snap.SelectedTrainer)
}
