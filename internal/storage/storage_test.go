package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"stampcard/internal/models"
)

// eachStore runs a subtest against every real backend.
func eachStore(t *testing.T, fn func(t *testing.T, store Provider)) {
	t.Helper()

	backends := []struct {
		name string
		open func(t *testing.T) Provider
	}{
		{"sqlite", func(t *testing.T) Provider {
			return NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
		}},
		{"json", func(t *testing.T) Provider {
			return NewJSONStore(filepath.Join(t.TempDir(), "test.json"))
		}},
		{"memory", func(t *testing.T) Provider {
			return NewJSONStore("")
		}},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			store := b.open(t)
			if err := store.Init(); err != nil {
				t.Fatalf("failed to init %s store: %v", b.name, err)
			}
			defer store.Close()
			fn(t, store)
		})
	}
}

func testGoal(title string) models.Goal {
	return models.Goal{
		ID:         models.GoalID(uuid.New().String()),
		Title:      title,
		Category:   "health",
		IsActive:   true,
		Difficulty: 3,
		CreatedAt:  time.Now(),
	}
}

func TestGoalCRUD(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		goal := testGoal("Morning run")
		if err := store.AddGoal(goal); err != nil {
			t.Fatalf("failed to add goal: %v", err)
		}

		got, err := store.GetGoal(goal.ID)
		if err != nil {
			t.Fatalf("failed to get goal: %v", err)
		}
		if got.Title != goal.Title {
			t.Errorf("expected title %q, got %q", goal.Title, got.Title)
		}
		if got.Category != "health" {
			t.Errorf("expected category health, got %q", got.Category)
		}

		got.Title = "Evening run"
		got.TotalStamps = 4
		got.CurrentStreak = 2
		got.BestStreak = 3
		now := time.Now()
		got.LastStampDate = &now
		if err := store.UpdateGoal(got); err != nil {
			t.Fatalf("failed to update goal: %v", err)
		}

		updated, err := store.GetGoal(goal.ID)
		if err != nil {
			t.Fatalf("failed to get updated goal: %v", err)
		}
		if updated.Title != "Evening run" {
			t.Errorf("expected updated title, got %q", updated.Title)
		}
		if updated.TotalStamps != 4 || updated.CurrentStreak != 2 || updated.BestStreak != 3 {
			t.Errorf("counters not persisted: %+v", updated)
		}
		if updated.LastStampDate == nil {
			t.Fatal("expected last stamp date to round-trip")
		}
		if updated.LastStampDate.UnixMilli() != now.UnixMilli() {
			t.Errorf("last stamp date drifted: want %v, got %v", now, *updated.LastStampDate)
		}

		if _, err := store.GetGoal(models.GoalID("missing")); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing goal, got %v", err)
		}
	})
}

func TestGoalSoftDeleteRestore(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		goal := testGoal("Stretch")
		if err := store.AddGoal(goal); err != nil {
			t.Fatalf("failed to add goal: %v", err)
		}

		if err := store.DeleteGoal(goal.ID); err != nil {
			t.Fatalf("failed to delete goal: %v", err)
		}
		if _, err := store.GetGoal(goal.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("deleted goal should not resolve, got %v", err)
		}

		active, err := store.ListGoals(false)
		if err != nil {
			t.Fatalf("failed to list goals: %v", err)
		}
		if len(active) != 0 {
			t.Errorf("expected no active goals, got %d", len(active))
		}

		all, err := store.ListGoals(true)
		if err != nil {
			t.Fatalf("failed to list all goals: %v", err)
		}
		if len(all) != 1 || all[0].DeletedAt == nil {
			t.Errorf("expected one soft-deleted goal, got %+v", all)
		}

		// Deleting again is an error.
		if err := store.DeleteGoal(goal.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("double delete should report not found, got %v", err)
		}

		if err := store.RestoreGoal(goal.ID); err != nil {
			t.Fatalf("failed to restore goal: %v", err)
		}
		if _, err := store.GetGoal(goal.ID); err != nil {
			t.Errorf("restored goal should resolve, got %v", err)
		}
		if err := store.RestoreGoal(goal.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("restoring a live goal should report not found, got %v", err)
		}
	})
}

func TestStampQueries(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		goalA := testGoal("A")
		goalB := testGoal("B")
		for _, g := range []models.Goal{goalA, goalB} {
			if err := store.AddGoal(g); err != nil {
				t.Fatalf("failed to add goal: %v", err)
			}
		}

		day := func(offset int) time.Time {
			return time.Date(2026, 8, 1+offset, 0, 0, 0, 0, time.Local)
		}

		// Three stamps for A on days 0, 1, 2 and one for B on day 1.
		for i := 0; i < 3; i++ {
			err := store.AddStamp(models.Stamp{
				ID:        models.StampID(uuid.New().String()),
				GoalID:    goalA.ID,
				Date:      day(i),
				StampedAt: day(i).Add(8 * time.Hour),
				Type:      "done",
			})
			if err != nil {
				t.Fatalf("failed to add stamp: %v", err)
			}
		}
		err := store.AddStamp(models.Stamp{
			ID:        models.StampID(uuid.New().String()),
			GoalID:    goalB.ID,
			Date:      day(1),
			StampedAt: day(1).Add(9 * time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to add stamp: %v", err)
		}

		// Filter by owning goal.
		stamps, err := store.QueryStamps(StampQuery{GoalID: goalA.ID})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(stamps) != 3 {
			t.Fatalf("expected 3 stamps for goal A, got %d", len(stamps))
		}

		// Date range.
		stamps, err = store.QueryStamps(StampQuery{GoalID: goalA.ID, From: day(1), To: day(2)})
		if err != nil {
			t.Fatalf("range query failed: %v", err)
		}
		if len(stamps) != 2 {
			t.Fatalf("expected 2 stamps in range, got %d", len(stamps))
		}

		// Date descending.
		stamps, err = store.QueryStamps(StampQuery{GoalID: goalA.ID, Newest: true})
		if err != nil {
			t.Fatalf("sorted query failed: %v", err)
		}
		for i := 1; i < len(stamps); i++ {
			if stamps[i].Date.After(stamps[i-1].Date) {
				t.Errorf("stamps not sorted newest first: %v before %v",
					stamps[i-1].Date, stamps[i].Date)
			}
		}

		// Limit.
		stamps, err = store.QueryStamps(StampQuery{GoalID: goalA.ID, Newest: true, Limit: 1})
		if err != nil {
			t.Fatalf("limited query failed: %v", err)
		}
		if len(stamps) != 1 || !stamps[0].Date.Equal(day(2)) {
			t.Errorf("expected the newest stamp only, got %+v", stamps)
		}

		count, err := store.CountStamps(goalA.ID)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 stamps counted, got %d", count)
		}
	})
}

func TestSettingsSingleton(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		if _, err := store.GetSettings(); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound before seeding, got %v", err)
		}

		st := models.AppSettings{
			Volume:           0.8,
			NotificationTime: "20:00",
			Theme:            "auto",
			Language:         "ja",
			SoundEnabled:     true,
			FirstLaunch:      true,
		}
		if err := store.SaveSettings(st); err != nil {
			t.Fatalf("failed to save settings: %v", err)
		}

		st.Volume = 0.3
		st.FirstLaunch = false
		if err := store.SaveSettings(st); err != nil {
			t.Fatalf("failed to update settings: %v", err)
		}

		got, err := store.GetSettings()
		if err != nil {
			t.Fatalf("failed to get settings: %v", err)
		}
		if got.Volume != 0.3 || got.FirstLaunch {
			t.Errorf("settings not updated in place: %+v", got)
		}
		if got.Language != "ja" || got.Theme != "auto" {
			t.Errorf("settings fields lost on update: %+v", got)
		}
	})
}

func TestTrainerRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		trainer := models.Trainer{
			ID:          models.TrainerID(uuid.New().String()),
			Name:        "Hinata",
			Type:        models.TrainerEnergetic,
			IsSelected:  true,
			VoicePrefix: "voice_hinata",
			Personality: models.Personality{
				Catchphrase:       "Let's go!",
				SupportivePhrases: []string{"Nice!", "Keep at it!"},
			},
		}
		if err := store.AddTrainer(trainer); err != nil {
			t.Fatalf("failed to add trainer: %v", err)
		}

		got, err := store.GetTrainer(trainer.ID)
		if err != nil {
			t.Fatalf("failed to get trainer: %v", err)
		}
		if got.Type != models.TrainerEnergetic || !got.IsSelected {
			t.Errorf("trainer fields lost: %+v", got)
		}
		if got.Personality.Catchphrase != "Let's go!" || len(got.Personality.SupportivePhrases) != 2 {
			t.Errorf("personality payload did not round-trip: %+v", got.Personality)
		}
	})
}

func TestWriteTxAtomicity(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		goal := testGoal("Atomic")
		if err := store.AddGoal(goal); err != nil {
			t.Fatalf("failed to add goal: %v", err)
		}

		boom := errors.New("boom")
		err := store.WriteTx(func(tx Tx) error {
			mutated := goal
			mutated.TotalStamps = 99
			if err := tx.PutGoal(mutated); err != nil {
				return err
			}
			if err := tx.AddStamp(models.Stamp{
				ID:     models.StampID(uuid.New().String()),
				GoalID: goal.ID,
				Date:   time.Now(),
			}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, ErrTransactionFailed) {
			t.Fatalf("expected ErrTransactionFailed, got %v", err)
		}

		// Neither the goal update nor the stamp insert may be visible.
		got, err := store.GetGoal(goal.ID)
		if err != nil {
			t.Fatalf("failed to get goal: %v", err)
		}
		if got.TotalStamps != 0 {
			t.Errorf("aborted tx leaked goal update: total=%d", got.TotalStamps)
		}
		count, err := store.CountStamps(goal.ID)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("aborted tx leaked stamp insert: count=%d", count)
		}
	})
}

func TestTrainerSelectionTransactional(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		a := models.Trainer{ID: "a", Name: "A", Type: models.TrainerCalm, IsSelected: true}
		b := models.Trainer{ID: "b", Name: "B", Type: models.TrainerStrict}
		for _, tr := range []models.Trainer{a, b} {
			if err := store.AddTrainer(tr); err != nil {
				t.Fatalf("failed to add trainer: %v", err)
			}
		}

		// Clear-all-then-set-one in one transaction.
		err := store.WriteTx(func(tx Tx) error {
			a.IsSelected = false
			b.IsSelected = true
			if err := tx.PutTrainer(a); err != nil {
				return err
			}
			return tx.PutTrainer(b)
		})
		if err != nil {
			t.Fatalf("selection tx failed: %v", err)
		}

		trainers, err := store.ListTrainers()
		if err != nil {
			t.Fatalf("failed to list trainers: %v", err)
		}
		selected := 0
		for _, tr := range trainers {
			if tr.IsSelected {
				selected++
				if tr.ID != "b" {
					t.Errorf("wrong trainer selected: %s", tr.ID)
				}
			}
		}
		if selected != 1 {
			t.Errorf("expected exactly one selected trainer, got %d", selected)
		}

		// A failing selection tx leaves the previous selection intact.
		boom := errors.New("boom")
		err = store.WriteTx(func(tx Tx) error {
			b.IsSelected = false
			if err := tx.PutTrainer(b); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, ErrTransactionFailed) {
			t.Fatalf("expected ErrTransactionFailed, got %v", err)
		}
		got, err := store.GetTrainer("b")
		if err != nil {
			t.Fatalf("failed to get trainer: %v", err)
		}
		if !got.IsSelected {
			t.Error("aborted tx cleared the selection")
		}
	})
}

func TestReset(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		goal := testGoal("Gone")
		if err := store.AddGoal(goal); err != nil {
			t.Fatalf("failed to add goal: %v", err)
		}
		if err := store.SaveSettings(models.AppSettings{Theme: "auto"}); err != nil {
			t.Fatalf("failed to save settings: %v", err)
		}

		if err := store.Reset(); err != nil {
			t.Fatalf("reset failed: %v", err)
		}

		goals, err := store.ListGoals(true)
		if err != nil {
			t.Fatalf("failed to list goals: %v", err)
		}
		if len(goals) != 0 {
			t.Errorf("expected no goals after reset, got %d", len(goals))
		}
		if _, err := store.GetSettings(); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected settings gone after reset, got %v", err)
		}
	})
}

func TestTxReads(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		goal := testGoal("Tx reads")
		if err := store.AddGoal(goal); err != nil {
			t.Fatalf("failed to add goal: %v", err)
		}
		trainer := models.Trainer{ID: "tr1", Name: "A", Type: models.TrainerCalm}
		if err := store.AddTrainer(trainer); err != nil {
			t.Fatalf("failed to add trainer: %v", err)
		}

		err := store.WriteTx(func(tx Tx) error {
			got, err := tx.GetGoal(goal.ID)
			if err != nil {
				t.Fatalf("tx read missed committed goal: %v", err)
			}
			if got.Title != goal.Title {
				t.Errorf("tx read wrong goal: %+v", got)
			}

			// A read after a write in the same tx sees the write.
			got.TotalStamps = 7
			if err := tx.PutGoal(got); err != nil {
				return err
			}
			again, err := tx.GetGoal(goal.ID)
			if err != nil {
				return err
			}
			if again.TotalStamps != 7 {
				t.Errorf("tx read missed own write: total=%d", again.TotalStamps)
			}

			trainers, err := tx.ListTrainers()
			if err != nil {
				return err
			}
			if len(trainers) != 1 || trainers[0].ID != trainer.ID {
				t.Errorf("tx trainer list wrong: %+v", trainers)
			}

			if _, err := tx.GetGoal("nope"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound for unknown goal, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		got, err := store.GetGoal(goal.ID)
		if err != nil {
			t.Fatalf("failed to get goal: %v", err)
		}
		if got.TotalStamps != 7 {
			t.Errorf("committed tx write lost: total=%d", got.TotalStamps)
		}
	})
}

func TestTxErrorKeepsNotFound(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		err := store.WriteTx(func(tx Tx) error {
			_, err := tx.GetGoal("missing")
			return err
		})
		if !errors.Is(err, ErrTransactionFailed) {
			t.Fatalf("expected ErrTransactionFailed, got %v", err)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("not-found cause lost through tx wrapping: %v", err)
		}
	})
}
