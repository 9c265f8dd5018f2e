package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stampcard/internal/models"
)

func TestPersistenceAcrossReopen(t *testing.T) {
	reopeners := []struct {
		name string
		open func(path string) Provider
	}{
		{"sqlite", func(path string) Provider { return NewSQLiteStore(path) }},
		{"json", func(path string) Provider { return NewJSONStore(path) }},
	}

	for _, r := range reopeners {
		t.Run(r.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store")

			store := r.open(path)
			if err := store.Init(); err != nil {
				t.Fatalf("failed to init: %v", err)
			}
			goal := testGoal("Persisted")
			if err := store.AddGoal(goal); err != nil {
				t.Fatalf("failed to add goal: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("failed to close: %v", err)
			}

			store = r.open(path)
			if err := store.Init(); err != nil {
				t.Fatalf("failed to reopen: %v", err)
			}
			defer store.Close()

			got, err := store.GetGoal(goal.ID)
			if err != nil {
				t.Fatalf("goal did not survive reopen: %v", err)
			}
			if got.Title != "Persisted" {
				t.Errorf("expected title Persisted, got %q", got.Title)
			}
		})
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	store := Open(Capability{DurableFS: true, Path: filepath.Join(dir, "a.db")})
	if store.Kind() != "sqlite" {
		t.Errorf("expected sqlite for durable fs, got %s", store.Kind())
	}
	store.Close()

	store = Open(Capability{Path: filepath.Join(dir, "b.json")})
	if store.Kind() != "json" {
		t.Errorf("expected json without durable fs, got %s", store.Kind())
	}
	store.Close()

	store = Open(Capability{InMemory: true})
	if store.Kind() != "json" {
		t.Errorf("expected volatile json store, got %s", store.Kind())
	}
	store.Close()
}

func TestOpenFallsBackToDegradedMode(t *testing.T) {
	// Point the backend at a path whose parent is a regular file so
	// initialization cannot succeed.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	store := Open(Capability{DurableFS: true, Path: filepath.Join(blocker, "nested", "a.db")})
	if store.Kind() != "null" {
		t.Fatalf("expected null store fallback, got %s", store.Kind())
	}

	// Reads degrade to empty collections.
	goals, err := store.ListGoals(false)
	if err != nil {
		t.Fatalf("degraded read should not error: %v", err)
	}
	if len(goals) != 0 {
		t.Errorf("expected empty goals, got %d", len(goals))
	}

	// Writes fail fast.
	if err := store.AddGoal(testGoal("X")); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
	if err := store.WriteTx(func(Tx) error { return nil }); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable from WriteTx, got %v", err)
	}
	if _, err := store.GetGoal(models.GoalID("x")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for point read, got %v", err)
	}
}
