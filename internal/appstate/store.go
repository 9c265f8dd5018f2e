// Package appstate holds the process-wide reactive snapshot of goals and
// trainers and fans out full-replacement updates to subscribers after
// every refresh. There is no incremental diff contract.
package appstate

import (
	"fmt"
	"sync"

	"stampcard/internal/cache"
	"stampcard/internal/logger"
	"stampcard/internal/models"
	"stampcard/internal/storage"
)

const (
	cacheKeyGoals    = "goals:active"
	cacheKeyTrainers = "trainers:all"
)

// Snapshot is one complete observed state. Each refresh delivers a full
// replacement of the collections, never a partial update.
type Snapshot struct {
	Goals           []models.Goal
	Trainers        []models.Trainer
	SelectedTrainer *models.Trainer
}

// Store is constructed once at startup and shared by handle. Consumers
// interact only through Current, Subscribe, Refresh and SelectTrainer.
type Store struct {
	store storage.Provider
	cache *cache.Cache

	mu      sync.RWMutex
	current Snapshot
	subs    map[int]chan Snapshot
	nextSub int
}

func New(p storage.Provider, c *cache.Cache) *Store {
	return &Store{
		store: p,
		cache: c,
		subs:  make(map[int]chan Snapshot),
	}
}

// Current returns the last published snapshot.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers a consumer. The returned channel carries each new
// snapshot (buffered, latest wins); the cancel func unregisters it.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

// Refresh re-reads goals and trainers through the read cache and
// publishes the new snapshot to every subscriber. Read failures degrade
// to empty collections with a logged warning; the UI must stay usable in
// a state indistinguishable from "no data yet".
func (s *Store) Refresh() error {
	snap := Snapshot{
		Goals:    s.loadGoals(),
		Trainers: s.loadTrainers(),
	}
	for i := range snap.Trainers {
		if snap.Trainers[i].IsSelected {
			t := snap.Trainers[i]
			snap.SelectedTrainer = &t
			break
		}
	}

	s.mu.Lock()
	s.current = snap
	for _, ch := range s.subs {
		// Latest wins: drop a pending stale snapshot rather than block.
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) loadGoals() []models.Goal {
	if v, ok := s.cache.Get(cacheKeyGoals); ok {
		if goals, ok := v.([]models.Goal); ok {
			return goals
		}
	}
	goals, err := s.store.ListGoals(false)
	if err != nil {
		logger.Warn("refresh: failed to load goals", "error", err)
		return nil
	}
	s.cache.Set(cacheKeyGoals, goals)
	return goals
}

func (s *Store) loadTrainers() []models.Trainer {
	if v, ok := s.cache.Get(cacheKeyTrainers); ok {
		if trainers, ok := v.([]models.Trainer); ok {
			return trainers
		}
	}
	trainers, err := s.store.ListTrainers()
	if err != nil {
		logger.Warn("refresh: failed to load trainers", "error", err)
		return nil
	}
	s.cache.Set(cacheKeyTrainers, trainers)
	return trainers
}

// SelectTrainer makes the given trainer the selected persona:
// clear-all-then-set-one inside a single write transaction, so no reader
// ever observes zero or two selected trainers. The trainer list is read
// inside the same transaction, so a trainer added concurrently cannot
// slip past the clear-all pass. The cache is invalidated and a refresh
// published before it returns.
func (s *Store) SelectTrainer(id models.TrainerID) error {
	err := s.store.WriteTx(func(tx storage.Tx) error {
		trainers, err := tx.ListTrainers()
		if err != nil {
			return err
		}

		found := false
		for _, t := range trainers {
			if t.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("trainer %s: %w", id, storage.ErrNotFound)
		}

		for _, t := range trainers {
			t.IsSelected = t.ID == id
			if err := tx.PutTrainer(t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Clear()
	return s.Refresh()
}
