package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"stampcard/internal/models"
)

// document is the on-disk shape of the JSON store.
type document struct {
	Version  int                                `json:"version"`
	Goals    map[models.GoalID]models.Goal      `json:"goals"`
	Stamps   map[models.StampID]models.Stamp    `json:"stamps"`
	Trainers map[models.TrainerID]models.Trainer `json:"trainers"`
	Settings *models.AppSettings                `json:"settings,omitempty"`
}

func newDocument() *document {
	return &document{
		Version:  schemaVersion,
		Goals:    make(map[models.GoalID]models.Goal),
		Stamps:   make(map[models.StampID]models.Stamp),
		Trainers: make(map[models.TrainerID]models.Trainer),
	}
}

func (d *document) clone() *document {
	c := newDocument()
	for id, g := range d.Goals {
		c.Goals[id] = g
	}
	for id, s := range d.Stamps {
		c.Stamps[id] = s
	}
	for id, t := range d.Trainers {
		c.Trainers[id] = t
	}
	if d.Settings != nil {
		s := *d.Settings
		c.Settings = &s
	}
	return c
}

// JSONStore is the backend for platforms without native file-system
// database access: tables live in memory and are mirrored to a JSON file
// on every mutation. With an empty path the store is purely volatile.
type JSONStore struct {
	path string
	mu   sync.RWMutex
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if s.path == "" {
		s.doc = newDocument()
		return nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		s.doc = newDocument()
		return s.persist(s.doc)
	}
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	doc := newDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse store: %w", err)
	}
	if doc.Version != schemaVersion {
		return fmt.Errorf("unsupported store version %d (want %d)", doc.Version, schemaVersion)
	}
	// Maps may be nil after unmarshalling an older file.
	if doc.Goals == nil {
		doc.Goals = make(map[models.GoalID]models.Goal)
	}
	if doc.Stamps == nil {
		doc.Stamps = make(map[models.StampID]models.Stamp)
	}
	if doc.Trainers == nil {
		doc.Trainers = make(map[models.TrainerID]models.Trainer)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) Kind() string { return "json" }

// persist writes doc to disk. A nil path means volatile mode.
func (s *JSONStore) persist(doc *document) error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

// commit persists a working copy and, only on success, makes it current.
func (s *JSONStore) commit(work *document) error {
	if err := s.persist(work); err != nil {
		return err
	}
	s.doc = work
	return nil
}

// Goals

func (s *JSONStore) AddGoal(g models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.doc.clone()
	work.Goals[g.ID] = g
	return s.commit(work)
}

func (s *JSONStore) GetGoal(id models.GoalID) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.doc.Goals[id]
	if !ok || g.DeletedAt != nil {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return g, nil
}

func (s *JSONStore) ListGoals(includeDeleted bool) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var goals []models.Goal
	for _, g := range s.doc.Goals {
		if !includeDeleted && g.DeletedAt != nil {
			continue
		}
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

func (s *JSONStore) UpdateGoal(g models.Goal) error {
	return s.AddGoal(g)
}

func (s *JSONStore) DeleteGoal(id models.GoalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.doc.Goals[id]
	if !ok || g.DeletedAt != nil {
		return fmt.Errorf("goal %s not found or already deleted: %w", id, ErrNotFound)
	}
	now := time.Now()
	g.DeletedAt = &now

	work := s.doc.clone()
	work.Goals[id] = g
	return s.commit(work)
}

func (s *JSONStore) RestoreGoal(id models.GoalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.doc.Goals[id]
	if !ok || g.DeletedAt == nil {
		return fmt.Errorf("goal %s not found or not deleted: %w", id, ErrNotFound)
	}
	g.DeletedAt = nil

	work := s.doc.clone()
	work.Goals[id] = g
	return s.commit(work)
}

// Stamps

func (s *JSONStore) AddStamp(st models.Stamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.doc.clone()
	work.Stamps[st.ID] = st
	return s.commit(work)
}

func (s *JSONStore) QueryStamps(q StampQuery) ([]models.Stamp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stamps []models.Stamp
	for _, st := range s.doc.Stamps {
		if q.GoalID != "" && st.GoalID != q.GoalID {
			continue
		}
		if !q.From.IsZero() && st.Date.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && st.Date.After(q.To) {
			continue
		}
		stamps = append(stamps, st)
	}

	sort.Slice(stamps, func(i, j int) bool {
		a, b := stamps[i], stamps[j]
		if !a.Date.Equal(b.Date) {
			if q.Newest {
				return a.Date.After(b.Date)
			}
			return a.Date.Before(b.Date)
		}
		if q.Newest {
			return a.StampedAt.After(b.StampedAt)
		}
		return a.StampedAt.Before(b.StampedAt)
	})

	if q.Limit > 0 && len(stamps) > q.Limit {
		stamps = stamps[:q.Limit]
	}
	return stamps, nil
}

func (s *JSONStore) CountStamps(goalID models.GoalID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, st := range s.doc.Stamps {
		if st.GoalID == goalID {
			count++
		}
	}
	return count, nil
}

// Trainers

func (s *JSONStore) AddTrainer(t models.Trainer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.doc.clone()
	work.Trainers[t.ID] = t
	return s.commit(work)
}

func (s *JSONStore) GetTrainer(id models.TrainerID) (models.Trainer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.doc.Trainers[id]
	if !ok {
		return models.Trainer{}, fmt.Errorf("trainer %s: %w", id, ErrNotFound)
	}
	return t, nil
}

func (s *JSONStore) ListTrainers() ([]models.Trainer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var trainers []models.Trainer
	for _, t := range s.doc.Trainers {
		trainers = append(trainers, t)
	}
	sort.Slice(trainers, func(i, j int) bool {
		return trainers[i].Name < trainers[j].Name
	})
	return trainers, nil
}

func (s *JSONStore) UpdateTrainer(t models.Trainer) error {
	return s.AddTrainer(t)
}

// Settings

func (s *JSONStore) GetSettings() (models.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Settings == nil {
		return models.AppSettings{}, fmt.Errorf("settings: %w", ErrNotFound)
	}
	return *s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(st models.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.doc.clone()
	work.Settings = &st
	return s.commit(work)
}

// Transactions

type jsonTx struct {
	doc *document
}

func (t *jsonTx) GetGoal(id models.GoalID) (models.Goal, error) {
	g, ok := t.doc.Goals[id]
	if !ok || g.DeletedAt != nil {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return g, nil
}

func (t *jsonTx) PutGoal(g models.Goal) error {
	t.doc.Goals[g.ID] = g
	return nil
}

func (t *jsonTx) AddStamp(st models.Stamp) error {
	t.doc.Stamps[st.ID] = st
	return nil
}

func (t *jsonTx) ListTrainers() ([]models.Trainer, error) {
	var trainers []models.Trainer
	for _, tr := range t.doc.Trainers {
		trainers = append(trainers, tr)
	}
	sort.Slice(trainers, func(i, j int) bool {
		return trainers[i].Name < trainers[j].Name
	})
	return trainers, nil
}

func (t *jsonTx) PutTrainer(tr models.Trainer) error {
	t.doc.Trainers[tr.ID] = tr
	return nil
}

func (t *jsonTx) PutSettings(st models.AppSettings) error {
	t.doc.Settings = &st
	return nil
}

// WriteTx applies fn to a working copy of the document; the copy becomes
// current only after fn succeeds and the copy is durably persisted, so a
// failure never exposes partial state. The store lock is held for the
// whole of fn, so Tx reads and the writes derived from them cannot
// interleave with another writer.
func (s *JSONStore) WriteTx(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.doc.clone()
	if err := fn(&jsonTx{doc: work}); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	if err := s.commit(work); err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	return nil
}

func (s *JSONStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(newDocument())
}
