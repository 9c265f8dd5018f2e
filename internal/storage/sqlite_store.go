package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"stampcard/internal/models"
)

const schemaVersion = 1

// schema is the fixed version-1 DDL. Timestamps are epoch milliseconds,
// booleans 0/1, trainer personality an embedded JSON string. The rewards
// and daily_actions tables are reserved and unused.
const schema = `
CREATE TABLE IF NOT EXISTS schema_info (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	category        TEXT NOT NULL DEFAULT '',
	motivation      TEXT NOT NULL DEFAULT '',
	is_active       INTEGER NOT NULL DEFAULT 1,
	difficulty      INTEGER NOT NULL DEFAULT 3,
	created_at      INTEGER NOT NULL,
	target_end_date INTEGER,
	total_stamps    INTEGER NOT NULL DEFAULT 0,
	current_streak  INTEGER NOT NULL DEFAULT 0,
	best_streak     INTEGER NOT NULL DEFAULT 0,
	last_stamp_date INTEGER,
	deleted_at      INTEGER
);

CREATE TABLE IF NOT EXISTS stamps (
	id         TEXT PRIMARY KEY,
	goal_id    TEXT NOT NULL,
	date       INTEGER NOT NULL,
	stamped_at INTEGER NOT NULL,
	type       TEXT NOT NULL DEFAULT '',
	mood       TEXT NOT NULL DEFAULT '',
	difficulty INTEGER NOT NULL DEFAULT 0,
	note       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_stamps_goal_date ON stamps(goal_id, date);

CREATE TABLE IF NOT EXISTS trainers (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	type         TEXT NOT NULL,
	is_selected  INTEGER NOT NULL DEFAULT 0,
	avatar_image TEXT NOT NULL DEFAULT '',
	voice_prefix TEXT NOT NULL DEFAULT '',
	personality  TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS app_settings (
	id                    INTEGER PRIMARY KEY CHECK (id = 1),
	volume                REAL NOT NULL DEFAULT 0.8,
	notification_time     TEXT NOT NULL DEFAULT '20:00',
	theme                 TEXT NOT NULL DEFAULT 'auto',
	language              TEXT NOT NULL DEFAULT 'ja',
	sound_enabled         INTEGER NOT NULL DEFAULT 1,
	notifications_enabled INTEGER NOT NULL DEFAULT 1,
	first_launch          INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS rewards (
	id         TEXT PRIMARY KEY,
	trainer_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rewards_trainer ON rewards(trainer_id);

CREATE TABLE IF NOT EXISTS daily_actions (
	id TEXT PRIMARY KEY
);
`

// SQLiteStore is the durable backend for platforms with native
// file-system access.
type SQLiteStore struct {
	path    string
	db      *sql.DB
	writeMu sync.Mutex
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_info LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec("INSERT INTO schema_info (version) VALUES (?)", schemaVersion); err != nil {
			db.Close()
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	case err != nil:
		db.Close()
		return fmt.Errorf("failed to read schema version: %w", err)
	case version != schemaVersion:
		db.Close()
		return fmt.Errorf("unsupported schema version %d (want %d)", version, schemaVersion)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Kind() string { return "sqlite" }

// toMillis converts an instant to epoch milliseconds for storage.
func toMillis(t time.Time) int64 { return t.UnixMilli() }

// fromMillis restores an instant from epoch milliseconds in local time.
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).In(time.Local) }

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func millisPtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

// querier is satisfied by both *sql.DB and *sql.Tx, so the read helpers
// below serve the direct Provider methods and the Tx methods alike.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// Goals

const goalColumns = `id, title, category, motivation, is_active, difficulty, created_at,
	target_end_date, total_stamps, current_streak, best_streak, last_stamp_date, deleted_at`

func scanGoal(row interface{ Scan(...any) error }) (models.Goal, error) {
	var g models.Goal
	var createdAt int64
	var targetEnd, lastStamp, deletedAt sql.NullInt64

	err := row.Scan(
		&g.ID, &g.Title, &g.Category, &g.Motivation, &g.IsActive, &g.Difficulty, &createdAt,
		&targetEnd, &g.TotalStamps, &g.CurrentStreak, &g.BestStreak, &lastStamp, &deletedAt,
	)
	if err != nil {
		return models.Goal{}, err
	}

	g.CreatedAt = fromMillis(createdAt)
	g.TargetEndDate = millisPtr(targetEnd)
	g.LastStampDate = millisPtr(lastStamp)
	g.DeletedAt = millisPtr(deletedAt)
	return g, nil
}

func putGoalExec(exec func(string, ...any) (sql.Result, error), g models.Goal) error {
	_, err := exec(`
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			motivation = excluded.motivation,
			is_active = excluded.is_active,
			difficulty = excluded.difficulty,
			target_end_date = excluded.target_end_date,
			total_stamps = excluded.total_stamps,
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			last_stamp_date = excluded.last_stamp_date,
			deleted_at = excluded.deleted_at`,
		g.ID, g.Title, g.Category, g.Motivation, g.IsActive, g.Difficulty, toMillis(g.CreatedAt),
		nullMillis(g.TargetEndDate), g.TotalStamps, g.CurrentStreak, g.BestStreak,
		nullMillis(g.LastStampDate), nullMillis(g.DeletedAt),
	)
	return err
}

func (s *SQLiteStore) AddGoal(g models.Goal) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return putGoalExec(s.db.Exec, g)
}

func getGoalQuery(q querier, id models.GoalID) (models.Goal, error) {
	row := q.QueryRow(
		"SELECT "+goalColumns+" FROM goals WHERE id = ? AND deleted_at IS NULL", id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

func (s *SQLiteStore) GetGoal(id models.GoalID) (models.Goal, error) {
	return getGoalQuery(s.db, id)
}

func (s *SQLiteStore) ListGoals(includeDeleted bool) ([]models.Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *SQLiteStore) UpdateGoal(g models.Goal) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return putGoalExec(s.db.Exec, g)
}

func (s *SQLiteStore) DeleteGoal(id models.GoalID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.Exec(
		"UPDATE goals SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		toMillis(time.Now()), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("goal %s not found or already deleted: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) RestoreGoal(id models.GoalID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.Exec(
		"UPDATE goals SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("goal %s not found or not deleted: %w", id, ErrNotFound)
	}
	return nil
}

// Stamps

const stampColumns = "id, goal_id, date, stamped_at, type, mood, difficulty, note"

func addStampExec(exec func(string, ...any) (sql.Result, error), st models.Stamp) error {
	_, err := exec(`
		INSERT INTO stamps (`+stampColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.GoalID, toMillis(st.Date), toMillis(st.StampedAt),
		st.Type, st.Mood, st.Difficulty, st.Note,
	)
	return err
}

func (s *SQLiteStore) AddStamp(st models.Stamp) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return addStampExec(s.db.Exec, st)
}

func (s *SQLiteStore) QueryStamps(q StampQuery) ([]models.Stamp, error) {
	query := "SELECT " + stampColumns + " FROM stamps WHERE 1=1"
	var args []any
	if q.GoalID != "" {
		query += " AND goal_id = ?"
		args = append(args, q.GoalID)
	}
	if !q.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, toMillis(q.From))
	}
	if !q.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, toMillis(q.To))
	}
	if q.Newest {
		query += " ORDER BY date DESC, stamped_at DESC"
	} else {
		query += " ORDER BY date, stamped_at"
	}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stamps []models.Stamp
	for rows.Next() {
		var st models.Stamp
		var date, stampedAt int64
		if err := rows.Scan(&st.ID, &st.GoalID, &date, &stampedAt,
			&st.Type, &st.Mood, &st.Difficulty, &st.Note); err != nil {
			return nil, err
		}
		st.Date = fromMillis(date)
		st.StampedAt = fromMillis(stampedAt)
		stamps = append(stamps, st)
	}
	return stamps, rows.Err()
}

func (s *SQLiteStore) CountStamps(goalID models.GoalID) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM stamps WHERE goal_id = ?", goalID).Scan(&count)
	return count, err
}

// Trainers

const trainerColumns = "id, name, type, is_selected, avatar_image, voice_prefix, personality"

func putTrainerExec(exec func(string, ...any) (sql.Result, error), t models.Trainer) error {
	personality, err := json.Marshal(t.Personality)
	if err != nil {
		return fmt.Errorf("failed to marshal trainer personality: %w", err)
	}

	_, err = exec(`
		INSERT INTO trainers (`+trainerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			is_selected = excluded.is_selected,
			avatar_image = excluded.avatar_image,
			voice_prefix = excluded.voice_prefix,
			personality = excluded.personality`,
		t.ID, t.Name, t.Type, t.IsSelected, t.AvatarImage, t.VoicePrefix, string(personality),
	)
	return err
}

func scanTrainer(row interface{ Scan(...any) error }) (models.Trainer, error) {
	var t models.Trainer
	var trainerType, personality string

	err := row.Scan(&t.ID, &t.Name, &trainerType, &t.IsSelected,
		&t.AvatarImage, &t.VoicePrefix, &personality)
	if err != nil {
		return models.Trainer{}, err
	}

	t.Type = models.TrainerType(trainerType)
	if personality != "" {
		if err := json.Unmarshal([]byte(personality), &t.Personality); err != nil {
			return models.Trainer{}, fmt.Errorf("failed to parse personality for trainer %s: %w", t.ID, err)
		}
	}
	return t, nil
}

func (s *SQLiteStore) AddTrainer(t models.Trainer) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return putTrainerExec(s.db.Exec, t)
}

func (s *SQLiteStore) GetTrainer(id models.TrainerID) (models.Trainer, error) {
	row := s.db.QueryRow("SELECT "+trainerColumns+" FROM trainers WHERE id = ?", id)
	t, err := scanTrainer(row)
	if err == sql.ErrNoRows {
		return models.Trainer{}, fmt.Errorf("trainer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Trainer{}, err
	}
	return t, nil
}

func listTrainersQuery(q querier) ([]models.Trainer, error) {
	rows, err := q.Query("SELECT " + trainerColumns + " FROM trainers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainers []models.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	return trainers, rows.Err()
}

func (s *SQLiteStore) ListTrainers() ([]models.Trainer, error) {
	return listTrainersQuery(s.db)
}

func (s *SQLiteStore) UpdateTrainer(t models.Trainer) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return putTrainerExec(s.db.Exec, t)
}

// Settings

func putSettingsExec(exec func(string, ...any) (sql.Result, error), st models.AppSettings) error {
	// id is fixed to 1 so the row can never be duplicated.
	_, err := exec(`
		INSERT OR REPLACE INTO app_settings (
			id, volume, notification_time, theme, language,
			sound_enabled, notifications_enabled, first_launch
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		st.Volume, st.NotificationTime, st.Theme, st.Language,
		st.SoundEnabled, st.NotificationsEnabled, st.FirstLaunch,
	)
	return err
}

func (s *SQLiteStore) GetSettings() (models.AppSettings, error) {
	row := s.db.QueryRow(`
		SELECT volume, notification_time, theme, language,
		       sound_enabled, notifications_enabled, first_launch
		FROM app_settings WHERE id = 1`)

	var st models.AppSettings
	err := row.Scan(&st.Volume, &st.NotificationTime, &st.Theme, &st.Language,
		&st.SoundEnabled, &st.NotificationsEnabled, &st.FirstLaunch)
	if err == sql.ErrNoRows {
		return models.AppSettings{}, fmt.Errorf("settings: %w", ErrNotFound)
	}
	if err != nil {
		return models.AppSettings{}, err
	}
	return st, nil
}

func (s *SQLiteStore) SaveSettings(st models.AppSettings) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return putSettingsExec(s.db.Exec, st)
}

// Transactions

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) GetGoal(id models.GoalID) (models.Goal, error) { return getGoalQuery(t.tx, id) }
func (t *sqliteTx) PutGoal(g models.Goal) error                   { return putGoalExec(t.tx.Exec, g) }
func (t *sqliteTx) AddStamp(st models.Stamp) error                { return addStampExec(t.tx.Exec, st) }
func (t *sqliteTx) ListTrainers() ([]models.Trainer, error)       { return listTrainersQuery(t.tx) }
func (t *sqliteTx) PutTrainer(tr models.Trainer) error            { return putTrainerExec(t.tx.Exec, tr) }
func (t *sqliteTx) PutSettings(st models.AppSettings) error       { return putSettingsExec(t.tx.Exec, st) }

func (s *SQLiteStore) WriteTx(fn func(Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}
	committed = true
	return nil
}

func (s *SQLiteStore) Reset() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stamps", "goals", "trainers", "app_settings", "rewards", "daily_actions"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("%w: wipe %s: %v", ErrTransactionFailed, table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}
	return nil
}
