// Package storage provides SQLite-based persistence for generation runs
// and cached contribution calendars. Uses the pure-Go modernc.org/sqlite
// driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one recorded generation run.
type RunEntry struct {
	ID              int64
	Username        string
	Policy          string
	TotalBricks     int
	DestroyedBricks int
	Frames          int
	Duration        time.Duration
	Output          string
	CreatedAt       time.Time
}

// CalendarEntry is one cached contribution calendar payload.
type CalendarEntry struct {
	Username  string
	Payload   []byte
	FetchedAt time.Time
}

// UserStats contains aggregated run statistics for one user.
type UserStats struct {
	Username      string
	Runs          int
	BestDestroyed int
	AvgDestroyed  float64
	TotalFrames   int64
	LastRun       time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			policy TEXT NOT NULL,
			total_bricks INTEGER NOT NULL,
			destroyed_bricks INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			output TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_username ON runs(username);
		CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS calendars (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			payload BLOB NOT NULL,
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished generation run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (username, policy, total_bricks, destroyed_bricks, frames, duration_ms, output)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Username,
		run.Policy,
		run.TotalBricks,
		run.DestroyedBricks,
		run.Frames,
		run.Duration.Milliseconds(),
		run.Output,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, username, policy, total_bricks, destroyed_bricks, frames, duration_ms, output, created_at`

// RecentRuns retrieves the most recent runs across all users.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// RunsForUser retrieves the most recent runs for one user.
func (s *Store) RunsForUser(username string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE username = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs for %s: %w", username, err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// BestRun returns the user's run with the most destroyed bricks, ties
// broken by fewer frames. Returns nil if the user has no runs.
func (s *Store) BestRun(username string) (*RunEntry, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE username = ?
		 ORDER BY destroyed_bricks DESC, frames ASC, id DESC
		 LIMIT 1`,
		username,
	)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best run: %w", err)
	}
	return run, nil
}

// GetUserStats retrieves aggregated run statistics for one user.
func (s *Store) GetUserStats(username string) (*UserStats, error) {
	stats := &UserStats{Username: username}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(destroyed_bricks), 0),
		        COALESCE(AVG(destroyed_bricks), 0), COALESCE(SUM(frames), 0)
		 FROM runs WHERE username = ?`,
		username,
	).Scan(&stats.Runs, &stats.BestDestroyed, &stats.AvgDestroyed, &stats.TotalFrames)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get user stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE username = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		username,
	).Scan(&lastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last run time: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

// SaveCalendar caches a fetched calendar payload for a user, replacing
// any previous entry and refreshing the fetch timestamp.
func (s *Store) SaveCalendar(username string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO calendars (username, payload, fetched_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(username) DO UPDATE SET
		   payload = excluded.payload,
		   fetched_at = CURRENT_TIMESTAMP`,
		username, payload,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save calendar for %s: %w", username, err)
	}
	return nil
}

// LoadCalendar returns the cached calendar for a user, or nil if none
// is cached. Staleness is the caller's call; the entry carries the
// fetch time.
func (s *Store) LoadCalendar(username string) (*CalendarEntry, error) {
	entry := &CalendarEntry{Username: username}
	var fetchedAt any

	err := s.db.QueryRow(
		`SELECT payload, fetched_at FROM calendars WHERE username = ?`,
		username,
	).Scan(&entry.Payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load calendar for %s: %w", username, err)
	}

	entry.FetchedAt = parseTime(fetchedAt)
	return entry, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row in runColumns order.
func scanRun(sc rowScanner) (*RunEntry, error) {
	var run RunEntry
	var durationMS int64
	var createdAt any

	if err := sc.Scan(
		&run.ID,
		&run.Username,
		&run.Policy,
		&run.TotalBricks,
		&run.DestroyedBricks,
		&run.Frames,
		&durationMS,
		&run.Output,
		&createdAt,
	); err != nil {
		return nil, err
	}

	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.CreatedAt = parseTime(createdAt)
	return &run, nil
}

func collectRuns(rows *sql.Rows) ([]RunEntry, error) {
	var entries []RunEntry
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles the driver returning datetimes as either time.Time
// or a bare string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
