// Package storage provides SQLite-based persistence for the run journal:
// recorded tap timelines that replay a finished run tick for tick.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-stack/internal/core"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// RunSummary describes a journaled run without its tap timeline.
type RunSummary struct {
	ID        string
	GameID    string
	Seed      int64
	TickRate  int
	Ticks     int
	Score     int
	MaxCombo  int
	TapCount  int
	CreatedAt time.Time
}

// Duration returns the simulated run length.
func (r RunSummary) Duration() time.Duration {
	if r.TickRate <= 0 {
		return 0
	}
	return time.Duration(r.Ticks) * time.Second / time.Duration(r.TickRate)
}

// Run is a journaled run with everything needed to replay it.
type Run struct {
	RunSummary
	Recording core.Recording
}

// GameStats contains aggregated statistics for a game mode.
type GameStats struct {
	GameID     string
	Runs       int
	TotalTicks int64
	TotalTaps  int64
	LastPlayed time.Time
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

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// SQLite serialises writers; one connection avoids SQLITE_BUSY between SSH sessions.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	// Run migrations
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
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			score INTEGER NOT NULL,
			max_combo INTEGER NOT NULL DEFAULT 0,
			tap_count INTEGER NOT NULL DEFAULT 0,
			config BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS run_taps (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
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

// SaveRun journals a finished run and returns its generated ID.
func (s *Store) SaveRun(rec core.Recording) (string, error) {
	if rec.GameID == "" {
		return "", errors.New("storage: cannot save run: empty game id")
	}
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, game_id, seed, tick_rate, ticks, score, max_combo, tap_count, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.GameID, rec.Seed, rec.TickRate, rec.Ticks, rec.Score, rec.MaxCombo, len(rec.Taps), rec.Config,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO run_taps (run_id, seq, tick) VALUES (?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("storage: cannot prepare taps: %w", err)
	}
	defer stmt.Close()

	for i, tick := range rec.Taps {
		if _, err := stmt.Exec(id, i, tick); err != nil {
			return "", fmt.Errorf("storage: cannot save tap %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// Runs retrieves the most recent runs, newest first. An empty gameID
// lists every game mode.
func (s *Store) Runs(gameID string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, game_id, seed, tick_rate, ticks, score, max_combo, tap_count, created_at
		 FROM runs`
	args := []any{}
	if gameID != "" {
		query += " WHERE game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		r, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// LoadRun retrieves a run with its tap timeline. id may be a unique prefix
// of the full ID.
func (s *Store) LoadRun(id string) (Run, error) {
	fullID, err := s.resolveID(id)
	if err != nil {
		return Run{}, err
	}

	var cfg []byte
	row := s.db.QueryRow(
		`SELECT id, game_id, seed, tick_rate, ticks, score, max_combo, tap_count, created_at, config
		 FROM runs WHERE id = ?`,
		fullID,
	)
	summary, err := scanSummary(row, &cfg)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.Query("SELECT tick FROM run_taps WHERE run_id = ? ORDER BY seq", fullID)
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot query taps: %w", err)
	}
	defer rows.Close()

	taps := make([]int, 0, summary.TapCount)
	for rows.Next() {
		var tick int
		if err := rows.Scan(&tick); err != nil {
			return Run{}, fmt.Errorf("storage: cannot scan tap: %w", err)
		}
		taps = append(taps, tick)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return Run{
		RunSummary: summary,
		Recording: core.Recording{
			GameID:   summary.GameID,
			Seed:     summary.Seed,
			TickRate: summary.TickRate,
			Ticks:    summary.Ticks,
			Taps:     taps,
			Config:   cfg,
			Score:    summary.Score,
			MaxCombo: summary.MaxCombo,
		},
	}, nil
}

// DeleteRun removes a run and its taps.
func (s *Store) DeleteRun(id string) error {
	fullID, err := s.resolveID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM run_taps WHERE run_id = ?", fullID); err != nil {
		return fmt.Errorf("storage: cannot delete taps: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", fullID); err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// GetGameStats retrieves aggregated statistics for a specific game mode.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(ticks), 0), COALESCE(SUM(tap_count), 0), MAX(created_at)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Runs, &stats.TotalTicks, &stats.TotalTaps, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// resolveID expands a unique ID prefix to the full run ID.
func (s *Store) resolveID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(prefix)
	rows, err := s.db.Query(`SELECT id FROM runs WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escaped+"%")
	if err != nil {
		return "", fmt.Errorf("storage: cannot query run id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("storage: cannot scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("storage: run id %q is ambiguous", prefix)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSummary reads the common run columns followed by any extra columns.
func scanSummary(row scanner, extra ...any) (RunSummary, error) {
	var r RunSummary
	var createdAt any
	dest := []any{&r.ID, &r.GameID, &r.Seed, &r.TickRate, &r.Ticks, &r.Score, &r.MaxCombo, &r.TapCount, &createdAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetime columns.
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
