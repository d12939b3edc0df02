// Package storage provides SQLite-based persistence for recorded runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-snake/internal/config"
)

// Store manages the SQLite database connection for run recordings.
type Store struct {
	db *sql.DB
}

// Move is one accepted direction change, stamped with the number of ticks
// completed before it was made.
type Move struct {
	Tick uint64
	Dir  string
}

// RunRecord is a finished run: everything needed to reproduce it, plus the
// outcome it produced.
type RunRecord struct {
	ID        int64
	RunID     string // Stable external identifier
	Player    string // Local user or SSH username
	Seed      int64
	Width     int
	Height    int
	CellSize  int
	Margin    [4]int // top, right, bottom, left
	Score     int
	Length    int
	Ticks     uint64
	Cause     string
	Moves     []Move // Empty in list queries
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

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

	// SSH sessions save concurrently; SQLite allows one writer.
	db.SetMaxOpenConns(1)

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
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			cell_size INTEGER NOT NULL,
			margin_top INTEGER NOT NULL DEFAULT 0,
			margin_right INTEGER NOT NULL DEFAULT 0,
			margin_bottom INTEGER NOT NULL DEFAULT 0,
			margin_left INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			length INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			cause TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS run_moves (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			dir TEXT NOT NULL,
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

// SaveRun records a finished run and its moves in one transaction.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	if r.RunID == "" {
		return 0, errors.New("storage: run has no run ID")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.Exec(
		`INSERT INTO runs
		 (run_id, player, seed, width, height, cell_size,
		  margin_top, margin_right, margin_bottom, margin_left,
		  score, length, ticks, cause)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Player, r.Seed, r.Width, r.Height, r.CellSize,
		r.Margin[0], r.Margin[1], r.Margin[2], r.Margin[3],
		r.Score, r.Length, int64(r.Ticks), r.Cause,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO run_moves (run_id, seq, tick, dir) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare move insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range r.Moves {
		if _, err := stmt.Exec(id, i, int64(m.Tick), m.Dir); err != nil {
			return 0, fmt.Errorf("storage: cannot save move %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, run_id, player, seed, width, height, cell_size,
	margin_top, margin_right, margin_bottom, margin_left,
	score, length, ticks, cause, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var ticks int64
	var createdAt any
	err := row.Scan(
		&r.ID, &r.RunID, &r.Player, &r.Seed, &r.Width, &r.Height, &r.CellSize,
		&r.Margin[0], &r.Margin[1], &r.Margin[2], &r.Margin[3],
		&r.Score, &r.Length, &ticks, &r.Cause, &createdAt,
	)
	if err != nil {
		return r, err
	}
	r.Ticks = uint64(ticks)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// Run retrieves a run and its moves by ID.
// Returns nil without error when no such run exists.
func (s *Store) Run(id int64) (*RunRecord, error) {
	r, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	rows, err := s.db.Query("SELECT tick, dir FROM run_moves WHERE run_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query moves: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Move
		var tick int64
		if err := rows.Scan(&tick, &m.Dir); err != nil {
			return nil, fmt.Errorf("storage: cannot scan move: %w", err)
		}
		m.Tick = uint64(tick)
		r.Moves = append(r.Moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return &r, nil
}

// RecentRuns retrieves the most recent runs, newest first, without moves.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run and its moves. Deleting a missing run is not an error.
func (s *Store) DeleteRun(id int64) error {
	if _, err := s.db.Exec("DELETE FROM run_moves WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete moves: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	return nil
}

// parseTime handles the DATETIME column coming back as either time.Time or string.
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
