// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     history
// Description: SQLite store of materialization runs
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	fserr "github.com/msto63/forsure/foundation/core/error"
	"github.com/msto63/forsure/internal/materializer"
)

// Run is a recorded materialization run
type Run struct {
	ID         string               `json:"id" yaml:"id"`
	Source     string               `json:"source,omitempty" yaml:"source,omitempty"`
	OutputDir  string               `json:"output_dir" yaml:"output_dir"`
	DryRun     bool                 `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time            `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time            `json:"finished_at" yaml:"finished_at"`
	Created    int                  `json:"created" yaml:"created"`
	Skipped    int                  `json:"skipped" yaml:"skipped"`
	Entries    []materializer.Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// Config holds the store configuration
type Config struct {
	Path string
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// Store persists runs in SQLite
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and if needed creates) the database at cfg.Path
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg = DefaultConfig()
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fserr.Wrap(err, "failed to create history directory").
			WithCode(fserr.CodeIOError).
			WithOperation("history.Open").
			WithDetail("path", dir)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, dbError(err, "failed to open database", "history.Open")
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "history.Open")
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		source TEXT,
		output_dir TEXT NOT NULL,
		dry_run INTEGER NOT NULL,
		created INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_entries (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		action TEXT NOT NULL,
		item TEXT,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores the run described by report. A report without run ID gets
// a fresh one.
func (s *Store) Record(ctx context.Context, report *materializer.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	if report.StartedAt.IsZero() {
		report.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(err, "failed to begin transaction", "history.Record")
	}
	defer tx.Rollback()

	var finished interface{}
	if !report.FinishedAt.IsZero() {
		finished = report.FinishedAt.UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, source, output_dir, dry_run, created, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, report.StartedAt.UTC(), finished, report.Source, report.BaseDir,
		report.DryRun, report.Created(), report.Skipped())
	if err != nil {
		return dbError(err, "failed to insert run", "history.Record")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_entries (run_id, seq, kind, path, action, item)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return dbError(err, "failed to prepare statement", "history.Record")
	}
	defer stmt.Close()

	for i, entry := range report.Entries {
		if _, err := stmt.ExecContext(ctx, report.RunID, i, entry.Kind, entry.Path, entry.Action, entry.Item); err != nil {
			return dbError(err, "failed to insert run entry", "history.Record")
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(err, "failed to commit transaction", "history.Record")
	}
	return nil
}

// List returns the most recent runs, newest first, without their entries.
// A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, started_at, finished_at, source, output_dir, dry_run, created, skipped
		FROM runs ORDER BY started_at DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs", "history.List")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, dbError(err, "failed to scan run", "history.List")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read runs", "history.List")
	}
	return runs, nil
}

// Get returns a run with its entries. id may be a unique prefix of the
// run ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fserr.New("run id is empty").
			WithCode(fserr.CodeInvalidInput).
			WithOperation("history.Get")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, source, output_dir, dry_run, created, skipped
		FROM runs WHERE id = ? OR substr(id, 1, ?) = ? LIMIT 2
	`, id, len(id), id)
	if err != nil {
		return nil, dbError(err, "failed to query run", "history.Get")
	}

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, dbError(err, "failed to scan run", "history.Get")
		}
		matches = append(matches, run)
	}
	rows.Close()

	switch {
	case len(matches) == 0:
		return nil, fserr.Newf("run %s not found", id).
			WithCode(fserr.CodeNotFound).
			WithOperation("history.Get")
	case len(matches) > 1:
		return nil, fserr.Newf("run id %s is ambiguous", id).
			WithCode(fserr.CodeInvalidInput).
			WithOperation("history.Get")
	}

	run := matches[0]
	entries, err := s.db.QueryContext(ctx, `
		SELECT kind, path, action, item FROM run_entries WHERE run_id = ? ORDER BY seq
	`, run.ID)
	if err != nil {
		return nil, dbError(err, "failed to query run entries", "history.Get")
	}
	defer entries.Close()

	for entries.Next() {
		var entry materializer.Entry
		var item sql.NullString
		if err := entries.Scan(&entry.Kind, &entry.Path, &entry.Action, &item); err != nil {
			return nil, dbError(err, "failed to scan run entry", "history.Get")
		}
		entry.Item = item.String
		run.Entries = append(run.Entries, entry)
	}
	if err := entries.Err(); err != nil {
		return nil, dbError(err, "failed to read run entries", "history.Get")
	}

	return run, nil
}

// Prune removes runs started more than olderThan ago and returns how many
// were removed
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbError(err, "failed to begin transaction", "history.Prune")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM run_entries WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)
	`, cutoff); err != nil {
		return 0, dbError(err, "failed to prune run entries", "history.Prune")
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune runs", "history.Prune")
	}

	if err := tx.Commit(); err != nil {
		return 0, dbError(err, "failed to commit transaction", "history.Prune")
	}

	return result.RowsAffected()
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var finished sql.NullTime
	var source sql.NullString

	if err := row.Scan(&run.ID, &run.StartedAt, &finished, &source, &run.OutputDir,
		&run.DryRun, &run.Created, &run.Skipped); err != nil {
		return nil, err
	}

	run.Source = source.String
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}

func dbError(err error, message, operation string) *fserr.Error {
	return fserr.Wrap(err, message).
		WithCode(fserr.CodeDatabaseError).
		WithOperation(operation)
}
