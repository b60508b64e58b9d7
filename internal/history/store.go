// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of conversion runs so that copied ICC
// profiles and output locations can be found again after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ppd-mac2linux/pkg/types"
)

// defaultListLimit applies when List is called with a non-positive limit.
const defaultListLimit = 20

// Run is one recorded conversion. ConvertedAt is stored as Unix
// nanoseconds so that ordering by the column is ordering by time.
type Run struct {
	ID          int64                 `json:"id"`
	FileName    string                `json:"file_name"`
	Source      string                `json:"source"`
	Output      string                `json:"output"`
	LinesIn     int                   `json:"lines_in"`
	LinesOut    int                   `json:"lines_out"`
	Warnings    int                   `json:"warnings"`
	ConvertedAt time.Time             `json:"converted_at"`
	Profiles    []types.CopiedProfile `json:"profiles"`
}

// NewRun describes a finished conversion of doc.
func NewRun(doc types.Document, set types.ArtifactSet, now time.Time) Run {
	warnings := 0
	for _, d := range set.Diagnostics {
		if d.Level == types.LevelWarning {
			warnings++
		}
	}
	return Run{
		FileName:    doc.FileName,
		Source:      doc.SourcePath,
		Output:      set.OutputPath,
		LinesIn:     set.LinesIn,
		LinesOut:    set.LinesOut,
		Warnings:    warnings,
		ConvertedAt: now.UTC(),
		Profiles:    set.Profiles,
	}
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating its parent
// directory and schema when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_name TEXT NOT NULL,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			lines_in INTEGER NOT NULL,
			lines_out INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			converted_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_file_name ON runs(file_name)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its copied profiles, returning the new run ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (file_name, source, output, lines_in, lines_out, warnings, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.FileName, run.Source, run.Output, run.LinesIn, run.LinesOut, run.Warnings,
		run.ConvertedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, p := range run.Profiles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (run_id, position, source, destination) VALUES (?, ?, ?, ?)`,
			id, i, p.Source, p.Destination,
		); err != nil {
			return 0, fmt.Errorf("inserting profile %s: %w", p.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// List returns up to limit runs, newest first, with their profiles.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, source, output, lines_in, lines_out, warnings, converted_at
		 FROM runs ORDER BY converted_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var convertedAt int64
		if err := rows.Scan(&r.ID, &r.FileName, &r.Source, &r.Output,
			&r.LinesIn, &r.LinesOut, &r.Warnings, &convertedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.ConvertedAt = time.Unix(0, convertedAt).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		profiles, err := s.profiles(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Profiles = profiles
	}
	return runs, nil
}

func (s *Store) profiles(ctx context.Context, runID int64) ([]types.CopiedProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, destination FROM profiles WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying profiles of run %d: %w", runID, err)
	}
	defer rows.Close()

	var profiles []types.CopiedProfile
	for rows.Next() {
		var p types.CopiedProfile
		if err := rows.Scan(&p.Source, &p.Destination); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
