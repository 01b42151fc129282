// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records the files emitted by a batch run in a SQLite
// database. The manifest is audit bookkeeping for downstream consumers; it
// holds no document content and is not a search index.
package manifest

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the run manifest database.
type Store struct {
	db    *sql.DB
	runID int64
}

// Entry describes one emitted chunk file.
type Entry struct {
	SourceFile  string
	Sheet       string
	DocType     string
	Part        int
	FileName    string
	Hash        string
	GeneratedAt string
}

// Open opens or creates the manifest database at path and begins a new run.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}

	res, err := db.Exec(`INSERT INTO runs (started_at) VALUES (?)`, timestamp())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("starting run: %w", err)
	}
	if s.runID, err = res.LastInsertId(); err != nil {
		db.Close()
		return nil, fmt.Errorf("starting run: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source_file TEXT NOT NULL,
			sheet TEXT NOT NULL,
			doc_type TEXT NOT NULL,
			part INTEGER NOT NULL,
			file_name TEXT NOT NULL,
			hash TEXT NOT NULL,
			generated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_run_id ON outputs(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one output row to the current run.
func (s *Store) Record(e Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO outputs
			(run_id, source_file, sheet, doc_type, part, file_name, hash, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, e.SourceFile, e.Sheet, e.DocType, e.Part, e.FileName, e.Hash, e.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("recording output %s: %w", e.FileName, err)
	}
	return nil
}

// Outputs returns the rows recorded for the current run, in insertion order.
func (s *Store) Outputs() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT source_file, sheet, doc_type, part, file_name, hash, generated_at
		 FROM outputs WHERE run_id = ? ORDER BY id`, s.runID)
	if err != nil {
		return nil, fmt.Errorf("querying outputs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SourceFile, &e.Sheet, &e.DocType, &e.Part,
			&e.FileName, &e.Hash, &e.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scanning output row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close marks the run finished and releases the database.
func (s *Store) Close() error {
	if _, err := s.db.Exec(
		`UPDATE runs SET finished_at = ? WHERE id = ?`, timestamp(), s.runID); err != nil {
		s.db.Close()
		return fmt.Errorf("finishing run: %w", err)
	}
	return s.db.Close()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
