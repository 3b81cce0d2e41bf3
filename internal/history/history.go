// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists completed research runs in a SQLite archive so
// past questions and answers can be listed without re-running the pipeline.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deep-research/pkg/types"
)

const defaultMaxResults = 20

// Store manages the research run archive.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Entry is one archived research run.
type Entry struct {
	ID         string        `json:"id"`
	Question   string        `json:"question"`
	Backends   []string      `json:"backends"`
	Answer     string        `json:"answer"`
	Confidence float64       `json:"confidence"`
	Sources    int           `json:"sources"`
	Duration   time.Duration `json:"duration"`
	Created    time.Time     `json:"created"`
}

// Open opens or creates the archive database at path and creates the schema
// if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = "deep-research.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		backends TEXT NOT NULL,
		answer TEXT,
		confidence REAL,
		sources INTEGER,
		duration_ms INTEGER,
		created TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created)`)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	return nil
}

// Save archives one completed research run.
func (s *Store) Save(ctx context.Context, result *types.ResearchResult) error {
	backendsJSON, err := json.Marshal(result.Query.Backends)
	if err != nil {
		return fmt.Errorf("marshaling backends: %w", err)
	}

	answer := ""
	confidence := 0.0
	if result.Answer != nil {
		answer = result.Answer.Content
		confidence = result.Answer.Confidence
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, question, backends, answer, confidence, sources, duration_ms, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Query.ID, result.Query.Text, string(backendsJSON),
		answer, confidence, len(result.Results),
		result.Duration.Milliseconds(),
		result.Started.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", result.Query.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 applies the
// configured default.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, backends, answer, confidence, sources, duration_ms, created
		 FROM runs ORDER BY created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var backendsJSON, created string
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.Question, &backendsJSON, &e.Answer,
			&e.Confidence, &e.Sources, &durationMS, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := json.Unmarshal([]byte(backendsJSON), &e.Backends); err != nil {
			return nil, fmt.Errorf("parsing backends for run %s: %w", e.ID, err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if t, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
			e.Created = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
