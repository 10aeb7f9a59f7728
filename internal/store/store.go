// Package store persists evaluation history and the translation memory in
// SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluation_runs (
		id TEXT PRIMARY KEY,
		models TEXT NOT NULL,
		samples INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS evaluation_scores (
		run_id TEXT NOT NULL,
		model TEXT NOT NULL,
		metric TEXT NOT NULL,
		score REAL NOT NULL,
		PRIMARY KEY (run_id, model, metric),
		FOREIGN KEY (run_id) REFERENCES evaluation_runs(id)
	);

	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		translator TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		style TEXT NOT NULL DEFAULT '',
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		source_text TEXT NOT NULL,
		translation TEXT NOT NULL,
		hits INTEGER NOT NULL DEFAULT 0,
		invalidated BOOLEAN NOT NULL DEFAULT FALSE,
		last_used TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(translator, model, style, source_lang, target_lang, source_text)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_translator ON translation_memory(translator);
	CREATE INDEX IF NOT EXISTS idx_scores_model ON evaluation_scores(model);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
