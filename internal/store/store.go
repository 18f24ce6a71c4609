// Package store handles SQLite persistence: projects, collections, field
// definitions, content rows and their attribute rows.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports a lookup that matched no row.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens a fresh in-memory database, used by tests.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	// The in-memory database lives per-connection.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the query executor.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Begin starts a transaction.
func (s *Store) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

func (s *Store) initialize() error {
	pragmas := `
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA cache_size = -64000;
	`
	if _, err := s.db.Exec(pragmas); err != nil {
		return fmt.Errorf("set pragmas: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid           TEXT NOT NULL UNIQUE,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		default_locale TEXT NOT NULL DEFAULT 'en',
		locales        TEXT NOT NULL DEFAULT 'en',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS collections (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (project_id, slug)
	);

	CREATE TABLE IF NOT EXISTS fields (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id    INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		label         TEXT NOT NULL DEFAULT '',
		type          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		placeholder   TEXT NOT NULL DEFAULT '',
		options       TEXT NOT NULL DEFAULT '{}',
		validations   TEXT NOT NULL DEFAULT '{}',
		position      INTEGER NOT NULL DEFAULT 0,
		UNIQUE (collection_id, name)
	);

	CREATE TABLE IF NOT EXISTS content (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id    INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		locale        TEXT NOT NULL DEFAULT '',
		created_by    INTEGER,
		updated_by    INTEGER,
		published_by  INTEGER,
		published_at  TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		deleted_at    TEXT
	);

	CREATE TABLE IF NOT EXISTS attributes (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id    INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		content_id    INTEGER NOT NULL REFERENCES content(id) ON DELETE CASCADE,
		field_name    TEXT NOT NULL,
		value         TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		deleted_at    TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_content_scope ON content(project_id, collection_id);
	CREATE INDEX IF NOT EXISTS idx_attributes_content ON attributes(content_id, field_name);
	CREATE INDEX IF NOT EXISTS idx_attributes_value ON attributes(collection_id, field_name, value);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Stats reports row counts for diagnostics.
type Stats struct {
	Projects    int
	Collections int
	Fields      int
	Content     int
	Attributes  int
}

// Stats counts rows per table.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{}
	for _, q := range []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM projects", &st.Projects},
		{"SELECT COUNT(*) FROM collections", &st.Collections},
		{"SELECT COUNT(*) FROM fields", &st.Fields},
		{"SELECT COUNT(*) FROM content WHERE deleted_at IS NULL", &st.Content},
		{"SELECT COUNT(*) FROM attributes WHERE deleted_at IS NULL", &st.Attributes},
	} {
		if err := s.db.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("count rows: %w", err)
		}
	}
	return st, nil
}

// nowUTC is the canonical stored timestamp form. RFC 3339 UTC strings sort
// chronologically and are understood by sqlite's date functions.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
