package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Sentinel errors callers branch on. Everything else coming out of the store
// is an unexpected storage failure and should be treated as fatal to the
// enclosing operation.
var (
	// ErrExists marks a uniqueness conflict on a named entity.
	ErrExists = errors.New("already exists")
	// ErrInvalid marks input rejected before any storage access.
	ErrInvalid = errors.New("invalid input")
)

// Store is the catalog storage engine, backed by a single local SQLite
// database. All persisted state is owned by it; other components go through
// its methods and never touch the database directly.
//
// Every operation runs in its own short-lived transaction or statement; no
// locks are held across calls. The unique constraint on links.url plus
// one-transaction-per-upsert keeps concurrent writers from duplicating
// records.
type Store struct {
	db *sql.DB
}

// New creates a Store from an already-opened and migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the catalog database at path, runs
// migrations, and returns a ready-to-use Store.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Local single-writer store. One connection sidesteps SQLITE_BUSY between
	// the pool's connections and keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	if err := NewMigrationRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return New(db), nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// timeFormat is how instants are persisted: RFC3339 UTC at second precision,
// which compares lexically in SQL.
const timeFormat = time.RFC3339

// formatTime renders t for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime tries several common SQLite timestamp formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// parseNullTime parses a nullable timestamp column, zero time for NULL.
func parseNullTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
