// Package store persists generated changelog entries in SQLite. The
// store is the sole assigner of entry identity and publication time;
// entries are append-only and never mutated or deleted by the pipeline.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/raveheart1/shiplog/internal/changelog"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	category     TEXT NOT NULL,
	version      TEXT,
	repo_owner   TEXT,
	repo_name    TEXT,
	range_start  INTEGER,
	range_end    INTEGER,
	published_at INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category);
CREATE INDEX IF NOT EXISTS idx_entries_repo ON entries(repo_owner, repo_name);
`

// Store is a SQLite-backed entry store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the entry database at path. The
// database runs in WAL mode with a single writer, matching SQLite's
// concurrency model.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open entry database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply entry schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PersistOptions enumerates every recognized persistence option and its
// default. Callers never pass an open-ended bag of settings.
type PersistOptions struct {
	// Version is an optional version label stored with the entry.
	Version string
	// DateRange is the commit date span the entry covers; set only in
	// comprehensive mode.
	DateRange *changelog.DateRange
	// DryRun skips all durable writes and fabricates the entry that a
	// live write would have produced.
	DryRun bool
	// RepoOwner/RepoName record where the commits came from.
	RepoOwner string
	RepoName  string
}

// Persist validates the draft and writes one changelog entry, assigning
// its id and publication time. With DryRun the same validation runs but
// no durable write happens; the returned entry carries a sentinel id.
// Validation failures surface as changelog.ErrInvalidDraft and store
// rejections as changelog.ErrPersistenceFailed.
func (s *Store) Persist(ctx context.Context, draft changelog.Draft, opts PersistOptions) (changelog.Entry, error) {
	// Last line of defense against writing a malformed entry.
	if err := changelog.ValidateRequired(draft); err != nil {
		return changelog.Entry{}, fmt.Errorf("%w: %v", changelog.ErrInvalidDraft, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	entry := changelog.Entry{
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Version:     opts.Version,
		RepoOwner:   opts.RepoOwner,
		RepoName:    opts.RepoName,
		DateRange:   opts.DateRange,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if opts.DryRun {
		entry.ID = "dry-run-" + uuid.NewString()
		return entry, nil
	}

	entry.ID = uuid.NewString()

	var rangeStart, rangeEnd sql.NullInt64
	if opts.DateRange != nil {
		rangeStart = sql.NullInt64{Int64: opts.DateRange.From.Unix(), Valid: true}
		rangeEnd = sql.NullInt64{Int64: opts.DateRange.To.Unix(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO entries (id, title, description, category, version, repo_owner, repo_name,
		range_start, range_end, published_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Title, entry.Description, entry.Category,
		nullString(entry.Version), nullString(entry.RepoOwner), nullString(entry.RepoName),
		rangeStart, rangeEnd,
		now.Unix(), now.Unix(), now.Unix(),
	)
	if err != nil {
		return changelog.Entry{}, fmt.Errorf("%w: %v", changelog.ErrPersistenceFailed, err)
	}

	return entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
