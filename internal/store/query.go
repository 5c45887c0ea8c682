package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/raveheart1/shiplog/internal/changelog"
)

// Filter narrows entry listings. Zero values mean no constraint.
type Filter struct {
	Category string
	Owner    string
	Repo     string
	// Search matches case-insensitively against title and description.
	Search string
	// Limit caps the number of returned entries; 0 means no cap.
	Limit int
}

// List returns persisted entries newest first, narrowed by the filter.
func (s *Store) List(ctx context.Context, f Filter) ([]changelog.Entry, error) {
	query := `
	SELECT id, title, description, category, version, repo_owner, repo_name,
		range_start, range_end, published_at, created_at, updated_at
	FROM entries`

	var conds []string
	var args []any
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Owner != "" {
		conds = append(conds, "repo_owner = ?")
		args = append(args, f.Owner)
	}
	if f.Repo != "" {
		conds = append(conds, "repo_name = ?")
		args = append(args, f.Repo)
	}
	if f.Search != "" {
		conds = append(conds, "(title LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY published_at DESC, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []changelog.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of persisted entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (changelog.Entry, error) {
	var entry changelog.Entry
	var version, owner, repo sql.NullString
	var rangeStart, rangeEnd sql.NullInt64
	var publishedAt, createdAt, updatedAt int64

	err := rows.Scan(&entry.ID, &entry.Title, &entry.Description, &entry.Category,
		&version, &owner, &repo, &rangeStart, &rangeEnd,
		&publishedAt, &createdAt, &updatedAt)
	if err != nil {
		return changelog.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	entry.Version = version.String
	entry.RepoOwner = owner.String
	entry.RepoName = repo.String
	entry.PublishedAt = time.Unix(publishedAt, 0).UTC()
	entry.CreatedAt = time.Unix(createdAt, 0).UTC()
	entry.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if rangeStart.Valid && rangeEnd.Valid {
		entry.DateRange = &changelog.DateRange{
			From: time.Unix(rangeStart.Int64, 0).UTC(),
			To:   time.Unix(rangeEnd.Int64, 0).UTC(),
		}
	}

	return entry, nil
}
