package github

import (
	"context"

	"github.com/raveheart1/shiplog/internal/changelog"
)

// Repo is a commit source bound to one repository.
type Repo struct {
	client *Client
	owner  string
	name   string
}

// Owner returns the repository owner.
func (r *Repo) Owner() string { return r.owner }

// Name returns the repository name.
func (r *Repo) Name() string { return r.name }

// FetchRecent returns up to count most-recent commits in provider order.
// A repository with zero commits returns an empty slice, not an error.
func (r *Repo) FetchRecent(ctx context.Context, count int) ([]changelog.Commit, error) {
	if count < 1 {
		count = 1
	}
	return r.client.listCommits(ctx, r.owner, r.name, count, 1)
}

// Pages returns a forward-only iterator over the repository's commit
// history, pageSize commits at a time, up to maxPages pages. The iterator
// is not restartable; a fresh sweep requires a fresh iterator.
func (r *Repo) Pages(pageSize, maxPages int) *PageIterator {
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return &PageIterator{
		repo:     r,
		pageSize: pageSize,
		maxPages: maxPages,
	}
}

// PageIterator walks paginated commit history one page at a time. The
// sweep ends when a page comes back short (history exhausted) or maxPages
// pages have been emitted. A mid-sweep fetch failure ends the sweep with
// the error; pages already emitted stay with the caller.
type PageIterator struct {
	repo     *Repo
	pageSize int
	maxPages int
	page     int
	done     bool
}

// Next fetches the next page. ok is false once the sweep is complete or
// has failed; err is non-nil only on failure.
func (it *PageIterator) Next(ctx context.Context) (commits []changelog.Commit, ok bool, err error) {
	if it.done {
		return nil, false, nil
	}
	if it.maxPages > 0 && it.page >= it.maxPages {
		it.done = true
		return nil, false, nil
	}

	it.page++
	commits, err = it.repo.client.listCommits(ctx, it.repo.owner, it.repo.name, it.pageSize, it.page)
	if err != nil {
		it.done = true
		return nil, false, err
	}

	if len(commits) < it.pageSize {
		// A short page signals the end of history.
		it.done = true
	}
	if len(commits) == 0 {
		return nil, false, nil
	}
	return commits, true, nil
}
