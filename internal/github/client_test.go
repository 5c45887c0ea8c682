package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/shiplog/internal/changelog"
)

// commitServer serves a synthetic history of n commits, newest first,
// honoring per_page and page query parameters the way GitHub does.
func commitServer(t *testing.T, n int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		require.GreaterOrEqual(t, perPage, 1)
		require.LessOrEqual(t, perPage, MaxPageSize)
		require.GreaterOrEqual(t, page, 1)

		start := (page - 1) * perPage
		var payload []map[string]any
		for i := start; i < start+perPage && i < n; i++ {
			payload = append(payload, map[string]any{
				"sha": fmt.Sprintf("sha-%04d", i),
				"commit": map[string]any{
					"message": fmt.Sprintf("commit %d\n\ndetails for %d", i, i),
					"author": map[string]any{
						"name":  "Dana",
						"email": "dana@example.com",
						"date":  "2026-03-10T12:00:00Z",
					},
				},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if payload == nil {
			fmt.Fprint(w, "[]")
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
}

func newTestRepo(t *testing.T, srv *httptest.Server) *Repo {
	t.Helper()
	return NewClient("", WithBaseURL(srv.URL)).Repo("octo", "widgets")
}

func TestFetchRecent(t *testing.T) {
	t.Parallel()

	srv := commitServer(t, 30)
	defer srv.Close()

	commits, err := newTestRepo(t, srv).FetchRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, commits, 5)

	assert.Equal(t, "sha-0000", commits[0].SHA)
	assert.Equal(t, "commit 0", commits[0].Headline)
	assert.Equal(t, "details for 0", commits[0].Body)
	assert.Equal(t, "Dana", commits[0].AuthorName)
	assert.Equal(t, "dana@example.com", commits[0].AuthorEmail)
	require.NotNil(t, commits[0].Timestamp)
}

func TestFetchRecent_EmptyRepository(t *testing.T) {
	t.Parallel()

	srv := commitServer(t, 0)
	defer srv.Close()

	commits, err := newTestRepo(t, srv).FetchRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestFetchRecent_NoCommitsConflict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// GitHub's answer for a repository with an empty git database.
		http.Error(w, `{"message":"Git Repository is empty."}`, http.StatusConflict)
	}))
	defer srv.Close()

	commits, err := newTestRepo(t, srv).FetchRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestFetchRecent_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status int
	}{
		"unauthorized":     {status: http.StatusUnauthorized},
		"forbidden":        {status: http.StatusForbidden},
		"unknown repo":     {status: http.StatusNotFound},
		"server error":     {status: http.StatusInternalServerError},
		"rate limit style": {status: http.StatusForbidden},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"nope"}`, tc.status)
			}))
			defer srv.Close()

			_, err := newTestRepo(t, srv).FetchRecent(context.Background(), 10)
			assert.ErrorIs(t, err, changelog.ErrSourceUnavailable)
		})
	}
}

func TestFetchRecent_UnreachableHost(t *testing.T) {
	t.Parallel()

	repo := NewClient("", WithBaseURL("http://127.0.0.1:1")).Repo("octo", "widgets")
	_, err := repo.FetchRecent(context.Background(), 10)
	assert.ErrorIs(t, err, changelog.ErrSourceUnavailable)
}

func TestFetchRecent_SendsAuthHeader(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	repo := NewClient("tok123", WithBaseURL(srv.URL)).Repo("octo", "widgets")
	_, err := repo.FetchRecent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestPages_EmitsAllCommits(t *testing.T) {
	t.Parallel()

	// ceil(N / pageSize) pages and N total commits, for a spread of sizes.
	tests := map[string]struct {
		history   int
		pageSize  int
		wantPages int
	}{
		"exact multiple":      {history: 30, pageSize: 10, wantPages: 3},
		"trailing short page": {history: 25, pageSize: 10, wantPages: 3},
		"page size one":       {history: 4, pageSize: 1, wantPages: 4},
		"single page":         {history: 7, pageSize: 50, wantPages: 1},
		"provider ceiling":    {history: 150, pageSize: 100, wantPages: 2},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := commitServer(t, tc.history)
			defer srv.Close()

			it := newTestRepo(t, srv).Pages(tc.pageSize, 0)

			var pages, total int
			seen := make(map[string]bool)
			for {
				commits, ok, err := it.Next(context.Background())
				require.NoError(t, err)
				if !ok {
					break
				}
				pages++
				total += len(commits)
				for _, c := range commits {
					assert.False(t, seen[c.SHA], "commit %s emitted twice", c.SHA)
					seen[c.SHA] = true
				}
			}

			assert.Equal(t, tc.wantPages, pages)
			assert.Equal(t, tc.history, total)
		})
	}
}

func TestPages_MaxPagesBound(t *testing.T) {
	t.Parallel()

	srv := commitServer(t, 100)
	defer srv.Close()

	it := newTestRepo(t, srv).Pages(10, 3)

	var pages int
	for {
		_, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		pages++
	}
	assert.Equal(t, 3, pages)
}

func TestPages_ClampsPageSize(t *testing.T) {
	t.Parallel()

	var gotPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	it := newTestRepo(t, srv).Pages(500, 1)
	_, _, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100", gotPerPage)
}

func TestPages_MidSweepFailure(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 2 {
			http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
			return
		}
		var payload []map[string]any
		for i := 0; i < 5; i++ {
			payload = append(payload, map[string]any{
				"sha":    fmt.Sprintf("c%d-%d", calls, i),
				"commit": map[string]any{"message": "m"},
			})
		}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer srv.Close()

	it := newTestRepo(t, srv).Pages(5, 0)

	var emitted int
	for {
		commits, ok, err := it.Next(context.Background())
		if err != nil {
			assert.ErrorIs(t, err, changelog.ErrSourceUnavailable)
			break
		}
		require.True(t, ok)
		emitted += len(commits)
	}

	// The two pages emitted before the failure stay with the caller.
	assert.Equal(t, 10, emitted)

	// The iterator is forward-only and stays finished after a failure.
	_, ok, err := it.Next(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message      string
		wantHeadline string
		wantBody     string
	}{
		"headline only":       {message: "fix bug", wantHeadline: "fix bug"},
		"headline and body":   {message: "fix bug\n\nlong story", wantHeadline: "fix bug", wantBody: "long story"},
		"trailing newline":    {message: "fix bug\n", wantHeadline: "fix bug"},
		"empty message":       {message: ""},
		"multi paragraph":     {message: "a\n\nb\n\nc", wantHeadline: "a", wantBody: "b\n\nc"},
		"windows line ending": {message: "fix bug\r\nbody", wantHeadline: "fix bug", wantBody: "body"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			headline, body := splitMessage(tc.message)
			assert.Equal(t, tc.wantHeadline, headline)
			assert.Equal(t, tc.wantBody, body)
		})
	}
}
