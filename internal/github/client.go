// Package github implements the commit source against the GitHub REST API.
// It fetches commit metadata only; no local repository is ever inspected.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/raveheart1/shiplog/internal/changelog"
)

// MaxPageSize is the per-page ceiling GitHub enforces on the list-commits
// endpoint. Requested page sizes are clamped to it.
const MaxPageSize = 100

const defaultBaseURL = "https://api.github.com"

// Client is a minimal HTTP client for the GitHub commits API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used for GitHub Enterprise
// installs and for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a GitHub API client. The token may be empty for
// public repositories, at the cost of a much lower rate limit.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repo returns a commit source scoped to a single repository.
func (c *Client) Repo(owner, name string) *Repo {
	return &Repo{client: c, owner: owner, name: name}
}

// apiCommit mirrors the subset of the GitHub list-commits payload the
// pipeline consumes.
type apiCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// listCommits fetches one page of commits in provider order (newest
// first). A repository with zero commits yields an empty page, not an
// error; unreachable hosts, denied access, and unknown repositories all
// surface changelog.ErrSourceUnavailable.
func (c *Client) listCommits(ctx context.Context, owner, repo string, perPage, page int) ([]changelog.Commit, error) {
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	if perPage < 1 {
		perPage = 1
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?%s", c.baseURL,
		url.PathEscape(owner), url.PathEscape(repo),
		url.Values{
			"per_page": {fmt.Sprint(perPage)},
			"page":     {fmt.Sprint(page)},
		}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build commits request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", changelog.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// GitHub answers 409 for repositories with no commits at all.
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: access denied (%s)", changelog.ErrSourceUnavailable, resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: repository %s/%s not found", changelog.ErrSourceUnavailable, owner, repo)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: unexpected status %s", changelog.ErrSourceUnavailable, resp.Status)
	}

	var raw []apiCommit
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding commits response: %v", changelog.ErrSourceUnavailable, err)
	}

	commits := make([]changelog.Commit, 0, len(raw))
	for _, rc := range raw {
		commits = append(commits, convertCommit(rc))
	}
	return commits, nil
}

func convertCommit(rc apiCommit) changelog.Commit {
	headline, body := splitMessage(rc.Commit.Message)

	commit := changelog.Commit{
		SHA:         rc.SHA,
		Headline:    headline,
		Body:        body,
		AuthorName:  rc.Commit.Author.Name,
		AuthorEmail: rc.Commit.Author.Email,
	}

	if rc.Commit.Author.Date != "" {
		if ts, err := time.Parse(time.RFC3339, rc.Commit.Author.Date); err == nil {
			commit.Timestamp = &ts
		}
	}

	return commit
}

// splitMessage separates a full commit message into its first line and
// the remainder.
func splitMessage(message string) (headline, body string) {
	headline, body, _ = strings.Cut(message, "\n")
	return strings.TrimSpace(headline), strings.TrimSpace(body)
}
