package synthesize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/shiplog/internal/changelog"
)

func testBatch(t *testing.T) changelog.Batch {
	t.Helper()

	when := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	batch, err := changelog.PartitionPage(2, []changelog.Commit{
		{SHA: "abc12345", Timestamp: &when, Headline: "Add paginated fetch", AuthorName: "Dana"},
		{SHA: "def67890", Timestamp: &when, Headline: "Fix range bookkeeping", AuthorName: "Lee"},
	})
	require.NoError(t, err)
	return batch
}

// completionServer answers every chat-completions call with content as
// the message body.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestSynthesize(t *testing.T) {
	t.Parallel()

	srv := completionServer(t, `{
		"title": "Faster history sweeps",
		"description": "Commit history is now fetched page by page. Ranges are tracked per batch. Nothing is lost on partial failure.",
		"category": "Enhancement"
	}`)
	defer srv.Close()

	g := NewGenerator("key", WithBaseURL(srv.URL))
	draft, err := g.Synthesize(context.Background(), testBatch(t), true)
	require.NoError(t, err)

	assert.Equal(t, "Faster history sweeps", draft.Title)
	assert.Equal(t, "Enhancement", draft.Category)
	assert.NotEmpty(t, draft.Description)
}

func TestSynthesize_EmptyBatch(t *testing.T) {
	t.Parallel()

	g := NewGenerator("key")
	_, err := g.Synthesize(context.Background(), changelog.Batch{SequenceNumber: 1}, false)
	assert.ErrorIs(t, err, changelog.ErrEmptyInput)
}

func TestSynthesize_ContractViolations(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
	}{
		"missing category": {
			content: `{"title": "T", "description": "A fine paragraph of prose."}`,
		},
		"empty category": {
			content: `{"title": "T", "description": "A fine paragraph of prose.", "category": ""}`,
		},
		"category outside closed set": {
			content: `{"title": "T", "description": "A fine paragraph of prose.", "category": "Improvement"}`,
		},
		"missing title": {
			content: `{"description": "A fine paragraph of prose.", "category": "Other"}`,
		},
		"extra keys rejected": {
			content: `{"title": "T", "description": "Prose.", "category": "Other", "entries": []}`,
		},
		"bulleted description": {
			content: `{"title": "T", "description": "- one\n- two", "category": "Other"}`,
		},
		"json wrapped in prose": {
			content: `Here is your changelog: {"title": "T", "description": "Prose.", "category": "Other"}`,
		},
		"markdown fenced json": {
			content: "```json\n{\"title\": \"T\", \"description\": \"Prose.\", \"category\": \"Other\"}\n```",
		},
		"trailing content": {
			content: `{"title": "T", "description": "Prose.", "category": "Other"} trailing`,
		},
		"not json at all": {
			content: `Sorry, I cannot do that.`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := completionServer(t, tc.content)
			defer srv.Close()

			g := NewGenerator("key", WithBaseURL(srv.URL))
			_, err := g.Synthesize(context.Background(), testBatch(t), false)
			assert.ErrorIs(t, err, changelog.ErrGenerationFailed)
		})
	}
}

func TestSynthesize_TransportFailures(t *testing.T) {
	t.Parallel()

	t.Run("http error status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		g := NewGenerator("key", WithBaseURL(srv.URL))
		_, err := g.Synthesize(context.Background(), testBatch(t), false)
		assert.ErrorIs(t, err, changelog.ErrGenerationFailed)
	})

	t.Run("no choices", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices": []}`)
		}))
		defer srv.Close()

		g := NewGenerator("key", WithBaseURL(srv.URL))
		_, err := g.Synthesize(context.Background(), testBatch(t), false)
		assert.ErrorIs(t, err, changelog.ErrGenerationFailed)
	})

	t.Run("unreachable host", func(t *testing.T) {
		t.Parallel()

		g := NewGenerator("key", WithBaseURL("http://127.0.0.1:1"))
		_, err := g.Synthesize(context.Background(), testBatch(t), false)
		assert.ErrorIs(t, err, changelog.ErrGenerationFailed)
	})
}

func TestSynthesize_RequestsStructuredOutput(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"title":"T","description":"Prose only here.","category":"Other"}`}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	g := NewGenerator("key", WithBaseURL(srv.URL), WithModel("test-model"))
	_, err := g.Synthesize(context.Background(), testBatch(t), false)
	require.NoError(t, err)

	assert.Equal(t, "test-model", gotBody["model"])
	rf, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", rf["type"])
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	batch := testBatch(t)

	annotated := BuildPrompt(batch, true)
	assert.Contains(t, annotated, "batch 2")
	assert.Contains(t, annotated, "abc12345")
	assert.Contains(t, annotated, "Add paginated fetch")
	assert.Contains(t, annotated, `"category"`)
	assert.Contains(t, annotated, "New Feature | Enhancement | Bug Fix | Breaking Change | Performance | Documentation | Other")

	plain := BuildPrompt(batch, false)
	assert.NotContains(t, plain, "batch 2 of the repository history")
}
