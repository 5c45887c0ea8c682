// Package synthesize converts commit batches into validated changelog
// drafts via an external text-generation service. The service must return
// the structured three-field shape directly; there is no heuristic
// extraction of JSON from prose, and no retry at this layer.
package synthesize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/raveheart1/shiplog/internal/changelog"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Generator calls the OpenAI chat completions API with structured output
// enabled and enforces the draft contract on the response.
type Generator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel overrides the generation model.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithBaseURL overrides the API base URL. Used for compatible endpoints
// and for tests.
func WithBaseURL(u string) Option {
	return func(g *Generator) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Generator) {
		g.httpClient = hc
	}
}

// NewGeneratorFromEnv builds a Generator using the OPENAI_API_KEY
// environment variable. The key is never read from config files.
func NewGeneratorFromEnv(opts ...Option) (*Generator, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	return NewGenerator(key, opts...), nil
}

// NewGenerator builds a Generator with the given API key.
func NewGenerator(apiKey string, opts ...Option) *Generator {
	g := &Generator{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Synthesize generates one changelog draft for the batch. annotate adds
// the batch-context line to the request (comprehensive mode only). Every
// transport failure and every contract violation surfaces as
// changelog.ErrGenerationFailed; an empty batch is changelog.ErrEmptyInput.
func (g *Generator) Synthesize(ctx context.Context, batch changelog.Batch, annotate bool) (changelog.Draft, error) {
	if len(batch.Commits) == 0 {
		return changelog.Draft{}, changelog.ErrEmptyInput
	}

	content, err := g.complete(ctx, BuildPrompt(batch, annotate))
	if err != nil {
		return changelog.Draft{}, fmt.Errorf("%w: %v", changelog.ErrGenerationFailed, err)
	}

	draft, err := parseDraft(content)
	if err != nil {
		return changelog.Draft{}, fmt.Errorf("%w: %v", changelog.ErrGenerationFailed, err)
	}
	return draft, nil
}

// complete performs one chat-completions call and returns the raw message
// content.
func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature":     0.2,
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("generation service responded with status %s", resp.Status)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("generation service returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseDraft parses the message content strictly as the three-field draft
// shape. Unknown keys, missing fields, trailing content, and categories
// outside the closed set are all rejected; nothing is coerced.
func parseDraft(content string) (changelog.Draft, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()

	var draft changelog.Draft
	if err := dec.Decode(&draft); err != nil {
		return changelog.Draft{}, fmt.Errorf("response is not the expected JSON shape: %w", err)
	}
	if dec.More() {
		return changelog.Draft{}, errors.New("response contains trailing content after the JSON object")
	}

	if err := changelog.ValidateDraft(draft); err != nil {
		return changelog.Draft{}, err
	}
	return draft, nil
}
