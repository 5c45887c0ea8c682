// Package config provides hierarchical configuration management for
// shiplog using koanf. Configuration is loaded with priority: environment
// variables (SHIPLOG_*) > project config (.shiplog/config.yml) > user
// config (~/.config/shiplog/config.yml) > defaults. Credentials (GitHub
// token, OpenAI key) are read from the environment only and never live in
// config files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SHIPLOG_"

// Configuration represents the shiplog CLI configuration.
type Configuration struct {
	// RepoOwner/RepoName identify the default repository to generate
	// changelogs for. Overridable per run with --owner/--repo.
	RepoOwner string `koanf:"repo_owner"`
	RepoName  string `koanf:"repo_name"`

	// Model is the generation model used by the synthesizer.
	Model string `koanf:"model"`

	// CommitCount is the default number of commits in recent mode.
	CommitCount int `koanf:"commit_count"`
	// BatchSize is the default commits-per-batch in comprehensive mode.
	BatchSize int `koanf:"batch_size"`
	// MaxEntries is the default batch cap in comprehensive mode.
	MaxEntries int `koanf:"max_entries"`

	// PacingSeconds is the delay between batches, respecting the
	// generation service's rate limits.
	PacingSeconds int `koanf:"pacing"`

	// DatabasePath locates the SQLite entry store.
	DatabasePath string `koanf:"database_path"`

	// GitHubAPIURL overrides the commit source base URL (GitHub
	// Enterprise installs). Empty means api.github.com.
	GitHubAPIURL string `koanf:"github_api_url"`
	// OpenAIAPIURL overrides the generation service base URL. Empty means
	// the OpenAI default.
	OpenAIAPIURL string `koanf:"openai_api_url"`
}

// Load loads configuration from user, project, and environment sources.
// projectConfigPath overrides the project config location; empty means
// .shiplog/config.yml.
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if path := UserConfigPath(); path != "" {
		if err := loadFileIfPresent(k, path); err != nil {
			return nil, err
		}
	}

	if projectConfigPath == "" {
		projectConfigPath = filepath.Join(".shiplog", "config.yml")
	}
	if err := loadFileIfPresent(k, projectConfigPath); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) {
	for key, schema := range KnownKeys {
		// Load never fails for the confmap-free default set; keys are set
		// one at a time so file layers can override individually.
		_ = k.Set(key, schema.Default)
	}
}

func loadFileIfPresent(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	return nil
}

func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

// UserConfigPath returns the XDG-compliant user config location, or empty
// if the home directory cannot be determined.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shiplog", "config.yml")
}
