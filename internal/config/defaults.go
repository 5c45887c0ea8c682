package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GetDefaultConfigTemplate returns a fully commented config template that
// documents every available option.
func GetDefaultConfigTemplate() string {
	return `# shiplog configuration
# See 'shiplog config keys' for all options.

# Repository (overridable per run with --owner/--repo)
repo_owner: ""                 # Default repository owner
repo_name: ""                  # Default repository name

# Generation
model: gpt-4o-mini             # Generation model
pacing: 2                      # Seconds between batches (rate-limit friendliness)

# Pipeline defaults
commit_count: 10               # Recent mode: commits to summarize (>= 1)
batch_size: 10                 # Comprehensive mode: commits per batch (5-100)
max_entries: 10                # Comprehensive mode: max batches (1-50)

# Storage
database_path: ~/.shiplog/shiplog.db

# Endpoint overrides (rarely needed)
github_api_url: ""             # GitHub Enterprise base URL
openai_api_url: ""             # Alternate OpenAI-compatible endpoint

# Credentials are environment-only and never read from this file:
#   GITHUB_TOKEN     GitHub API token
#   OPENAI_API_KEY   Generation service key
`
}

// ExpandHomePath expands a leading ~ to the user's home directory.
func ExpandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
