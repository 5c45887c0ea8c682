package config

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected
// type, default, and help text.
type ConfigKeySchema struct {
	Path        string
	Type        ConfigValueType
	Description string
	Default     interface{}
}

// KnownKeys is the registry of all known configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"repo_owner": {
		Path:        "repo_owner",
		Type:        TypeString,
		Description: "Default repository owner for changelog generation",
		Default:     "",
	},
	"repo_name": {
		Path:        "repo_name",
		Type:        TypeString,
		Description: "Default repository name for changelog generation",
		Default:     "",
	},
	"model": {
		Path:        "model",
		Type:        TypeString,
		Description: "Generation model used by the synthesizer",
		Default:     "gpt-4o-mini",
	},
	"commit_count": {
		Path:        "commit_count",
		Type:        TypeInt,
		Description: "Number of recent commits summarized in recent mode",
		Default:     10,
	},
	"batch_size": {
		Path:        "batch_size",
		Type:        TypeInt,
		Description: "Commits per batch in comprehensive mode (clamped 5-100)",
		Default:     10,
	},
	"max_entries": {
		Path:        "max_entries",
		Type:        TypeInt,
		Description: "Maximum batches per comprehensive sweep (clamped 1-50)",
		Default:     10,
	},
	"pacing": {
		Path:        "pacing",
		Type:        TypeInt,
		Description: "Seconds to wait between batches",
		Default:     2,
	},
	"database_path": {
		Path:        "database_path",
		Type:        TypeString,
		Description: "Path to the SQLite entry database",
		Default:     "~/.shiplog/shiplog.db",
	},
	"github_api_url": {
		Path:        "github_api_url",
		Type:        TypeString,
		Description: "GitHub API base URL (for GitHub Enterprise)",
		Default:     "",
	},
	"openai_api_url": {
		Path:        "openai_api_url",
		Type:        TypeString,
		Description: "Generation service base URL override",
		Default:     "",
	},
}
