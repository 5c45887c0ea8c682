package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raveheart1/shiplog/internal/config"
	"github.com/raveheart1/shiplog/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage shiplog configuration",
	Long: `Manage shiplog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (SHIPLOG_*)
  2. Project config (.shiplog/config.yml)
  3. User config (~/.config/shiplog/config.yml)
  4. Built-in defaults

Credentials (GITHUB_TOKEN, OPENAI_API_KEY) are environment-only and are
never read from config files.`,
	Example: `  # Show the effective configuration
  shiplog config show

  # List every known key with its type and default
  shiplog config keys

  # Write a commented project config template
  shiplog config init`,
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Show the effective configuration",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return errors.Wrap(err, errors.Configuration)
		}

		rendered, err := yaml.Marshal(effectiveValues(cfg))
		if err != nil {
			return errors.Wrap(err, errors.Runtime)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(rendered))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:          "path",
	Short:        "Print config file locations and whether each exists",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		project, _ := cmd.Flags().GetString("config")
		if project == "" {
			project = filepath.Join(".shiplog", "config.yml")
		}

		paths := []struct{ label, path string }{
			{"project", project},
			{"user", config.UserConfigPath()},
		}
		for _, p := range paths {
			status := "missing"
			if p.path != "" {
				if _, err := os.Stat(p.path); err == nil {
					status = "exists"
				}
			}
			fmt.Fprintf(out, "%-8s %s (%s)\n", p.label, p.path, status)
		}
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:          "keys",
	Short:        "List all known configuration keys",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		bold := color.New(color.Bold).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()

		keys := make([]string, 0, len(config.KnownKeys))
		for key := range config.KnownKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			schema := config.KnownKeys[key]
			fmt.Fprintf(out, "%s %s\n", bold(key), dim("("+schema.Type.String()+")"))
			fmt.Fprintf(out, "  %s (default: %v)\n", schema.Description, schema.Default)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write a commented project config template",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(".shiplog", "config.yml")
		if _, err := os.Stat(path); err == nil {
			return errors.NewConfigError(
				fmt.Sprintf("config file already exists at %s", path),
				"edit the existing file, or remove it and rerun 'shiplog config init'")
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrap(err, errors.Configuration)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return errors.Wrap(err, errors.Configuration)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// effectiveValues flattens the loaded configuration into the yaml shape
// the config files use.
func effectiveValues(cfg *config.Configuration) map[string]any {
	return map[string]any{
		"repo_owner":     cfg.RepoOwner,
		"repo_name":      cfg.RepoName,
		"model":          cfg.Model,
		"commit_count":   cfg.CommitCount,
		"batch_size":     cfg.BatchSize,
		"max_entries":    cfg.MaxEntries,
		"pacing":         cfg.PacingSeconds,
		"database_path":  cfg.DatabasePath,
		"github_api_url": cfg.GitHubAPIURL,
		"openai_api_url": cfg.OpenAIAPIURL,
	}
}
