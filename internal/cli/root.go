// Package cli implements the shiplog command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/raveheart1/shiplog/internal/errors"
	"github.com/raveheart1/shiplog/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "shiplog",
	Short: "Generate changelog entries from commit history with AI",
	Long: `shiplog turns a repository's commit history into human-readable,
categorized changelog entries via a text-generation service.

Commit history is fetched from the GitHub API, partitioned into bounded
batches, summarized one batch at a time, and persisted to a local SQLite
database.`,
	Version:       version.String(),
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to project config file (default .shiplog/config.yml)")
}

// Execute runs the root command and returns the process exit code. Errors
// are rendered with category and remediation guidance before returning.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	cliErr := errors.AsCLIError(err)
	if cliErr == nil {
		cliErr = errors.Wrap(err, categoryFor(err), remediationFor(err)...)
	}
	errors.PrintError(cliErr)

	return ExitCode(err)
}
