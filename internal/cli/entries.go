package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raveheart1/shiplog/internal/changelog"
	"github.com/raveheart1/shiplog/internal/config"
	"github.com/raveheart1/shiplog/internal/errors"
	"github.com/raveheart1/shiplog/internal/store"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List persisted changelog entries",
	Long: `List persisted changelog entries, newest first.

Entries can be narrowed by category, repository, or a case-insensitive
text search against titles and descriptions.

Examples:
  shiplog entries
  shiplog entries --category "Bug Fix" --limit 5
  shiplog entries --owner octo --repo widgets --search pagination`,
	SilenceUsage: true,
	RunE:         runEntries,
}

func init() {
	rootCmd.AddCommand(entriesCmd)

	entriesCmd.Flags().String("category", "", "Filter by category")
	entriesCmd.Flags().String("owner", "", "Filter by repository owner")
	entriesCmd.Flags().String("repo", "", "Filter by repository name")
	entriesCmd.Flags().String("search", "", "Case-insensitive title/description search")
	entriesCmd.Flags().Int("limit", 0, "Maximum entries to show (0 = all)")
}

func runEntries(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	if category != "" && !changelog.ValidCategory(category) {
		return errors.NewArgumentError(
			fmt.Sprintf("unknown category %q", category),
			"valid categories: "+strings.Join(changelog.Categories(), ", "))
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, errors.Configuration)
	}

	entryStore, err := store.Open(config.ExpandHomePath(cfg.DatabasePath))
	if err != nil {
		return errors.Wrap(err, errors.Persistence)
	}
	defer entryStore.Close()

	owner, _ := cmd.Flags().GetString("owner")
	repo, _ := cmd.Flags().GetString("repo")
	search, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := entryStore.List(cmd.Context(), store.Filter{
		Category: category,
		Owner:    owner,
		Repo:     repo,
		Search:   search,
		Limit:    limit,
	})
	if err != nil {
		return errors.Wrap(err, errors.Persistence)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return nil
	}

	for i, entry := range entries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printEntry(cmd, entry)
	}
	return nil
}

func printEntry(cmd *cobra.Command, entry changelog.Entry) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", bold(entry.Title), cyan("["+entry.Category+"]"))

	var meta []string
	if entry.Version != "" {
		meta = append(meta, entry.Version)
	}
	if entry.RepoOwner != "" && entry.RepoName != "" {
		meta = append(meta, entry.RepoOwner+"/"+entry.RepoName)
	}
	meta = append(meta, entry.PublishedAt.Format(time.DateOnly))
	fmt.Fprintf(out, "%s\n", dim(strings.Join(meta, " · ")))

	fmt.Fprintln(out, entry.Description)
}
