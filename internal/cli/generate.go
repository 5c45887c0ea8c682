package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raveheart1/shiplog/internal/changelog"
	"github.com/raveheart1/shiplog/internal/config"
	"github.com/raveheart1/shiplog/internal/errors"
	"github.com/raveheart1/shiplog/internal/github"
	"github.com/raveheart1/shiplog/internal/output"
	"github.com/raveheart1/shiplog/internal/pipeline"
	"github.com/raveheart1/shiplog/internal/progress"
	"github.com/raveheart1/shiplog/internal/store"
	"github.com/raveheart1/shiplog/internal/synthesize"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate changelog entries from a repository's commit history",
	Long: `Generate changelog entries from a repository's commit history.

Two modes are available:
  recent         one entry summarizing the N most recent commits (default)
  comprehensive  sweep the full paginated history into one entry per batch

In comprehensive mode a failing batch is recorded and skipped; the sweep
continues so one bad batch never discards completed work. Batches are
processed strictly in sequence with a pacing delay between them to respect
the generation service's rate limits.

Credentials come from the environment: GITHUB_TOKEN (optional for public
repositories) and OPENAI_API_KEY (required).

Examples:
  # Summarize the 10 most recent commits
  shiplog generate --owner octo --repo widgets

  # Sweep the full history, 20 commits per batch, at most 15 entries
  shiplog generate --owner octo --repo widgets --mode comprehensive \
    --batch-size 20 --max-entries 15 --version v2.0

  # Preview without writing anything
  shiplog generate --owner octo --repo widgets --dry-run`,
	SilenceUsage: true,
	RunE:         runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("mode", "recent", "Pipeline mode: recent | comprehensive")
	generateCmd.Flags().String("owner", "", "Repository owner")
	generateCmd.Flags().String("repo", "", "Repository name")
	generateCmd.Flags().Int("count", 0, "Recent mode: number of commits to summarize (default 10)")
	generateCmd.Flags().Int("batch-size", 0, "Comprehensive mode: commits per batch (clamped 5-100, default 10)")
	generateCmd.Flags().Int("max-entries", 0, "Comprehensive mode: maximum batches (clamped 1-50, default 10)")
	generateCmd.Flags().String("version", "", "Version label (recent) or label prefix (comprehensive)")
	generateCmd.Flags().Bool("dry-run", false, "Validate and generate without writing entries")
	generateCmd.Flags().Int("pacing", -1, "Seconds between batches (overrides config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	if mode != string(changelog.ModeRecent) && mode != string(changelog.ModeComprehensive) {
		argErr := errors.NewArgumentError(
			fmt.Sprintf("unknown mode %q", mode),
			"use --mode recent or --mode comprehensive")
		argErr.Usage = "shiplog generate --mode <recent|comprehensive> [flags]"
		return argErr
	}

	count, _ := cmd.Flags().GetInt("count")
	if cmd.Flags().Changed("count") && count < 1 {
		return errors.NewArgumentError("--count must be at least 1")
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, errors.Configuration)
	}

	owner, _ := cmd.Flags().GetString("owner")
	repo, _ := cmd.Flags().GetString("repo")
	if owner == "" {
		owner = cfg.RepoOwner
	}
	if repo == "" {
		repo = cfg.RepoName
	}
	if owner == "" || repo == "" {
		return errors.NewArgumentError("repository not specified",
			"pass --owner and --repo",
			"or set repo_owner/repo_name in .shiplog/config.yml")
	}

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	if batchSize == 0 {
		batchSize = cfg.BatchSize
	}
	maxEntries, _ := cmd.Flags().GetInt("max-entries")
	if maxEntries == 0 {
		maxEntries = cfg.MaxEntries
	}
	if count == 0 {
		count = cfg.CommitCount
	}
	versionLabel, _ := cmd.Flags().GetString("version")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	pacing := time.Duration(cfg.PacingSeconds) * time.Second
	if flagPacing, _ := cmd.Flags().GetInt("pacing"); flagPacing >= 0 {
		pacing = time.Duration(flagPacing) * time.Second
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	entryStore, err := store.Open(config.ExpandHomePath(cfg.DatabasePath))
	if err != nil {
		return errors.Wrap(err, errors.Persistence)
	}
	defer entryStore.Close()

	var githubOpts []github.Option
	if cfg.GitHubAPIURL != "" {
		githubOpts = append(githubOpts, github.WithBaseURL(cfg.GitHubAPIURL))
	}
	source := github.NewClient(os.Getenv("GITHUB_TOKEN"), githubOpts...).Repo(owner, repo)

	out := cmd.OutOrStdout()
	output.PrintRunHeader(out, owner, repo, mode)

	p := pipeline.New(
		repoSource{source},
		spinnerSynthesizer{inner: generator, caps: progress.DetectTerminalCapabilities()},
		entryStore,
		pipeline.WithPacing(pacing),
		pipeline.WithOutput(out),
	)

	report, runErr := p.Run(cmd.Context(), pipeline.RunOptions{
		Mode:        changelog.Mode(mode),
		CommitCount: count,
		BatchSize:   batchSize,
		MaxEntries:  maxEntries,
		Version:     versionLabel,
		DryRun:      dryRun,
		RepoOwner:   owner,
		RepoName:    repo,
	})

	// A partial report from a mid-sweep failure is still printed; the
	// completed batches are not discarded.
	if report != nil {
		output.PrintReportSummary(out, report.BatchesAttempted, report.BatchesSucceeded,
			report.FailedSequences())
	}
	return runErr
}

func newGenerator(cfg *config.Configuration) (*synthesize.Generator, error) {
	opts := []synthesize.Option{synthesize.WithModel(cfg.Model)}
	if cfg.OpenAIAPIURL != "" {
		opts = append(opts, synthesize.WithBaseURL(cfg.OpenAIAPIURL))
	}

	generator, err := synthesize.NewGeneratorFromEnv(opts...)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(),
			"export OPENAI_API_KEY with a valid generation service key")
	}
	return generator, nil
}

// repoSource adapts github.Repo's concrete iterator to the pipeline's
// source interface.
type repoSource struct {
	*github.Repo
}

func (r repoSource) Pages(pageSize, maxPages int) pipeline.PageIterator {
	return r.Repo.Pages(pageSize, maxPages)
}

// spinnerSynthesizer shows a terminal spinner while a generation call is
// in flight. Non-terminal output gets no spinner.
type spinnerSynthesizer struct {
	inner pipeline.Synthesizer
	caps  progress.TerminalCapabilities
}

func (s spinnerSynthesizer) Synthesize(ctx context.Context, batch changelog.Batch, annotate bool) (changelog.Draft, error) {
	sp := progress.NewSpinner(s.caps,
		fmt.Sprintf("generating entry for batch %d...", batch.SequenceNumber))
	sp.Start()
	defer sp.Stop()

	return s.inner.Synthesize(ctx, batch, annotate)
}
