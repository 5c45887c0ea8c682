// Package pipeline orchestrates the changelog generation run: fetch
// commits, partition into batches, synthesize one draft per batch, and
// persist the results. Batches are processed strictly in sequence, never
// concurrently: the generation service is rate-limited per caller, and
// sequential processing keeps report ordering aligned with history page
// order without a merge step.
package pipeline

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/raveheart1/shiplog/internal/changelog"
	"github.com/raveheart1/shiplog/internal/output"
	"github.com/raveheart1/shiplog/internal/store"
)

// CommitSource fetches commit metadata from the remote history provider.
type CommitSource interface {
	// FetchRecent returns up to count most-recent commits in provider
	// order. A repository with zero commits returns an empty slice.
	FetchRecent(ctx context.Context, count int) ([]changelog.Commit, error)
	// Pages returns a forward-only iterator over paginated history.
	Pages(pageSize, maxPages int) PageIterator
}

// PageIterator yields raw commit pages until history or the page budget
// is exhausted. It is forward-only and not restartable mid-sweep.
type PageIterator interface {
	Next(ctx context.Context) (commits []changelog.Commit, ok bool, err error)
}

// Synthesizer converts a batch into a validated changelog draft.
type Synthesizer interface {
	Synthesize(ctx context.Context, batch changelog.Batch, annotate bool) (changelog.Draft, error)
}

// EntryStore persists generated drafts.
type EntryStore interface {
	Persist(ctx context.Context, draft changelog.Draft, opts store.PersistOptions) (changelog.Entry, error)
}

// DefaultPacing is the delay inserted between batches to respect the
// generation service's rate limits.
const DefaultPacing = 2 * time.Second

// Pipeline drives a single generation run.
type Pipeline struct {
	source CommitSource
	synth  Synthesizer
	store  EntryStore
	pacing time.Duration
	out    io.Writer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPacing overrides the inter-batch delay.
func WithPacing(d time.Duration) Option {
	return func(p *Pipeline) { p.pacing = d }
}

// WithOutput directs progress reporting to w.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// New builds a Pipeline over the given collaborators.
func New(source CommitSource, synth Synthesizer, entries EntryStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		source: source,
		synth:  synth,
		store:  entries,
		pacing: DefaultPacing,
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOptions is the mode-agnostic invocation surface of a pipeline run.
type RunOptions struct {
	Mode changelog.Mode

	// CommitCount is the number of recent commits in recent mode.
	CommitCount int
	// BatchSize is the commits-per-batch page size in comprehensive mode.
	BatchSize int
	// MaxEntries bounds the number of batches in comprehensive mode.
	MaxEntries int

	// Version is the entry version label in recent mode, or the prefix of
	// the derived per-batch label in comprehensive mode.
	Version string
	// DryRun validates and shapes entries without durable writes.
	DryRun bool

	RepoOwner string
	RepoName  string
}

// Clamp bounds shared by every invocation surface.
const (
	DefaultCommitCount = 10
	DefaultBatchSize   = 10
	DefaultMaxEntries  = 10
	MinBatchSize       = 5
	MaxBatchSize       = 100
	MinMaxEntries      = 1
	MaxMaxEntries      = 50
)

// Normalize applies defaults and clamps to the run options.
func (o RunOptions) Normalize() RunOptions {
	if o.CommitCount < 1 {
		o.CommitCount = DefaultCommitCount
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	o.BatchSize = clamp(o.BatchSize, MinBatchSize, MaxBatchSize)
	if o.MaxEntries == 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	o.MaxEntries = clamp(o.MaxEntries, MinMaxEntries, MaxMaxEntries)
	return o
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run executes one pipeline run. In recent mode the first failure aborts
// the run. In comprehensive mode failures are isolated per batch and the
// sweep always completes; a partial report is returned alongside the
// error only when the commit source fails mid-sweep.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*changelog.PipelineReport, error) {
	opts = opts.Normalize()

	switch opts.Mode {
	case changelog.ModeComprehensive:
		return p.runComprehensive(ctx, opts)
	default:
		return p.runRecent(ctx, opts)
	}
}

func (p *Pipeline) runRecent(ctx context.Context, opts RunOptions) (*changelog.PipelineReport, error) {
	commits, err := p.source.FetchRecent(ctx, opts.CommitCount)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, changelog.ErrEmptyHistory
	}

	batch, err := changelog.PartitionPage(1, commits)
	if err != nil {
		return nil, err
	}
	output.PrintBatchHeader(p.out, batch.SequenceNumber, len(batch.Commits))

	draft, err := p.synth.Synthesize(ctx, batch, false)
	if err != nil {
		return nil, err
	}

	entry, err := p.store.Persist(ctx, draft, store.PersistOptions{
		Version:   opts.Version,
		DryRun:    opts.DryRun,
		RepoOwner: opts.RepoOwner,
		RepoName:  opts.RepoName,
	})
	if err != nil {
		return nil, err
	}
	output.PrintBatchSuccess(p.out, entry.Title, opts.DryRun)

	return &changelog.PipelineReport{
		Mode:             changelog.ModeRecent,
		BatchesAttempted: 1,
		BatchesSucceeded: 1,
		Outcomes: []changelog.BatchOutcome{
			{SequenceNumber: 1, Entry: &entry},
		},
	}, nil
}

func (p *Pipeline) runComprehensive(ctx context.Context, opts RunOptions) (*changelog.PipelineReport, error) {
	report := &changelog.PipelineReport{Mode: changelog.ModeComprehensive}
	pages := p.source.Pages(opts.BatchSize, opts.MaxEntries)

	sequence := 0
	for {
		commits, ok, err := pages.Next(ctx)
		if err != nil {
			// Batches already processed stay in the report.
			if sequence == 0 {
				return nil, err
			}
			return report, err
		}
		if !ok {
			break
		}

		sequence++
		if sequence > 1 {
			// Pacing between batches; cancellation is observed here, never
			// mid-batch.
			if err := p.pause(ctx); err != nil {
				return report, err
			}
		}

		batch, err := changelog.PartitionPage(sequence, commits)
		if err != nil {
			return report, err
		}
		output.PrintBatchHeader(p.out, batch.SequenceNumber, len(batch.Commits))

		outcome := p.processBatch(ctx, batch, opts)
		report.Outcomes = append(report.Outcomes, outcome)
		report.BatchesAttempted++
		if outcome.Succeeded() {
			report.BatchesSucceeded++
		}
	}

	if sequence == 0 {
		return nil, changelog.ErrEmptyHistory
	}
	return report, nil
}

// processBatch runs one batch to completion. A failure is recorded in the
// outcome and never aborts the sweep: comprehensive mode trades
// all-or-nothing correctness for maximal coverage.
func (p *Pipeline) processBatch(ctx context.Context, batch changelog.Batch, opts RunOptions) changelog.BatchOutcome {
	outcome := changelog.BatchOutcome{SequenceNumber: batch.SequenceNumber}

	draft, err := p.synth.Synthesize(ctx, batch, true)
	if err != nil {
		outcome.Stage = "generate"
		outcome.FailureReason = err.Error()
		output.PrintBatchFailure(p.out, outcome.Stage, outcome.FailureReason)
		return outcome
	}

	entry, err := p.store.Persist(ctx, draft, store.PersistOptions{
		Version:   VersionLabel(opts.Version, batch.SequenceNumber),
		DateRange: batch.Range(),
		DryRun:    opts.DryRun,
		RepoOwner: opts.RepoOwner,
		RepoName:  opts.RepoName,
	})
	if err != nil {
		outcome.Stage = "persist"
		outcome.FailureReason = err.Error()
		output.PrintBatchFailure(p.out, outcome.Stage, outcome.FailureReason)
		return outcome
	}

	outcome.Entry = &entry
	output.PrintBatchSuccess(p.out, entry.Title, opts.DryRun)
	return outcome
}

// VersionLabel derives the per-batch version label: "{prefix}-batch-{n}",
// or "batch-{n}" when no prefix is given.
func VersionLabel(prefix string, sequence int) string {
	if prefix == "" {
		return "batch-" + strconv.Itoa(sequence)
	}
	return prefix + "-batch-" + strconv.Itoa(sequence)
}

func (p *Pipeline) pause(ctx context.Context) error {
	if p.pacing <= 0 {
		return nil
	}
	timer := time.NewTimer(p.pacing)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
