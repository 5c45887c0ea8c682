package changelog

import "time"

// Commit is a single commit as returned by the remote history provider.
// Timestamp is a pointer because the provider may omit the author date;
// a nil Timestamp is preserved, never defaulted. Commits are immutable
// once fetched and their order within a page is provider-defined.
type Commit struct {
	SHA         string
	Timestamp   *time.Time
	Headline    string
	Body        string
	AuthorName  string
	AuthorEmail string
}

// Batch is one bounded, ordered group of commits processed as a single
// generation unit. SequenceNumber is 1-based and matches the fetch page
// order. RangeStart/RangeEnd are derived from the oldest/newest commit
// timestamps present in the batch; both are nil when every commit in the
// batch has a nil timestamp.
type Batch struct {
	SequenceNumber int
	Commits        []Commit
	RangeStart     *time.Time
	RangeEnd       *time.Time
}

// DateRange is the inclusive date span a changelog entry covers.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Draft is the unsaved, in-memory result of generation before persistence.
// It is the only shape a synthesizer is permitted to return: exactly one
// title, one prose-only description, and one category from Categories().
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Entry is the persisted form of a draft. ID and PublishedAt are assigned
// only by the store; entries are append-only and never mutated after
// creation. Version, RepoOwner/RepoName, and DateRange are optional
// provenance (DateRange is set only in comprehensive mode).
type Entry struct {
	ID          string
	Title       string
	Description string
	Category    string
	Version     string
	RepoOwner   string
	RepoName    string
	DateRange   *DateRange
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BatchOutcome records the result of processing one batch. Exactly one of
// Entry and FailureReason is set. Stage names the pipeline stage that
// failed ("generate" or "persist") when FailureReason is set.
type BatchOutcome struct {
	SequenceNumber int
	Entry          *Entry
	Stage          string
	FailureReason  string
}

// Succeeded reports whether the batch produced a persisted entry.
func (o BatchOutcome) Succeeded() bool {
	return o.Entry != nil
}

// Mode identifies which pipeline mode produced a report.
type Mode string

const (
	// ModeRecent generates a single entry from the most recent N commits.
	ModeRecent Mode = "recent"
	// ModeComprehensive sweeps paginated history into multiple entries.
	ModeComprehensive Mode = "comprehensive"
)

// PipelineReport aggregates the per-batch outcomes of one pipeline run.
// BatchesSucceeded may be less than BatchesAttempted; that is a valid
// terminal state in comprehensive mode, not an error.
type PipelineReport struct {
	Mode             Mode
	BatchesAttempted int
	BatchesSucceeded int
	Outcomes         []BatchOutcome
}

// Entries returns the successfully persisted entries in sequence order.
func (r *PipelineReport) Entries() []Entry {
	entries := make([]Entry, 0, r.BatchesSucceeded)
	for _, o := range r.Outcomes {
		if o.Entry != nil {
			entries = append(entries, *o.Entry)
		}
	}
	return entries
}

// FailedSequences returns the sequence numbers of failed batches in order.
func (r *PipelineReport) FailedSequences() []int {
	var failed []int
	for _, o := range r.Outcomes {
		if o.Entry == nil {
			failed = append(failed, o.SequenceNumber)
		}
	}
	return failed
}

// Categories returns the closed set of valid changelog categories.
func Categories() []string {
	return []string{
		"New Feature",
		"Enhancement",
		"Bug Fix",
		"Breaking Change",
		"Performance",
		"Documentation",
		"Other",
	}
}

// ValidCategory reports whether category is a member of the closed set.
// Matching is exact; unknown categories are never coerced to "Other".
func ValidCategory(category string) bool {
	for _, c := range Categories() {
		if category == c {
			return true
		}
	}
	return false
}
