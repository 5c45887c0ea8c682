package changelog

import "fmt"

// PartitionPage converts one raw page of commits into exactly one Batch,
// assigning sequence as the page's 1-based position in the sweep. The
// commit order of the page is preserved, never re-sorted. RangeStart and
// RangeEnd are derived from the oldest and newest timestamps present in
// the page; nil timestamps are skipped, and if every timestamp is nil
// both range fields stay unset.
//
// Partitioning retains no cross-batch state, which is what permits
// batch-level skip on failure without re-fetching prior batches.
func PartitionPage(sequence int, commits []Commit) (Batch, error) {
	if sequence < 1 {
		return Batch{}, fmt.Errorf("batch sequence must be >= 1, got %d", sequence)
	}
	if len(commits) == 0 {
		return Batch{}, ErrEmptyInput
	}

	batch := Batch{
		SequenceNumber: sequence,
		Commits:        commits,
	}

	for i := range commits {
		ts := commits[i].Timestamp
		if ts == nil {
			continue
		}
		if batch.RangeStart == nil || ts.Before(*batch.RangeStart) {
			batch.RangeStart = ts
		}
		if batch.RangeEnd == nil || ts.After(*batch.RangeEnd) {
			batch.RangeEnd = ts
		}
	}

	return batch, nil
}

// Range returns the batch's date range, or nil if no commit in the batch
// carried a timestamp.
func (b Batch) Range() *DateRange {
	if b.RangeStart == nil || b.RangeEnd == nil {
		return nil
	}
	return &DateRange{From: *b.RangeStart, To: *b.RangeEnd}
}
