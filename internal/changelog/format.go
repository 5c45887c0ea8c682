package changelog

import (
	"fmt"
	"strings"
	"time"
)

const shortSHALen = 8

// FormatCommitBlock serializes a batch's commits to the deterministic text
// block sent to the generation service: one line per commit with the
// abbreviated id, ISO timestamp, author, and headline, followed by the
// indented message body when present. Commits are emitted in batch order.
func FormatCommitBlock(b Batch) string {
	var sb strings.Builder

	for _, c := range b.Commits {
		sb.WriteString(fmt.Sprintf("- %s %s %s: %s\n",
			shortSHA(c.SHA), formatTimestamp(c.Timestamp), formatAuthor(c), c.Headline))
		if c.Body != "" {
			sb.WriteString("  ")
			sb.WriteString(strings.ReplaceAll(c.Body, "\n", "\n  "))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatBatchContext renders the batch-context annotation appended to the
// generation request in comprehensive mode: the sequence number and, when
// known, the date range the batch covers.
func FormatBatchContext(b Batch) string {
	if r := b.Range(); r != nil {
		return fmt.Sprintf("This is batch %d of the repository history, covering commits from %s to %s.",
			b.SequenceNumber, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	}
	return fmt.Sprintf("This is batch %d of the repository history.", b.SequenceNumber)
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}

func formatTimestamp(ts *time.Time) string {
	if ts == nil {
		return "(no date)"
	}
	return ts.UTC().Format(time.RFC3339)
}

func formatAuthor(c Commit) string {
	if strings.TrimSpace(c.AuthorName) == "" {
		return "unknown"
	}
	return c.AuthorName
}
