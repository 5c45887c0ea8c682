package synthesize

import (
	"fmt"
	"strings"

	"github.com/raveheart1/shiplog/internal/changelog"
)

const systemPrompt = `You are a release-notes writer. You turn raw commit history into a single polished changelog entry aimed at end users.`

// BuildPrompt formats a batch into the generation request. The
// instructions are a closed contract: exactly one title, exactly one
// single-paragraph prose description, and exactly one category from the
// fixed set. In comprehensive mode (annotate=true) the request also
// carries the batch-context annotation with the sequence number and date
// range.
func BuildPrompt(batch changelog.Batch, annotate bool) string {
	var b strings.Builder

	b.WriteString("Summarize the following commits as one changelog entry.\n\n")
	if annotate {
		b.WriteString(changelog.FormatBatchContext(batch))
		b.WriteString("\n\n")
	}

	b.WriteString("Commits (newest first, one per line, body indented):\n")
	b.WriteString(changelog.FormatCommitBlock(batch))
	b.WriteString("\n")

	b.WriteString("Respond with a JSON object containing exactly these three keys and nothing else:\n")
	b.WriteString(`  "title": a short, user-facing title for the entry.` + "\n")
	b.WriteString(`  "description": a single paragraph of 3-5 sentences of plain prose.` + "\n")
	fmt.Fprintf(&b, "  %q: exactly one of: %s.\n", "category", strings.Join(changelog.Categories(), " | "))
	b.WriteString("\nThe description must not contain bullet or numbered lists, headings, or category-label prefixes.\n")
	b.WriteString("Do not wrap the JSON in markdown fences or add any text outside the object.\n")

	return b.String()
}
