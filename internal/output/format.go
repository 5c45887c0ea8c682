// Package output provides terminal output formatting for the shiplog CLI.
// It is kept free of domain imports to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintRunHeader prints a separator line naming the repository and mode.
func PrintRunHeader(out io.Writer, owner, repo, mode string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan(fmt.Sprintf("%s/%s", owner, repo)), dim("("+mode+" mode)"))
}

// PrintBatchHeader prints a colored batch progress line.
func PrintBatchHeader(out io.Writer, sequence, commits int) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan(fmt.Sprintf("[Batch %d]", sequence)),
		white(fmt.Sprintf("%d commits", commits)))
}

// PrintBatchSuccess prints a success line for a persisted entry.
func PrintBatchSuccess(out io.Writer, title string, dryRun bool) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	suffix := ""
	if dryRun {
		dim := color.New(color.Faint).SprintFunc()
		suffix = " " + dim("(dry run)")
	}
	fmt.Fprintf(out, "%s %s%s\n", green("✓"), cyan(title), suffix)
}

// PrintBatchFailure prints a failure line naming the stage that failed.
func PrintBatchFailure(out io.Writer, stage, reason string) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s: %s\n", red("✗"), yellow(stage), reason)
}

// PrintReportSummary prints the final run summary with failed sequence
// numbers when any batch failed.
func PrintReportSummary(out io.Writer, attempted, succeeded int, failedSequences []int) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "\n%s %d/%d batches succeeded\n", bold("Done:"), succeeded, attempted)
	if len(failedSequences) > 0 {
		red := color.New(color.FgRed).SprintFunc()
		parts := make([]string, len(failedSequences))
		for i, seq := range failedSequences {
			parts[i] = fmt.Sprint(seq)
		}
		fmt.Fprintf(out, "%s batches %s failed\n", red("!"), strings.Join(parts, ", "))
	}
}
