package progress

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps a terminal spinner that degrades to a no-op when stdout is
// not a terminal, so piped output stays clean.
type Spinner struct {
	inner *spinner.Spinner
}

// NewSpinner returns a spinner appropriate for the detected terminal, or a
// no-op spinner when there is no TTY.
func NewSpinner(caps TerminalCapabilities, message string) *Spinner {
	if !caps.IsTTY {
		return &Spinner{}
	}

	symbols := SelectSymbols(caps)
	sp := spinner.New(spinner.CharSets[symbols.SpinnerSet], 120*time.Millisecond)
	sp.Suffix = " " + message
	return &Spinner{inner: sp}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.inner != nil {
		s.inner.Start()
	}
}

// Stop halts the spinner and clears its line.
func (s *Spinner) Stop() {
	if s.inner != nil {
		s.inner.Stop()
	}
}
