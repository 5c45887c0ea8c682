package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps          TerminalCapabilities
		wantCheckmark string
		wantSpinner   int
	}{
		"unicode terminal": {
			caps:          TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			wantCheckmark: "✓",
			wantSpinner:   14,
		},
		"ascii terminal": {
			caps:          TerminalCapabilities{IsTTY: true, SupportsUnicode: false},
			wantCheckmark: "[OK]",
			wantSpinner:   9,
		},
		"no tty": {
			caps:          TerminalCapabilities{},
			wantCheckmark: "[OK]",
			wantSpinner:   9,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			symbols := SelectSymbols(tt.caps)
			assert.Equal(t, tt.wantCheckmark, symbols.Checkmark)
			assert.Equal(t, tt.wantSpinner, symbols.SpinnerSet)
		})
	}
}

func TestNewSpinner_NoTTYIsNoop(t *testing.T) {
	t.Parallel()

	sp := NewSpinner(TerminalCapabilities{IsTTY: false}, "working...")
	// Start/Stop must be safe without a terminal.
	sp.Start()
	sp.Stop()
}
