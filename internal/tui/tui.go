// Package tui contains the Bubble Tea models memctl uses in interactive
// terminals: the bulk-run processing dialog and the memory-block browser
// with debounced search.
package tui

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is an interactive terminal. Non-TTY
// invocations (pipes, CI) get plain line-based output instead of models.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
