package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// DefaultWidth is used when the terminal size is unavailable.
const DefaultWidth = 120

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Width returns the terminal width, falling back to DefaultWidth for pipes
// and unknown sizes.
func Width() int {
	if !IsTerminal() {
		return DefaultWidth
	}
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
