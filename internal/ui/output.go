package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
)

// Success prints a message with a check mark.
func Success(format string, args ...any) {
	fmt.Println(successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// Error prints a message with a cross mark.
func Error(format string, args ...any) {
	fmt.Println(errorStyle.Render("✗"), fmt.Sprintf(format, args...))
}

// Warning prints a message with a warning sign.
func Warning(format string, args ...any) {
	fmt.Println(warnStyle.Render("!"), fmt.Sprintf(format, args...))
}

// Info prints a muted informational message.
func Info(format string, args ...any) {
	fmt.Println(Muted.Render(fmt.Sprintf(format, args...)))
}
