// Package ui provides terminal output helpers: lipgloss styles, spacing
// tables and markdown rendering for the docs command.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Accent highlights identifiers and headings.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))

	// Muted dims secondary detail.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	Bold = lipgloss.NewStyle().Bold(true)

	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")).Bold(true)
)

// ConfigureAccent overrides the accent color, typically from config.
func ConfigureAccent(hex string) {
	if hex == "" {
		return
	}
	color := lipgloss.Color(hex)
	Accent = Accent.Foreground(color)
	AccentBold = AccentBold.Foreground(color)
}
