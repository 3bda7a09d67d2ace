// Package ui provides consistent styling for the Wayloop CLI
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorInfo    = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
)

var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	EventKindStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorInfo)
)

// FormatAppHeader renders the standard command header with a subtitle.
func FormatAppHeader(title, subtitle string) string {
	return HeaderStyle.Render(title) + "\n" + SubtleStyle.Render(subtitle)
}

// FormatEvent renders one event line for the stream view.
func FormatEvent(kind, detail string) string {
	return fmt.Sprintf("%s %s", EventKindStyle.Render(kind), TextStyle.Render(detail))
}
