package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return s[:maxLen]
	}
	return s[:maxLen-1] + "…"
}

// renderInputWithCursor renders a text input with a block cursor at the
// given rune position.
func renderInputWithCursor(text string, cursorPos int) string {
	runes := []rune(text)
	if cursorPos >= len(runes) {
		return text + "█"
	}
	return string(runes[:cursorPos]) + "█" + string(runes[cursorPos:])
}

func friendlyError(err error, width int) string {
	msg := err.Error()

	var text string
	if strings.Contains(msg, "connection refused") {
		text = "Could not connect to keyd.\nIs keyd running?\n\nError: " + msg
	} else {
		text = "Error: " + msg
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}
