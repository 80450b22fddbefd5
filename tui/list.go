package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mickamy/keyd/highlight"
)

var (
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// renderList renders the scrollable key list view.
func (m Model) renderList() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("keyd — %s", m.addr)))
	b.WriteString(fmt.Sprintf("  (%d keys)\n\n", len(m.keys)))

	if len(m.keys) == 0 {
		b.WriteString("(empty keyspace)\n")
	} else {
		visible := m.height - 5
		if visible < 1 {
			visible = len(m.keys)
		}
		start := 0
		if m.cursor >= visible {
			start = m.cursor - visible + 1
		}
		end := start + visible
		if end > len(m.keys) {
			end = len(m.keys)
		}

		listing := highlight.KeyList(m.keys[start:end])
		for i, line := range strings.Split(listing, "\n") {
			idx := start + i
			row := padRight(truncate(line, m.width-2), m.width-2)
			if idx == m.cursor {
				b.WriteString(selectedStyle.Render(row))
			} else {
				b.WriteString(row)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(footerHint(
		"q: quit", "j/k: navigate", "enter: inspect", "y: yank key",
		"r: refresh", ": command",
	))
	return b.String()
}

func footerHint(items ...string) string {
	return lipgloss.NewStyle().Faint(true).Render(strings.Join(items, "  "))
}
