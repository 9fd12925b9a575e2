package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/logo"
)

// EmptyText is shown when the conversation has no rows.
const EmptyText = "No messages yet."

// renderEmpty draws the centered empty state of a width×height pane.
func renderEmpty(width, height int) string {
	lines := []string{
		logo.Render(width),
		"",
		style.EmptyState.Render(EmptyText),
		style.Hint.Render("ask a question, ctrl+s to search the web, ctrl+u to summarize a file"),
	}
	block := strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
