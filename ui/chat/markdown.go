package chat

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"

	"github.com/miosa/aidesk-tui/ui/list"
)

// Renderer turns markdown into terminal output wrapped at width.
type Renderer func(content string, width int) (string, error)

// GlamourRenderer returns a Renderer using the named glamour standard style
// ("dark" or "light").
func GlamourRenderer(styleName string) Renderer {
	return func(content string, width int) (string, error) {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(styleName),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		out, err := r.Render(content)
		if err != nil {
			return "", err
		}
		return strings.Trim(out, "\n"), nil
	}
}

// MarkdownRendered carries the markdown body of a row rendered off the
// update loop. It is applied only while Ticket is current and the list is
// still Width columns wide.
type MarkdownRendered struct {
	Key    string
	Width  int
	Ticket list.Ticket
	Output string
	Err    error
}

func renderMarkdownCmd(render Renderer, key, content string, width int, t list.Ticket) tea.Cmd {
	return func() tea.Msg {
		out, err := render(content, width)
		return MarkdownRendered{Key: key, Width: width, Ticket: t, Output: out, Err: err}
	}
}
