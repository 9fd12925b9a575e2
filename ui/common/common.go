// Package common provides rendering helpers shared by the UI components.
package common

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/miosa/aidesk-tui/style"
)

// ---------------------------------------------------------------------------
// Text truncation / padding
// ---------------------------------------------------------------------------

// Truncate shortens s to at most width terminal cells, appending "…" when
// it was cut. Wide runes count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces up to width cells.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadCenter centers s within width.
func PadCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// Divider returns a horizontal rule in the border color.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(style.Border).Render(strings.Repeat("─", width))
}

// HighlightMatch renders the first case-insensitive occurrence of query in
// s with hi and the rest with base.
func HighlightMatch(s, query string, base, hi lipgloss.Style) string {
	if query == "" {
		return base.Render(s)
	}
	idx := strings.Index(strings.ToLower(s), strings.ToLower(query))
	if idx < 0 || len(strings.ToLower(s)) != len(s) {
		return base.Render(s)
	}
	end := idx + len(query)
	return base.Render(s[:idx]) + hi.Render(s[idx:end]) + base.Render(s[end:])
}

// ---------------------------------------------------------------------------
// Dates
// ---------------------------------------------------------------------------

// FormatDay renders t as "Mon 02 Jan", or "Today"/"Tomorrow" relative to now.
func FormatDay(t, now time.Time) string {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	day := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	switch day.Sub(today) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Tomorrow"
	}
	return t.Format("Mon 02 Jan")
}

// ---------------------------------------------------------------------------
// Dialog chrome
// ---------------------------------------------------------------------------

// DialogTitle renders a gradient dialog title centered within width.
func DialogTitle(title string, width int) string {
	rendered := style.ApplyBoldForegroundGrad(title)
	plain := lipgloss.Width(title)
	if width <= 0 || plain >= width {
		return rendered
	}
	return strings.Repeat(" ", (width-plain)/2) + rendered
}

// StatusBadge renders "● label" in green when ok and muted otherwise.
func StatusBadge(label string, ok bool) string {
	c := style.Muted
	if ok {
		c = style.Success
	}
	return lipgloss.NewStyle().Foreground(c).Render("● " + label)
}

// ButtonItem is one button of a ButtonGroup.
type ButtonItem struct {
	Label    string
	Shortcut string
	Danger   bool
	Disabled bool
}

// ButtonGroup renders a row of buttons with activeIdx highlighted.
// Disabled buttons are never highlighted.
func ButtonGroup(buttons []ButtonItem, activeIdx int) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		label := b.Label
		if b.Shortcut != "" {
			label = "[" + b.Shortcut + "] " + label
		}
		switch {
		case b.Disabled:
			parts[i] = style.ButtonDisabled.Render(label)
		case i == activeIdx && b.Danger:
			parts[i] = style.ButtonDanger.Render(label)
		case i == activeIdx:
			parts[i] = style.ButtonActive.Render(label)
		default:
			parts[i] = style.ButtonInactive.Render(label)
		}
	}
	return strings.Join(parts, "  ")
}
