// Package toast shows short-lived notifications in the top-right corner.
package toast

import (
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

// Level classifies toast severity.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

const (
	maxToasts = 3
	ttl       = 4 * time.Second
	errorTTL  = 8 * time.Second
	maxWidth  = 60
)

type toast struct {
	text   string
	level  Level
	expiry time.Time
}

// Model is a bounded queue of toasts. The newest maxToasts are kept.
type Model struct {
	queue []toast
	now   func() time.Time
}

// New returns an empty queue.
func New() Model {
	return Model{now: time.Now}
}

// Add enqueues a toast. Errors stay up longer.
func (m *Model) Add(text string, level Level) {
	life := ttl
	if level == Error {
		life = errorTTL
	}
	m.queue = append(m.queue, toast{text: text, level: level, expiry: m.clock().Add(life)})
	if len(m.queue) > maxToasts {
		m.queue = m.queue[len(m.queue)-maxToasts:]
	}
}

// Tick drops expired toasts.
func (m *Model) Tick() {
	now := m.clock()
	alive := m.queue[:0]
	for _, t := range m.queue {
		if now.Before(t.expiry) {
			alive = append(alive, t)
		}
	}
	m.queue = alive
}

// Len is the number of visible toasts.
func (m Model) Len() int { return len(m.queue) }

// View renders the toasts right-aligned to width.
func (m Model) View(width int) string {
	if len(m.queue) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.queue))
	for _, t := range m.queue {
		icon, c := iconColor(t.level)
		text := " " + icon + " " + common.Truncate(t.text, maxWidth) + " "
		rendered := lipgloss.NewStyle().Foreground(c).Render(text)
		pad := max(0, width-lipgloss.Width(rendered))
		lines = append(lines, strings.Repeat(" ", pad)+rendered)
	}
	return strings.Join(lines, "\n")
}

func (m Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func iconColor(level Level) (string, color.Color) {
	switch level {
	case Warning:
		return "⚠", style.Warning
	case Error:
		return "✘", style.Error
	default:
		return "✓", style.Success
	}
}
