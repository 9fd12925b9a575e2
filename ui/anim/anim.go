// Package anim provides the busy spinner shown while a backend request is
// in flight.
package anim

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
)

const (
	fps           = 12
	frameDuration = time.Second / fps
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ids keeps ticks of concurrent spinners apart.
var ids atomic.Int64

// TickMsg advances the spinner with the matching ID.
type TickMsg struct {
	ID int64
}

// Model is a gradient braille spinner with a label and an elapsed timer.
type Model struct {
	id      int64
	label   string
	frame   int
	started time.Time
	running bool
	glyphs  []string
	now     func() time.Time
}

// New returns a stopped spinner.
func New() Model {
	m := Model{id: ids.Add(1), now: time.Now}
	m.glyphs = renderGlyphs()
	return m
}

// Start resets the timer, sets the label and returns the first tick.
func (m *Model) Start(label string) tea.Cmd {
	m.label = label
	m.started = m.now()
	m.frame = 0
	if m.running {
		// Already ticking; a second tick chain would double the speed.
		return nil
	}
	m.running = true
	m.glyphs = renderGlyphs()
	return m.tick()
}

// Stop halts the animation. View returns "" while stopped.
func (m *Model) Stop() { m.running = false }

// SetLabel replaces the label without restarting the timer.
func (m *Model) SetLabel(s string) { m.label = s }

// Running reports whether the spinner is active.
func (m Model) Running() bool { return m.running }

// Elapsed is the time since Start.
func (m Model) Elapsed() time.Duration {
	if !m.running {
		return 0
	}
	return m.now().Sub(m.started)
}

// Update advances the frame on this spinner's ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	t, ok := msg.(TickMsg)
	if !ok || t.ID != m.id || !m.running {
		return m, nil
	}
	m.frame = (m.frame + 1) % len(frames)
	return m, m.tick()
}

// View renders "⠹ label 3s".
func (m Model) View() string {
	if !m.running {
		return ""
	}
	out := m.glyphs[m.frame%len(m.glyphs)]
	if m.label != "" {
		out += " " + lipgloss.NewStyle().Foreground(style.Muted).Render(m.label)
	}
	if secs := int(m.Elapsed().Seconds()); secs > 0 {
		out += " " + style.Hint.Render(fmt.Sprintf("%ds", secs))
	}
	return out
}

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(frameDuration, func(time.Time) tea.Msg {
		return TickMsg{ID: id}
	})
}

// renderGlyphs colors each frame along the theme gradient, bouncing between
// the two ends instead of wrapping.
func renderGlyphs() []string {
	n := len(frames)
	out := make([]string, n)
	for i, g := range frames {
		t := (math.Sin(math.Pi*float64(i)/float64(n-1)) + 1) / 2
		c := style.LerpColor(style.GradColorA, style.GradColorB, t)
		out[i] = lipgloss.NewStyle().Foreground(c).Render(g)
	}
	return out
}
