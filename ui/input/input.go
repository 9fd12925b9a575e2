// Package input provides the prompt under the chat list.
//
// Enter submits (handled by the app), alt+enter inserts a newline, up/down
// walk the history while the prompt is single-line. The mode decides where
// a submitted question goes: the chat endpoint or the web search endpoint.
package input

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
)

const (
	charLimit  = 4000
	charWarnAt = 3500
	maxHeight  = 6
)

// Mode selects where a submitted question is sent.
type Mode int

const (
	ModeChat Mode = iota
	ModeSearch
	ModeSummarize
	ModeVoice
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeSummarize:
		return "summarize"
	case ModeVoice:
		return "voice"
	default:
		return "chat"
	}
}

func (m Mode) placeholder() string {
	switch m {
	case ModeSearch:
		return "Search the web… (ctrl+s back to chat)"
	case ModeSummarize:
		return "Pick a .pdf or .txt file to summarize"
	case ModeVoice:
		return "Pick an audio file to send"
	default:
		return "Ask anything… (alt+enter for a new line)"
	}
}

// Model wraps a textarea with history and a mode.
type Model struct {
	ta         textarea.Model
	mode       Mode
	history    []string
	historyIdx int
	width      int
	multiline  bool
}

// New returns a focused-ready prompt in chat mode.
func New() Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.CharLimit = charLimit
	ta.ShowLineNumbers = false
	ta.SetWidth(76)
	ta.SetHeight(1)
	ta.MaxHeight = maxHeight

	s := ta.Styles()
	s.Focused.CursorLine = lipgloss.NewStyle()
	s.Blurred.CursorLine = lipgloss.NewStyle()
	ta.SetStyles(s)

	// Enter is intercepted by the app to submit.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	m := Model{ta: ta, width: 80}
	m.SetMode(ModeChat)
	return m
}

// SetWidth constrains the prompt to w columns.
func (m *Model) SetWidth(w int) {
	m.width = w
	m.ta.SetWidth(max(10, w-4))
}

// SetMode switches the mode and its placeholder.
func (m *Model) SetMode(mode Mode) {
	m.mode = mode
	m.ta.Placeholder = mode.placeholder()
}

// Mode returns the current mode.
func (m Model) Mode() Mode { return m.mode }

// ToggleSearch flips between chat and search.
func (m *Model) ToggleSearch() {
	if m.mode == ModeSearch {
		m.SetMode(ModeChat)
	} else {
		m.SetMode(ModeSearch)
	}
}

// Focus gives the prompt the keyboard.
func (m *Model) Focus() tea.Cmd { return m.ta.Focus() }

// Blur takes the keyboard away, as while a request is in flight.
func (m *Model) Blur() { m.ta.Blur() }

// Focused reports whether the prompt has the keyboard.
func (m Model) Focused() bool { return m.ta.Focused() }

// Value returns the prompt text.
func (m Model) Value() string { return m.ta.Value() }

// SetValue replaces the prompt text.
func (m *Model) SetValue(s string) {
	m.ta.SetValue(s)
	m.updateHeight()
}

// Height is the number of lines View renders.
func (m Model) Height() int { return m.ta.Height() + 1 }

// Submit records text in the history and clears the prompt.
func (m *Model) Submit(text string) {
	if text = strings.TrimSpace(text); text != "" {
		m.history = append(m.history, text)
	}
	m.Reset()
}

// Reset clears the prompt without touching the history.
func (m *Model) Reset() {
	m.historyIdx = len(m.history)
	m.ta.SetValue("")
	m.multiline = false
	m.ta.SetHeight(1)
}

// Update handles key events while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if kp, ok := msg.(tea.KeyPressMsg); ok && !m.multiline {
		switch kp.String() {
		case "up":
			return m.navigateHistory(-1), nil
		case "down":
			return m.navigateHistory(+1), nil
		}
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	m.updateHeight()
	return m, cmd
}

// View renders a separator line and the prompt.
func (m Model) View() string {
	w := m.width
	if w < 10 {
		w = 80
	}
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(style.Border).Render(strings.Repeat("─", w)))
	sb.WriteByte('\n')
	if m.ta.Focused() {
		sb.WriteString(style.PromptChar.Render("❯ "))
	} else {
		sb.WriteString(style.Faint.Render("❯ "))
	}
	sb.WriteString(m.ta.View())
	if hint := m.hint(); hint != "" {
		sb.WriteString(hint)
	}
	return sb.String()
}

func (m Model) hint() string {
	chars := len([]rune(m.ta.Value()))
	if chars < charWarnAt {
		return ""
	}
	c := style.Warning
	if charLimit-chars <= 100 {
		c = style.Error
	}
	return " " + lipgloss.NewStyle().Foreground(c).Render(fmt.Sprintf("%d/%d", chars, charLimit))
}

func (m *Model) updateHeight() {
	val := m.ta.Value()
	m.multiline = strings.Contains(val, "\n")
	h := 1
	if m.multiline {
		h = min(strings.Count(val, "\n")+1, maxHeight)
	}
	m.ta.SetHeight(h)
}

func (m Model) navigateHistory(delta int) Model {
	if len(m.history) == 0 {
		return m
	}
	next := max(0, min(m.historyIdx+delta, len(m.history)))
	m.historyIdx = next
	if next == len(m.history) {
		m.ta.SetValue("")
	} else {
		m.ta.SetValue(m.history[next])
	}
	m.updateHeight()
	return m
}
