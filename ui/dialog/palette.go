package dialog

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

// PaletteExecute is sent when an action is picked from the palette.
type PaletteExecute struct {
	Action string
}

// PaletteItem is a single entry in the command palette.
type PaletteItem struct {
	Action      string // e.g. "new-conversation"
	Name        string // e.g. "New conversation"
	Key         string // e.g. "ctrl+n"
	Category    string // e.g. "chat"
	Description string
}

func (p PaletteItem) filterValue() string {
	return strings.ToLower(p.Name + " " + p.Description + " " + p.Category + " " + p.Key)
}

const maxVisible = 12

// PaletteModel is a filterable action list opened with ctrl+k.
type PaletteModel struct {
	filter   textinput.Model
	items    []PaletteItem
	filtered []PaletteItem
	cursor   int
}

// NewPalette returns a palette over items with the filter focused.
func NewPalette(items []PaletteItem) PaletteModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = "> "
	s := ti.Styles()
	s.Focused.Prompt = lipgloss.NewStyle().Foreground(style.Primary)
	ti.SetStyles(s)
	ti.SetWidth(40)
	ti.Focus()

	return PaletteModel{filter: ti, items: items, filtered: items}
}

// Title implements Dialog.
func (m PaletteModel) Title() string { return "Commands" }

// Width implements Dialog.
func (m PaletteModel) Width() int { return 64 }

// Filtered returns the items matching the filter.
func (m PaletteModel) Filtered() []PaletteItem { return m.filtered }

// Update handles keyboard input.
func (m PaletteModel) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if kp, ok := msg.(tea.KeyPressMsg); ok {
		switch kp.String() {
		case "esc", "ctrl+c", "ctrl+k":
			return nil, nil
		case "enter":
			if m.cursor < len(m.filtered) {
				action := m.filtered[m.cursor].Action
				return nil, func() tea.Msg { return PaletteExecute{Action: action} }
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	prev := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.applyFilter()
	}
	return m, cmd
}

func (m *PaletteModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.cursor = 0
	if query == "" {
		m.filtered = m.items
		return
	}
	var results []PaletteItem
	for _, item := range m.items {
		if strings.Contains(item.filterValue(), query) {
			results = append(results, item)
		}
	}
	m.filtered = results
}

// View renders the filter and the visible window of items.
func (m PaletteModel) View() string {
	w := m.Width() - 6
	var sb strings.Builder

	sb.WriteString(m.filter.View())
	sb.WriteString("\n" + common.Divider(w) + "\n")

	if len(m.filtered) == 0 {
		sb.WriteString(style.Faint.Render("  No matching commands"))
		return sb.String()
	}

	start := 0
	if len(m.filtered) > maxVisible {
		start = max(0, min(m.cursor-maxVisible/2, len(m.filtered)-maxVisible))
	}
	end := min(start+maxVisible, len(m.filtered))

	for i := start; i < end; i++ {
		item := m.filtered[i]
		var line string
		if i == m.cursor {
			marker := lipgloss.NewStyle().Foreground(style.Primary).Bold(true).Render("> ")
			name := lipgloss.NewStyle().Foreground(style.Secondary).Bold(true).Render(item.Name)
			line = marker + name
		} else {
			line = "  " + lipgloss.NewStyle().Foreground(style.Secondary).Render(item.Name)
		}
		if item.Key != "" {
			line += style.Faint.Render("  " + item.Key)
		}
		if item.Category != "" {
			line += lipgloss.NewStyle().Foreground(style.Dim).Render("  [" + item.Category + "]")
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteByte('\n')
		}
	}

	if end < len(m.filtered) {
		sb.WriteByte('\n')
		sb.WriteString(style.Faint.Render("  ... and more (type to filter)"))
	}
	return sb.String()
}
