package dialog

import (
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
	"github.com/miosa/aidesk-tui/ui/sidebar"
)

// ConversationsModel is a filterable, scrollable conversation browser.
//
// Emits ConversationChosen on enter and NewConversation on ctrl+n.
// Esc closes it.
type ConversationsModel struct {
	all      []client.ConversationSummary
	filtered []client.ConversationSummary
	current  int
	cursor   int
	offset   int
	pageSize int
	filter   InputCursor
	loc      *time.Location
}

// NewConversations returns a browser over list with current marked.
func NewConversations(list []client.ConversationSummary, current int, loc *time.Location) ConversationsModel {
	if loc == nil {
		loc = time.Local
	}
	m := ConversationsModel{
		all:      list,
		current:  current,
		pageSize: 12,
		filter:   InputCursor{Focused: true},
		loc:      loc,
	}
	m.applyFilter()
	for i, c := range m.filtered {
		if c.ConversationID == current {
			m.cursor = i
			m.scrollToCursor()
			break
		}
	}
	return m
}

// SetSize fits the page to a terminal of height h.
func (m *ConversationsModel) SetSize(_, h int) {
	m.pageSize = max(4, h-14)
	m.scrollToCursor()
}

// Title implements Dialog.
func (m ConversationsModel) Title() string { return "Conversations" }

// Width implements Dialog.
func (m ConversationsModel) Width() int { return 70 }

// Filtered returns the conversations matching the filter.
func (m ConversationsModel) Filtered() []client.ConversationSummary { return m.filtered }

// Update handles keyboard input.
//
//	↑ ↓      move
//	enter    open the conversation under the cursor
//	ctrl+n   start a new conversation
//	esc      close
//	text     filter by title or id
func (m ConversationsModel) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kp.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
			m.scrollToCursor()
		}
		return m, nil
	case "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.scrollToCursor()
		}
		return m, nil
	case "enter":
		if m.cursor < len(m.filtered) {
			id := m.filtered[m.cursor].ConversationID
			return nil, func() tea.Msg { return ConversationChosen{ID: id} }
		}
		return m, nil
	case "ctrl+n":
		return nil, func() tea.Msg { return NewConversation{} }
	case "esc":
		return nil, nil
	}

	before := m.filter.Value
	if m.filter.HandleKey(kp) && m.filter.Value != before {
		m.applyFilter()
	}
	return m, nil
}

func (m *ConversationsModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value))
	m.filtered = m.filtered[:0:0]
	for _, c := range m.all {
		if q == "" ||
			strings.Contains(strings.ToLower(sidebar.Title(c)), q) ||
			strings.Contains(strconv.Itoa(c.ConversationID), q) {
			m.filtered = append(m.filtered, c)
		}
	}
	m.cursor = 0
	m.offset = 0
}

func (m *ConversationsModel) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
	m.offset = max(0, m.offset)
}

// View renders the filter box, the visible page and the help bar.
func (m ConversationsModel) View() string {
	w := m.Width() - 6
	var sb strings.Builder

	sb.WriteString(style.DialogHelpKey.Render("Filter: "))
	if m.filter.Value == "" {
		sb.WriteString(style.Faint.Render("type to filter…"))
	} else {
		sb.WriteString(m.filter.View())
	}
	sb.WriteString("\n" + common.Divider(w) + "\n")

	if len(m.filtered) == 0 {
		sb.WriteString(style.Faint.Render("  No conversations found"))
		sb.WriteString("\n")
	} else {
		end := min(m.offset+m.pageSize, len(m.filtered))
		if m.offset > 0 {
			sb.WriteString(style.Faint.Render("  ↑ more above") + "\n")
		}
		for i := m.offset; i < end; i++ {
			sb.WriteString(m.renderEntry(m.filtered[i], i == m.cursor, w))
			sb.WriteString("\n")
		}
		if end < len(m.filtered) {
			sb.WriteString(style.Faint.Render("  ↓ more below") + "\n")
		}
	}

	sb.WriteString(common.Divider(w) + "\n")
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "↑↓", Desc: "navigate"},
		{Key: "enter", Desc: "open"},
		{Key: "ctrl+n", Desc: "new"},
		{Key: "esc", Desc: "close"},
	}, w))
	return sb.String()
}

func (m ConversationsModel) renderEntry(c client.ConversationSummary, isCursor bool, width int) string {
	cursor := "  "
	if isCursor {
		cursor = style.ListSelected.Render("> ")
	}
	mark := style.RadioOff.Render("○ ")
	if c.ConversationID == m.current {
		mark = style.RadioOn.Render("● ")
	}

	date := ""
	if !c.CreatedAt.IsZero() {
		date = c.CreatedAt.In(m.loc).Format("2006-01-02 15:04")
	}
	titleW := max(8, width-4-lipgloss.Width(date)-2)
	title := common.Truncate(sidebar.Title(c), titleW)

	base := style.Faint
	if isCursor {
		base = lipgloss.NewStyle().Foreground(style.Secondary).Bold(true)
	}
	hi := base.Underline(true).Foreground(style.Primary)
	line := common.HighlightMatch(title, strings.TrimSpace(m.filter.Value), base, hi)
	line = common.PadRight(line, titleW)

	return cursor + mark + line + "  " + style.MsgMeta.Render(date)
}
