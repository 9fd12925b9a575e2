// Package sidebar renders the right-hand pane: the calendar agenda for the
// next few days and the most recent conversations.
package sidebar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

const maxRecent = 5

// Model is the sidebar pane. The event cursor is only drawn while focused.
type Model struct {
	events  []client.Event
	loading bool
	err     string
	days    int

	conversations []client.ConversationSummary
	current       int

	cursor  int
	focused bool

	loc    *time.Location
	now    func() time.Time
	width  int
	height int
}

// New returns a sidebar showing days days of agenda in loc.
func New(days int, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{days: days, loc: loc, now: time.Now}
}

// ---------------------------------------------------------------------------
// Setters
// ---------------------------------------------------------------------------

// SetEvents replaces the agenda. Events are ordered by start time and the
// cursor is clamped.
func (m *Model) SetEvents(events []client.Event) {
	m.events = append(m.events[:0:0], events...)
	sort.SliceStable(m.events, func(i, j int) bool {
		a, _ := m.events[i].Start.Time()
		b, _ := m.events[j].Start.Time()
		return a.Before(b)
	})
	m.loading = false
	m.err = ""
	m.clamp()
}

// SetLoading marks the agenda as being fetched.
func (m *Model) SetLoading() { m.loading = true }

// SetError shows err in place of the agenda.
func (m *Model) SetError(err error) {
	m.loading = false
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

// SetConversations sets the recent conversations and the open one.
func (m *Model) SetConversations(list []client.ConversationSummary, current int) {
	m.conversations = list
	m.current = current
}

// SetCurrent marks the open conversation.
func (m *Model) SetCurrent(id int) { m.current = id }

// SetLocation changes the zone agenda times are shown in.
func (m *Model) SetLocation(loc *time.Location) {
	if loc != nil {
		m.loc = loc
	}
}

// SetDays sets how many days the agenda covers.
func (m *Model) SetDays(n int) { m.days = n }

// Days returns how many days the agenda covers.
func (m Model) Days() int { return m.days }

// SetSize updates the pane dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// ---------------------------------------------------------------------------
// Focus and cursor
// ---------------------------------------------------------------------------

// Focus gives the sidebar the keyboard.
func (m *Model) Focus() { m.focused = true }

// Blur returns the keyboard to the input.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the sidebar has the keyboard.
func (m Model) Focused() bool { return m.focused }

// MoveUp moves the event cursor up.
func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the event cursor down.
func (m *Model) MoveDown() {
	if m.cursor < len(m.events)-1 {
		m.cursor++
	}
}

// Selected returns the event under the cursor.
func (m Model) Selected() (client.Event, bool) {
	if m.cursor < 0 || m.cursor >= len(m.events) {
		return client.Event{}, false
	}
	return m.events[m.cursor], true
}

// Range returns the agenda window: local midnight today through days days.
func (m Model) Range() (time.Time, time.Time) {
	now := m.now().In(m.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, m.loc)
	days := m.days
	if days <= 0 {
		days = 1
	}
	return start, start.AddDate(0, 0, days)
}

func (m *Model) clamp() {
	if m.cursor >= len(m.events) {
		m.cursor = len(m.events) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the pane.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	inner := max(1, m.width-3)

	var b strings.Builder
	b.WriteString(style.SidebarTitle.Render(fmt.Sprintf("Agenda · %d days", m.days)))
	b.WriteString("\n")
	b.WriteString(m.agenda(inner))
	b.WriteString("\n")
	b.WriteString(style.SidebarSeparator.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")
	b.WriteString(style.SidebarTitle.Render("Recent"))
	b.WriteString("\n")
	b.WriteString(m.recent(inner))

	return style.SidebarStyle.Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) agenda(width int) string {
	switch {
	case m.loading && len(m.events) == 0:
		return style.SidebarLabel.Render("loading…")
	case m.err != "":
		return style.ErrorText.Render(common.Truncate(m.err, width))
	case len(m.events) == 0:
		return style.SidebarLabel.Render("no upcoming events")
	}

	now := m.now().In(m.loc)
	var lines []string
	lastDay := ""
	for i, ev := range m.events {
		start, ok := ev.Start.Time()
		if !ok {
			continue
		}
		start = start.In(m.loc)
		if day := common.FormatDay(start, now); day != lastDay {
			lines = append(lines, style.SidebarLabel.Render(day))
			lastDay = day
		}
		at := start.Format("15:04")
		if ev.Start.AllDay() {
			at = "all day"
		}
		title := ev.Summary
		if title == "" {
			title = "(no title)"
		}
		line := common.Truncate(at+" "+title, width-2)
		if m.focused && i == m.cursor {
			lines = append(lines, style.SidebarSelected.Render("▸ "+line))
		} else {
			lines = append(lines, "  "+style.SidebarValue.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) recent(width int) string {
	if len(m.conversations) == 0 {
		return style.SidebarLabel.Render("no conversations yet")
	}
	n := min(len(m.conversations), maxRecent)
	lines := make([]string, 0, n)
	for _, c := range m.conversations[:n] {
		line := common.Truncate(Title(c), width-2)
		if c.ConversationID == m.current {
			lines = append(lines, style.SidebarSelected.Render("● "+line))
		} else {
			lines = append(lines, "  "+style.SidebarLabel.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// Title is the display title of a conversation, "Conv <id>" when untitled.
func Title(c client.ConversationSummary) string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Conv %d", c.ConversationID)
}
