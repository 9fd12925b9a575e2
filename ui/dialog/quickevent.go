package dialog

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

const (
	dateLayout = "2006-01-02"

	// Quick events are placed at 09:00 for one hour.
	quickEventHour     = 9
	quickEventDuration = time.Hour
)

const (
	qeTitle = iota
	qeDate
	qeSave
	qeCancel
	qeFields
)

// QuickEventModel creates a one-hour morning event from a title and a date.
//
// Emits QuickEventSubmit. Save is disabled while the title is blank.
type QuickEventModel struct {
	title InputCursor
	date  InputCursor
	focus int
	loc   *time.Location
	err   string
}

// NewQuickEvent returns the dialog with the date set to day in loc.
func NewQuickEvent(day time.Time, loc *time.Location) QuickEventModel {
	if loc == nil {
		loc = time.Local
	}
	m := QuickEventModel{
		title: InputCursor{Focused: true, Width: 40},
		date:  InputCursor{Width: 12},
		loc:   loc,
	}
	m.date.SetValue(day.In(loc).Format(dateLayout))
	return m
}

// Title implements Dialog.
func (m QuickEventModel) Title() string { return "Quick event" }

// Width implements Dialog.
func (m QuickEventModel) Width() int { return 60 }

// CanSave reports whether Save is enabled.
func (m QuickEventModel) CanSave() bool { return strings.TrimSpace(m.title.Value) != "" }

// Update handles keyboard input. tab moves between the fields and the
// buttons, enter saves unless Cancel is focused, esc closes.
func (m QuickEventModel) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kp.String() {
	case "esc":
		return nil, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % qeFields)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + qeFields - 1) % qeFields)
		return m, nil
	case "enter":
		if m.focus == qeCancel {
			return nil, nil
		}
		return m.submit()
	}

	switch m.focus {
	case qeTitle:
		m.title.HandleKey(kp)
	case qeDate:
		m.date.HandleKey(kp)
	}
	return m, nil
}

func (m *QuickEventModel) setFocus(f int) {
	m.focus = f
	m.title.Focused = f == qeTitle
	m.date.Focused = f == qeDate
}

func (m QuickEventModel) submit() (Dialog, tea.Cmd) {
	if !m.CanSave() {
		return m, nil
	}
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(m.date.Value), m.loc)
	if err != nil {
		m.err = "date must be YYYY-MM-DD"
		return m, nil
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), quickEventHour, 0, 0, 0, m.loc)
	ev := client.EventCreate{
		Summary:  strings.TrimSpace(m.title.Value),
		Start:    start,
		End:      start.Add(quickEventDuration),
		Timezone: m.loc.String(),
	}
	return nil, func() tea.Msg { return QuickEventSubmit{Event: ev} }
}

// View renders the form.
func (m QuickEventModel) View() string {
	var sb strings.Builder
	sb.WriteString(style.DialogLabel.Render("Title") + m.title.View() + "\n")
	sb.WriteString(style.DialogLabel.Render("Date") + m.date.View() + "\n")
	sb.WriteString(style.Hint.Render("09:00 – 10:00 local time") + "\n")
	if m.err != "" {
		sb.WriteString(style.ErrorText.Render(m.err) + "\n")
	}
	sb.WriteString("\n")

	active := -1
	switch m.focus {
	case qeSave:
		active = 0
	case qeCancel:
		active = 1
	}
	sb.WriteString(common.ButtonGroup([]common.ButtonItem{
		{Label: "Save", Shortcut: "enter", Disabled: !m.CanSave()},
		{Label: "Cancel", Shortcut: "esc"},
	}, active))
	sb.WriteString("\n\n")
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "tab", Desc: "next field"},
		{Key: "enter", Desc: "save"},
		{Key: "esc", Desc: "cancel"},
	}, m.Width()-6))
	return sb.String()
}
