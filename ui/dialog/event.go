package dialog

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/msg"
	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/browser"
	"github.com/miosa/aidesk-tui/ui/common"
)

const (
	evTitle = iota
	evSave
	evDelete
	evClose
	evFields
)

const eventDescHeight = 4

// EventModel shows an agenda event with an editable title.
//
// Emits EventUpdate on save and EventDelete after a confirmed delete.
// pgup/pgdown scroll the description; ctrl+o opens the event in the
// browser when it carries a link.
type EventModel struct {
	event      client.Event
	title      InputCursor
	desc       viewport.Model
	focus      int
	confirmDel bool
	loc        *time.Location
}

// NewEvent returns the editor for ev, with times shown in loc.
func NewEvent(ev client.Event, loc *time.Location) EventModel {
	if loc == nil {
		loc = time.Local
	}
	m := EventModel{
		event: ev,
		title: InputCursor{Focused: true, Width: 44},
		loc:   loc,
	}
	m.title.SetValue(ev.Summary)

	w := m.Width() - 6
	m.desc = viewport.New(viewport.WithWidth(w), viewport.WithHeight(eventDescHeight))
	text := strings.TrimSpace(ev.Description)
	if text == "" {
		text = style.Faint.Render("no description")
	} else {
		text = wordwrap.String(text, w)
	}
	m.desc.SetContent(text)
	return m
}

// Title implements Dialog.
func (m EventModel) Title() string { return "Event" }

// Width implements Dialog.
func (m EventModel) Width() int { return 64 }

// Event returns the event being edited.
func (m EventModel) Event() client.Event { return m.event }

// Update handles keyboard input.
func (m EventModel) Update(tm tea.Msg) (Dialog, tea.Cmd) {
	kp, ok := tm.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kp.String() {
	case "esc":
		if m.confirmDel {
			m.confirmDel = false
			return m, nil
		}
		return nil, nil
	case "tab":
		m.setFocus((m.focus + 1) % evFields)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + evFields - 1) % evFields)
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.desc, cmd = m.desc.Update(tm)
		return m, cmd
	case "ctrl+o":
		if link := m.event.HTMLLink; link != "" {
			return m, func() tea.Msg {
				return msg.LinkOpened{URL: link, Err: browser.Open(link)}
			}
		}
		return m, nil
	case "enter":
		return m.activate()
	}

	if m.focus == evTitle {
		m.title.HandleKey(kp)
	}
	return m, nil
}

func (m *EventModel) setFocus(f int) {
	m.focus = f
	m.title.Focused = f == evTitle
	if f != evDelete {
		m.confirmDel = false
	}
}

func (m EventModel) activate() (Dialog, tea.Cmd) {
	switch m.focus {
	case evClose:
		return nil, nil
	case evDelete:
		if !m.confirmDel {
			m.confirmDel = true
			return m, nil
		}
		id := m.event.ID
		return nil, func() tea.Msg { return EventDelete{ID: id} }
	}

	summary := strings.TrimSpace(m.title.Value)
	if summary == "" {
		return m, nil
	}
	start, _ := m.event.Start.Time()
	end, ok := m.event.End.Time()
	if !ok {
		end = start.Add(time.Hour)
	}
	id := m.event.ID
	ev := client.EventCreate{
		Summary:     summary,
		Description: m.event.Description,
		Start:       start.In(m.loc),
		End:         end.In(m.loc),
		Timezone:    m.loc.String(),
	}
	return nil, func() tea.Msg { return EventUpdate{ID: id, Event: ev} }
}

// View renders the event.
func (m EventModel) View() string {
	w := m.Width() - 6
	var sb strings.Builder
	sb.WriteString(style.DialogLabel.Render("Title") + m.title.View() + "\n")
	sb.WriteString(style.DialogLabel.Render("When") + style.SidebarValue.Render(m.when()) + "\n")
	if m.event.HTMLLink != "" {
		sb.WriteString(style.DialogLabel.Render("Link") + style.Link.Render(common.Truncate(m.event.HTMLLink, w-10)) + "\n")
	}
	sb.WriteString(common.Divider(w) + "\n")
	sb.WriteString(m.desc.View() + "\n")
	sb.WriteString(common.Divider(w) + "\n")

	if m.confirmDel {
		sb.WriteString(style.ErrorText.Render("Delete this event? enter to confirm, esc to keep") + "\n")
	}

	active := -1
	switch m.focus {
	case evSave:
		active = 0
	case evDelete:
		active = 1
	case evClose:
		active = 2
	}
	sb.WriteString(common.ButtonGroup([]common.ButtonItem{
		{Label: "Save", Disabled: strings.TrimSpace(m.title.Value) == ""},
		{Label: "Delete", Danger: true},
		{Label: "Close"},
	}, active))
	sb.WriteString("\n\n")
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "tab", Desc: "next"},
		{Key: "enter", Desc: "activate"},
		{Key: "ctrl+o", Desc: "open"},
		{Key: "esc", Desc: "close"},
	}, w))
	return sb.String()
}

func (m EventModel) when() string {
	start, ok := m.event.Start.Time()
	if !ok {
		return "unknown"
	}
	if m.event.Start.AllDay() {
		return start.Format("Mon 02 Jan 2006") + " · all day"
	}
	start = start.In(m.loc)
	s := start.Format("Mon 02 Jan 2006 15:04")
	if end, ok := m.event.End.Time(); ok {
		end = end.In(m.loc)
		if end.YearDay() == start.YearDay() && end.Year() == start.Year() {
			return s + " – " + end.Format("15:04")
		}
		return s + " – " + end.Format("Mon 02 Jan 15:04")
	}
	return s
}
