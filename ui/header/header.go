// Package header renders the top bar: app title, signed-in user and the
// Google Calendar connection state.
package header

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
	"github.com/miosa/aidesk-tui/ui/logo"
)

// CalendarState is the Google Calendar connection as the header shows it.
type CalendarState int

const (
	CalendarUnknown CalendarState = iota
	CalendarDisconnected
	CalendarConnecting
	CalendarConnected
)

func (s CalendarState) String() string {
	switch s {
	case CalendarDisconnected:
		return "calendar off"
	case CalendarConnecting:
		return "calendar connecting"
	case CalendarConnected:
		return "calendar on"
	default:
		return "calendar ?"
	}
}

// Model holds the header state.
type Model struct {
	version  string
	username string
	calendar CalendarState
	title    string
	width    int
}

// New returns a header for the given app version.
func New(version string) Model {
	return Model{version: version}
}

// SetUser sets the signed-in username; "" when signed out.
func (m *Model) SetUser(name string) { m.username = name }

// SetCalendar sets the calendar connection state.
func (m *Model) SetCalendar(s CalendarState) { m.calendar = s }

// Calendar returns the calendar connection state.
func (m Model) Calendar() CalendarState { return m.calendar }

// SetTitle sets the open conversation title shown after the app name.
func (m *Model) SetTitle(t string) { m.title = t }

// SetWidth sets the terminal width.
func (m *Model) SetWidth(w int) { m.width = w }

// View renders the header line plus a separator.
func (m Model) View() string {
	sep := style.HeaderSeparator.Render(" · ")
	left := style.HeaderTitle.Render(logo.CompactLogo)
	if v := logo.Version(m.version); v != "" {
		left += " " + v
	}
	if m.title != "" {
		left += sep + style.Faint.Render(common.Truncate(m.title, 40))
	}

	var right []string
	if m.username != "" {
		right = append(right, style.HeaderUser.Render(m.username))
	}
	right = append(right, common.StatusBadge(m.calendar.String(), m.calendar == CalendarConnected))
	r := strings.Join(right, sep)

	line := left
	if gap := m.width - lipgloss.Width(left) - lipgloss.Width(r); gap > 0 {
		line = left + strings.Repeat(" ", gap) + r
	}
	return line + "\n" + common.Divider(m.width)
}
