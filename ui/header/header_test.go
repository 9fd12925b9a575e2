package header

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	m := New("0.3.0")
	m.SetWidth(70)
	m.SetUser("alice")
	m.SetCalendar(CalendarConnected)
	m.SetTitle("Weekend plans")

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "aidesk")
	assert.Contains(t, lines[0], "v0.3.0")
	assert.Contains(t, lines[0], "alice")
	assert.Contains(t, lines[0], "calendar on")
	assert.Contains(t, lines[0], "Weekend plans")
	assert.Equal(t, 70, lipgloss.Width(lines[0]))
	assert.Equal(t, 70, lipgloss.Width(lines[1]))
}

func TestCalendarState(t *testing.T) {
	m := New("")
	assert.Equal(t, CalendarUnknown, m.Calendar())
	m.SetCalendar(CalendarConnecting)
	assert.Equal(t, "calendar connecting", m.Calendar().String())
}
