package sidebar

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/aidesk-tui/client"
)

func fixed(m *Model) time.Time {
	now := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return now
}

func event(id, title, start string) client.Event {
	return client.Event{ID: id, Summary: title, Start: client.When{DateTime: start}}
}

func TestView_Empty(t *testing.T) {
	m := New(3, time.UTC)
	fixed(&m)
	m.SetSize(30, 20)
	m.SetEvents(nil)

	out := m.View()
	assert.Contains(t, out, "no upcoming events")
	assert.Contains(t, out, "no conversations yet")
}

func TestView_GroupsByDay(t *testing.T) {
	m := New(3, time.UTC)
	fixed(&m)
	m.SetSize(40, 20)
	m.SetEvents([]client.Event{
		event("b", "Standup", "2026-05-05T09:00:00Z"),
		event("a", "Dentist", "2026-05-04T15:00:00Z"),
		{ID: "c", Summary: "Holiday", Start: client.When{Date: "2026-05-06"}},
	})

	out := m.View()
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "15:00 Dentist")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "09:00 Standup")
	assert.Contains(t, out, "all day Holiday")
	assert.Less(t, strings.Index(out, "Dentist"), strings.Index(out, "Standup"), "sorted by start")
}

func TestCursor(t *testing.T) {
	m := New(3, time.UTC)
	m.SetEvents([]client.Event{
		event("a", "A", "2026-05-04T10:00:00Z"),
		event("b", "B", "2026-05-04T11:00:00Z"),
	})

	ev, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", ev.ID)

	m.MoveDown()
	m.MoveDown()
	ev, _ = m.Selected()
	assert.Equal(t, "b", ev.ID)

	m.SetEvents(nil)
	_, ok = m.Selected()
	assert.False(t, ok)
	m.MoveUp()
}

func TestRange(t *testing.T) {
	m := New(3, time.UTC)
	fixed(&m)
	start, end := m.Range()
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC), end)
}

func TestError(t *testing.T) {
	m := New(3, time.UTC)
	m.SetSize(40, 10)
	m.SetError(errors.New("calendar not connected"))
	assert.Contains(t, m.View(), "calendar not connected")

	m.SetEvents(nil)
	assert.Contains(t, m.View(), "no upcoming events")
}

func TestRecentMarksCurrent(t *testing.T) {
	m := New(3, time.UTC)
	m.SetSize(40, 20)
	m.SetConversations([]client.ConversationSummary{
		{ConversationID: 1, Title: "Trip"},
		{ConversationID: 2},
	}, 2)

	out := m.View()
	assert.Contains(t, out, "Trip")
	assert.Contains(t, out, "● Conv 2")
}
