package status

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestView(t *testing.T) {
	m := New()
	m.SetWidth(80)
	m.SetMode("search")
	m.SetHints("ctrl+n new")

	out := m.View()
	assert.Contains(t, out, "SEARCH")
	assert.Contains(t, out, "New conversation")
	assert.Contains(t, out, "ctrl+n new")
	assert.Equal(t, 80, lipgloss.Width(out))

	m.SetConversation(12, 8)
	m.SetFollowing(false)
	m.SetBusy("asking")
	out = m.View()
	assert.Contains(t, out, "Conv 12 · 8 messages")
	assert.Contains(t, out, "new below")
	assert.Contains(t, out, "asking")
	assert.NotContains(t, out, "ctrl+n")
}

func TestView_NarrowDropsRight(t *testing.T) {
	m := New()
	m.SetWidth(10)
	m.SetHints("a very long hint line")
	assert.NotContains(t, m.View(), "hint")
}
