package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinner_StartStop(t *testing.T) {
	m := New()
	assert.Empty(t, m.View())

	cmd := m.Start("Asking")
	require.NotNil(t, cmd)
	assert.True(t, m.Running())
	assert.Contains(t, m.View(), "Asking")

	assert.Nil(t, m.Start("Again"), "restart while running must not add a tick chain")

	m.Stop()
	assert.Empty(t, m.View())
	assert.Zero(t, m.Elapsed())
}

func TestSpinner_IgnoresForeignTicks(t *testing.T) {
	a, b := New(), New()
	a.Start("a")
	b.Start("b")

	a2, cmd := a.Update(TickMsg{ID: b.id})
	assert.Nil(t, cmd)
	assert.Equal(t, a.frame, a2.frame)

	a3, cmd := a.Update(TickMsg{ID: a.id})
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, a3.frame)
}

func TestSpinner_Elapsed(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	m := New()
	m.now = func() time.Time { return now }
	m.Start("Uploading")
	now = now.Add(3 * time.Second)

	assert.Equal(t, 3*time.Second, m.Elapsed())
	assert.Contains(t, m.View(), "3s")
}
