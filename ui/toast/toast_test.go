package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToasts_Expire(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := New()
	m.now = func() time.Time { return now }

	m.Add("saved", Info)
	m.Add("request failed", Error)
	assert.Equal(t, 2, m.Len())

	now = now.Add(5 * time.Second)
	m.Tick()
	assert.Equal(t, 1, m.Len(), "info expired, error still up")
	assert.Contains(t, m.View(80), "request failed")

	now = now.Add(5 * time.Second)
	m.Tick()
	assert.Zero(t, m.Len())
	assert.Empty(t, m.View(80))
}

func TestToasts_Bounded(t *testing.T) {
	m := New()
	for _, s := range []string{"a", "b", "c", "d"} {
		m.Add(s, Info)
	}
	assert.Equal(t, maxToasts, m.Len())
	assert.NotContains(t, m.View(40), " a ")
	assert.Contains(t, m.View(40), " d ")
}
