package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRotator(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	r := New(Summarizing, start)
	assert.Equal(t, "summarizing", r.Label())

	_, changed := r.Next(start.Add(time.Second))
	assert.False(t, changed)

	prev := ""
	for i := 1; i <= 20; i++ {
		label, changed := r.Next(start.Add(time.Duration(i) * RotateEvery))
		assert.True(t, changed)
		assert.Contains(t, Phrases(Summarizing), label)
		assert.NotEqual(t, prev, label)
		prev = label
	}
}

func TestRotator_ZeroValue(t *testing.T) {
	var r Rotator
	_, changed := r.Next(time.Now())
	assert.False(t, changed)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "searching the web", Label(Searching))
	assert.Equal(t, "thinking", Label(Kind(99)))
	for _, k := range []Kind{Thinking, Searching, Summarizing, Transcribing} {
		assert.NotEmpty(t, Phrases(k))
	}
}
