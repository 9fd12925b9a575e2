package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurer_AddsPadding(t *testing.T) {
	c := NewHeightCache(6)
	m := NewMeasurer(c, 1, nil)
	require.True(t, m.Report(m.Ticket(0), 3))
	assert.Equal(t, 4, c.Get(0))
}

func TestMeasurer_NegativePaddingIsZero(t *testing.T) {
	m := NewMeasurer(NewHeightCache(6), -2, nil)
	assert.Equal(t, 0, m.Padding())
}

func TestMeasurer_SameHeightInvalidatesOnce(t *testing.T) {
	c := NewHeightCache(6)
	var invalidated []int
	m := NewMeasurer(c, 1, func(i int) { invalidated = append(invalidated, i) })

	assert.True(t, m.Report(m.Ticket(3), 2))
	assert.False(t, m.Report(m.Ticket(3), 2))
	assert.False(t, m.Report(m.Ticket(3), 2))
	assert.Equal(t, []int{3}, invalidated)

	assert.True(t, m.Report(m.Ticket(3), 5))
	assert.Equal(t, []int{3, 3}, invalidated)
}

func TestMeasurer_StaleTicketIgnored(t *testing.T) {
	c := NewHeightCache(6)
	calls := 0
	m := NewMeasurer(c, 1, func(int) { calls++ })

	stale := m.Ticket(0)
	c.Reset()
	assert.False(t, m.Current(stale))
	assert.False(t, m.Report(stale, 40))
	assert.False(t, c.Measured(0))
	assert.Equal(t, 0, calls)

	assert.True(t, m.Report(m.Ticket(0), 40))
	assert.Equal(t, 41, c.Get(0))
}

func TestMeasurer_NegativeIndexIgnored(t *testing.T) {
	m := NewMeasurer(NewHeightCache(6), 1, nil)
	assert.False(t, m.Report(Ticket{Index: -1}, 3))
}

func TestModel_MeasureAfterResetIsDropped(t *testing.T) {
	m := New(WithWidth(40), WithHeight(10))
	m.SetRows(rowsOf(3, 1))
	stale := m.Ticket(1)

	// Switch to another conversation with the same row count.
	m.Reset()
	m.SetRows([]Row{makeRow("x0", "a"), makeRow("x1", "b"), makeRow("x2", "c")})
	before := m.RowHeight(1)

	assert.False(t, m.Current(stale))
	assert.False(t, m.Measure(stale, 30))
	assert.Equal(t, before, m.RowHeight(1))
}

func TestModel_MeasureAppliesCurrentTicket(t *testing.T) {
	m := New(WithWidth(40), WithHeight(4), WithOverscan(0))
	m.SetRows(rowsOf(30, 1))
	m.ScrollToTop()
	total := m.TotalHeight()

	// Row 20 is outside the render range, so the layout pass leaves it alone.
	assert.True(t, m.Measure(m.Ticket(20), 4))
	assert.Equal(t, 5, m.RowHeight(20))
	assert.Equal(t, total-DefaultFallbackHeight+5, m.TotalHeight())
	assert.Equal(t, 0, m.ScrollTop())
	assert.False(t, m.Measure(m.Ticket(30), 4))
}
