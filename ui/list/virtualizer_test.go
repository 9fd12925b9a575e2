package list

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceHeights serves fixed heights and counts lookups.
type sliceHeights struct {
	h     []int
	reads int
}

func (s *sliceHeights) Get(i int) int {
	s.reads++
	if i < 0 || i >= len(s.h) {
		return DefaultFallbackHeight
	}
	return s.h[i]
}

func newVirt(heights []int, viewport int) (*Virtualizer, *sliceHeights) {
	h := &sliceHeights{h: heights}
	v := NewVirtualizer(h, 0)
	v.SetRowCount(len(heights))
	v.SetViewport(80, viewport)
	return v, h
}

func TestVirtualizer_VisibleRangeFollowsOffset(t *testing.T) {
	v, _ := newVirt([]int{120, 80, 200}, 150)

	r := v.VisibleRange()
	assert.Equal(t, 0, r.Start)
	assert.True(t, r.Contains(0))

	v.ScrollTo(120)
	r = v.VisibleRange()
	assert.Equal(t, 1, r.Start)
	assert.True(t, r.Contains(1))
	assert.False(t, r.Contains(0))
}

func TestVirtualizer_OffsetsAndTotal(t *testing.T) {
	v, _ := newVirt([]int{120, 80, 200}, 150)
	assert.Equal(t, 0, v.Offset(0))
	assert.Equal(t, 120, v.Offset(1))
	assert.Equal(t, 200, v.Offset(2))
	assert.Equal(t, 400, v.TotalHeight())
	assert.Equal(t, 400, v.Offset(99))
	assert.Equal(t, 250, v.MaxScroll())
}

func TestVirtualizer_OffsetsIndependentOfUpdateOrder(t *testing.T) {
	final := make([]int, 40)
	rng := rand.New(rand.NewSource(7))
	for i := range final {
		final[i] = rng.Intn(30) + 1
	}

	cache := NewHeightCache(6)
	v := NewVirtualizer(cache, 2)
	v.SetRowCount(len(final))
	v.SetViewport(80, 50)
	meas := NewMeasurer(cache, 0, v.Invalidate)

	order := rng.Perm(len(final))
	for n, i := range order {
		meas.Report(meas.Ticket(i), final[i])
		// Interleave reads so offsets are cached between updates.
		_ = v.Offset(rng.Intn(len(final) + 1))
		if n%5 == 0 {
			_ = v.TotalHeight()
		}
	}

	want := 0
	for i, h := range final {
		require.Equal(t, want, v.Offset(i), "offset of row %d", i)
		want += h
	}
	assert.Equal(t, want, v.TotalHeight())
}

func TestVirtualizer_RecomputesFromLowestInvalidatedIndex(t *testing.T) {
	heights := []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	v, h := newVirt(heights, 5)
	require.Equal(t, 10, v.TotalHeight())

	heights[8] = 4
	v.Invalidate(8)
	h.reads = 0
	assert.Equal(t, 13, v.TotalHeight())
	assert.Equal(t, 2, h.reads)
}

func TestVirtualizer_NoRows(t *testing.T) {
	v, _ := newVirt(nil, 10)
	assert.Equal(t, -1, v.RowAt(0))
	assert.Equal(t, 0, v.VisibleRange().Len())
	assert.Equal(t, 0, v.RenderRange().Len())
	assert.Equal(t, 0, v.TotalHeight())
	assert.True(t, v.AtEnd())
	v.ScrollToRow(3, AlignEnd)
	assert.Equal(t, 0, v.ScrollTop())
}

func TestVirtualizer_RowAtClamps(t *testing.T) {
	v, _ := newVirt([]int{2, 3, 4}, 4)
	assert.Equal(t, 0, v.RowAt(-5))
	assert.Equal(t, 0, v.RowAt(1))
	assert.Equal(t, 1, v.RowAt(2))
	assert.Equal(t, 2, v.RowAt(5))
	assert.Equal(t, 2, v.RowAt(100))
}

func TestVirtualizer_RenderRangeAddsOverscan(t *testing.T) {
	h := &sliceHeights{h: make([]int, 20)}
	for i := range h.h {
		h.h[i] = 10
	}
	v := NewVirtualizer(h, 4)
	v.SetRowCount(20)
	v.SetViewport(80, 30)
	v.ScrollTo(100)

	assert.Equal(t, Range{Start: 10, End: 13}, v.VisibleRange())
	assert.Equal(t, Range{Start: 6, End: 17}, v.RenderRange())

	v.ScrollTo(0)
	assert.Equal(t, Range{Start: 0, End: 7}, v.RenderRange())
}

func TestVirtualizer_ScrollToRowAlignment(t *testing.T) {
	heights := make([]int, 10)
	for i := range heights {
		heights[i] = 10
	}
	v, _ := newVirt(heights, 30)

	v.ScrollToRow(5, AlignStart)
	assert.Equal(t, 50, v.ScrollTop())

	v.ScrollToRow(5, AlignEnd)
	assert.Equal(t, 30, v.ScrollTop())

	v.ScrollToRow(5, AlignCenter)
	assert.Equal(t, 40, v.ScrollTop())

	v.ScrollToRow(9, AlignStart)
	assert.Equal(t, 70, v.ScrollTop(), "clamped to max scroll")

	v.ScrollToRow(0, AlignEnd)
	assert.Equal(t, 0, v.ScrollTop(), "clamped to zero")
}

func TestVirtualizer_ScrollToRowAutoMovesMinimally(t *testing.T) {
	heights := make([]int, 10)
	for i := range heights {
		heights[i] = 10
	}
	v, _ := newVirt(heights, 30)
	v.ScrollTo(20)

	v.ScrollToRow(3, AlignAuto)
	assert.Equal(t, 20, v.ScrollTop(), "already visible")

	v.ScrollToRow(6, AlignAuto)
	assert.Equal(t, 40, v.ScrollTop())

	v.ScrollToRow(1, AlignAuto)
	assert.Equal(t, 10, v.ScrollTop())
}

func TestVirtualizer_OffscreenChangeKeepsVisibleRange(t *testing.T) {
	heights := make([]int, 20)
	for i := range heights {
		heights[i] = 5
	}
	v, _ := newVirt(heights, 20)
	before := v.VisibleRange()

	heights[15] = 50
	v.Invalidate(15)

	assert.Equal(t, before, v.VisibleRange())
	assert.Equal(t, 145, v.TotalHeight())
}

func TestVirtualizer_ShrinkClampsScroll(t *testing.T) {
	heights := []int{10, 10, 10, 10, 10}
	v, _ := newVirt(heights, 20)
	v.ScrollTo(v.MaxScroll())
	require.Equal(t, 30, v.ScrollTop())

	v.SetRowCount(2)
	assert.Equal(t, 0, v.ScrollTop())
	assert.True(t, v.AtEnd())
}

func TestRange_LenAndContains(t *testing.T) {
	r := Range{Start: 2, End: 5}
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(5))
	assert.Equal(t, 0, Range{Start: 4, End: 1}.Len())
}

func TestAlign_String(t *testing.T) {
	assert.Equal(t, "auto", AlignAuto.String())
	assert.Equal(t, "start", AlignStart.String())
	assert.Equal(t, "center", AlignCenter.String())
	assert.Equal(t, "end", AlignEnd.String())
}
