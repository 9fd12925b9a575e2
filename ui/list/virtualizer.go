package list

import "sort"

// DefaultOverscan is the number of rows rendered beyond each edge of the
// viewport.
const DefaultOverscan = 4

// Align selects where ScrollToRow places the target row.
type Align int

const (
	// AlignAuto scrolls the minimum distance that makes the row fully
	// visible, and not at all if it already is.
	AlignAuto Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "auto"
	}
}

// Heights is the per-row height lookup the virtualizer lays rows out with.
type Heights interface {
	Get(index int) int
}

// Range is a half-open span [Start, End) of row indices.
type Range struct {
	Start, End int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether index falls inside the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// Virtualizer maps a scroll position onto row indices.
//
// offsets[i] is the top of row i and offsets[count] the total height.
// Offsets up to and including offsets[valid] are correct; everything after
// is recomputed on demand, starting from the lowest invalidated index.
type Virtualizer struct {
	heights  Heights
	count    int
	offsets  []int
	valid    int
	width    int
	height   int
	overscan int
	top      int
}

// NewVirtualizer returns a Virtualizer with no rows.
func NewVirtualizer(h Heights, overscan int) *Virtualizer {
	if overscan < 0 {
		overscan = 0
	}
	return &Virtualizer{
		heights:  h,
		offsets:  []int{0},
		overscan: overscan,
	}
}

// ---------------------------------------------------------------------------
// Inputs
// ---------------------------------------------------------------------------

// SetRowCount updates the number of rows. Offsets of surviving rows are kept.
func (v *Virtualizer) SetRowCount(n int) {
	if n < 0 {
		n = 0
	}
	if n == v.count {
		return
	}
	if cap(v.offsets) >= n+1 {
		v.offsets = v.offsets[:n+1]
	} else {
		grown := make([]int, n+1, 2*(n+1))
		copy(grown, v.offsets)
		v.offsets = grown
	}
	v.count = n
	if v.valid > n {
		v.valid = n
	}
	v.clamp()
}

// SetViewport updates the viewport size.
func (v *Virtualizer) SetViewport(width, height int) {
	if height < 0 {
		height = 0
	}
	v.width = width
	v.height = height
	v.clamp()
}

// Invalidate marks the offsets of every row after index as stale. The
// offset of index itself only depends on earlier rows and stays valid.
func (v *Virtualizer) Invalidate(index int) {
	if index < 0 {
		index = 0
	}
	if index < v.valid {
		v.valid = index
	}
}

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

// ensure brings offsets up to date through offsets[index].
func (v *Virtualizer) ensure(index int) {
	if index > v.count {
		index = v.count
	}
	for i := v.valid + 1; i <= index; i++ {
		v.offsets[i] = v.offsets[i-1] + v.heights.Get(i-1)
	}
	if index > v.valid {
		v.valid = index
	}
}

// Offset returns the top of row index. Indices past the end return the
// total height.
func (v *Virtualizer) Offset(index int) int {
	if index <= 0 {
		return 0
	}
	if index > v.count {
		index = v.count
	}
	v.ensure(index)
	return v.offsets[index]
}

// TotalHeight returns the sum of all row heights.
func (v *Virtualizer) TotalHeight() int {
	return v.Offset(v.count)
}

// RowCount returns the number of rows.
func (v *Virtualizer) RowCount() int { return v.count }

// ViewportHeight returns the viewport height.
func (v *Virtualizer) ViewportHeight() int { return v.height }

// RowAt returns the row covering vertical position y, clamped to the first
// and last row. It returns -1 when there are no rows.
func (v *Virtualizer) RowAt(y int) int {
	if v.count == 0 {
		return -1
	}
	if y <= 0 {
		return 0
	}
	v.ensure(v.count)
	if y >= v.offsets[v.count] {
		return v.count - 1
	}
	// First row whose bottom edge lies below y.
	return sort.Search(v.count, func(i int) bool { return v.offsets[i+1] > y })
}

// VisibleRange returns the rows intersecting the viewport.
func (v *Virtualizer) VisibleRange() Range {
	if v.count == 0 || v.height <= 0 {
		return Range{}
	}
	first := v.RowAt(v.top)
	last := v.RowAt(v.top + v.height - 1)
	return Range{Start: first, End: last + 1}
}

// RenderRange returns the visible rows widened by the overscan on both sides.
func (v *Virtualizer) RenderRange() Range {
	r := v.VisibleRange()
	if r.Len() == 0 {
		return r
	}
	r.Start -= v.overscan
	if r.Start < 0 {
		r.Start = 0
	}
	r.End += v.overscan
	if r.End > v.count {
		r.End = v.count
	}
	return r
}

// ---------------------------------------------------------------------------
// Scrolling
// ---------------------------------------------------------------------------

// ScrollTop returns the current scroll offset.
func (v *Virtualizer) ScrollTop() int { return v.top }

// MaxScroll returns the largest valid scroll offset.
func (v *Virtualizer) MaxScroll() int {
	m := v.TotalHeight() - v.height
	if m < 0 {
		return 0
	}
	return m
}

// ScrollTo moves the viewport to offset, clamped to the scrollable extent.
func (v *Virtualizer) ScrollTo(offset int) {
	v.top = offset
	v.clamp()
}

// ScrollBy moves the viewport by delta lines.
func (v *Virtualizer) ScrollBy(delta int) {
	v.ScrollTo(v.top + delta)
}

// ScrollToRow scrolls so row index is placed according to align.
func (v *Virtualizer) ScrollToRow(index int, align Align) {
	if v.count == 0 {
		v.top = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= v.count {
		index = v.count - 1
	}
	rowTop := v.Offset(index)
	rowH := v.heights.Get(index)

	switch align {
	case AlignStart:
		v.ScrollTo(rowTop)
	case AlignEnd:
		v.ScrollTo(rowTop + rowH - v.height)
	case AlignCenter:
		v.ScrollTo(rowTop + rowH/2 - v.height/2)
	default:
		switch {
		case rowTop < v.top:
			v.ScrollTo(rowTop)
		case rowTop+rowH > v.top+v.height:
			v.ScrollTo(rowTop + rowH - v.height)
		}
	}
}

// AtEnd reports whether the viewport shows the bottom of the list.
func (v *Virtualizer) AtEnd() bool {
	return v.top >= v.MaxScroll()
}

func (v *Virtualizer) clamp() {
	if v.top > v.MaxScroll() {
		v.top = v.MaxScroll()
	}
	if v.top < 0 {
		v.top = 0
	}
}
