// Package list provides a virtualized, variable-height scrollable list for
// chat-style UIs.
//
// Key properties:
//   - Row heights live in a HeightCache keyed by row index. Unmeasured rows
//     count with a fallback height so the total extent is known without
//     rendering every row.
//   - Rows are measured after they are rendered. Only rows inside the
//     render range (visible rows plus overscan) are rendered or measured.
//   - A height change invalidates the cumulative offsets after that row;
//     they are recomputed lazily from the lowest invalidated index.
//   - The Follower keeps the newest row aligned to the bottom of the
//     viewport while the user is parked at the end.
//   - Each measurement carries a Ticket. Reset starts a new generation and
//     tickets from older generations are dropped.
package list

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ---------------------------------------------------------------------------
// Public interfaces
// ---------------------------------------------------------------------------

// Row is anything the list can render.
type Row interface {
	// Key returns a stable identifier used for render-cache keying.
	Key() string

	// Version changes whenever the row's content changes. A new version
	// discards the cached render and re-measures the row.
	Version() int

	// Render returns the row's content for the given width.
	Render(width int) string
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option is a functional option for New.
type Option func(*Model)

// WithWidth sets the initial viewport width.
func WithWidth(w int) Option {
	return func(m *Model) { m.width = w }
}

// WithHeight sets the initial viewport height in lines.
func WithHeight(h int) Option {
	return func(m *Model) { m.height = h }
}

// WithOverscan sets the number of rows rendered beyond each viewport edge.
func WithOverscan(n int) Option {
	return func(m *Model) {
		if n >= 0 {
			m.overscan = n
		}
	}
}

// WithFallbackHeight sets the height assumed for unmeasured rows.
func WithFallbackHeight(h int) Option {
	return func(m *Model) {
		if h > 0 {
			m.fallback = h
		}
	}
}

// WithPadding sets the blank lines added below every measured row.
func WithPadding(p int) Option {
	return func(m *Model) {
		if p >= 0 {
			m.padding = p
		}
	}
}

// WithFollowMode sets the scroll-to-end behaviour.
func WithFollowMode(f FollowMode) Option {
	return func(m *Model) { m.followMode = f }
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

type cachedRender struct {
	content string
	width   int
	version int
}

// maxLayoutPasses bounds the measure/settle loop in Layout.
const maxLayoutPasses = 8

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is a virtualized scrollable list.
// The zero value is not usable; construct with New.
type Model struct {
	rows   []Row
	width  int
	height int

	overscan   int
	fallback   int
	padding    int
	followMode FollowMode

	heights  *HeightCache
	virt     *Virtualizer
	measurer *Measurer
	follow   *Follower

	// renders stores rendered output keyed by row key.
	renders map[string]cachedRender
}

// New constructs a Model with the supplied options.
func New(opts ...Option) Model {
	m := Model{
		overscan: DefaultOverscan,
		fallback: DefaultFallbackHeight,
		padding:  DefaultPadding,
		renders:  make(map[string]cachedRender),
	}
	for _, o := range opts {
		o(&m)
	}
	m.heights = NewHeightCache(m.fallback)
	m.virt = NewVirtualizer(m.heights, m.overscan)
	m.virt.SetViewport(m.width, m.height)
	m.measurer = NewMeasurer(m.heights, m.padding, m.virt.Invalidate)
	m.follow = NewFollower(m.followMode)
	return m
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// SetSize updates the viewport dimensions. A width change discards every
// measurement because each row re-wraps at the new width; the row at the
// top of the viewport stays at the top unless the list is following.
func (m *Model) SetSize(w, h int) {
	widthChanged := w != m.width
	anchor := m.virt.RowAt(m.virt.ScrollTop())

	m.width = w
	m.height = h
	m.virt.SetViewport(w, h)

	if widthChanged {
		m.renders = make(map[string]cachedRender)
		m.heights.Reset()
		m.virt.Invalidate(0)
	}
	if m.follow.Following() {
		m.follow.LastRowResized(len(m.rows) - 1)
	} else if widthChanged && anchor >= 0 {
		m.virt.ScrollToRow(anchor, AlignStart)
	}
	m.Layout()
}

// SetFollowMode changes the scroll-to-end behaviour.
func (m *Model) SetFollowMode(f FollowMode) {
	m.followMode = f
	m.follow.SetMode(f)
}

// SetRows replaces the row slice. Measurements of surviving indices are
// kept; callers loading a different conversation call Reset first.
func (m *Model) SetRows(rows []Row) {
	old := len(m.rows)
	m.rows = rows
	if len(rows) < old {
		m.heights.Forget(len(rows))
		m.virt.Invalidate(len(rows))
	}
	m.virt.SetRowCount(len(rows))
	m.follow.RowsChanged(old, len(rows))
	m.Layout()
}

// AppendRows adds rows to the end of the list.
func (m *Model) AppendRows(rows ...Row) {
	if len(rows) == 0 {
		return
	}
	next := make([]Row, 0, len(m.rows)+len(rows))
	next = append(next, m.rows...)
	next = append(next, rows...)
	m.SetRows(next)
}

// UpdateRow discards the cached render of row index. Rows inside the render
// range are re-measured at once; others are re-measured when they next
// scroll into range.
func (m *Model) UpdateRow(index int) {
	if index < 0 || index >= len(m.rows) {
		return
	}
	delete(m.renders, m.rows[index].Key())
	m.Layout()
}

// Reset drops every row and measurement and starts a new generation.
// Outstanding tickets become stale.
func (m *Model) Reset() {
	m.rows = nil
	m.renders = make(map[string]cachedRender)
	m.heights.Reset()
	m.virt.SetRowCount(0)
	m.virt.Invalidate(0)
	m.virt.ScrollTo(0)
	m.follow.Reset()
}

// ---------------------------------------------------------------------------
// Measurement
// ---------------------------------------------------------------------------

// Ticket issues a measurement ticket for row index.
func (m Model) Ticket(index int) Ticket { return m.measurer.Ticket(index) }

// Current reports whether t belongs to the active generation.
func (m Model) Current(t Ticket) bool { return m.measurer.Current(t) }

// Measure applies a height measured outside the layout pass. It returns
// false for stale tickets, out-of-range rows and unchanged heights. The
// viewport keeps its top row in place, or stays at the end when parked there.
func (m *Model) Measure(t Ticket, rendered int) bool {
	if t.Index < 0 || t.Index >= len(m.rows) {
		return false
	}
	anchor := m.virt.RowAt(m.virt.ScrollTop())
	within := m.virt.ScrollTop() - m.virt.Offset(anchor)
	if !m.measureInto(t, rendered) {
		return false
	}
	if m.follow.Parked() {
		m.virt.ScrollTo(m.virt.MaxScroll())
	} else {
		m.virt.ScrollTo(m.virt.Offset(anchor) + within)
	}
	m.Layout()
	return true
}

func (m *Model) measureInto(t Ticket, rendered int) bool {
	if !m.measurer.Report(t, rendered) {
		return false
	}
	if t.Index == len(m.rows)-1 {
		m.follow.LastRowResized(t.Index)
	}
	return true
}

// measureRow renders row index and reports its height.
func (m *Model) measureRow(index int) bool {
	content := m.renderRow(index)
	return m.measureInto(m.measurer.Ticket(index), countLines(content))
}

// Layout runs the cooperative measure pass: rows in the render range are
// rendered and measured until heights stop changing, then a pending
// scroll-to-end is settled. The row at the top of the viewport is kept in
// place while rows above it change height.
func (m *Model) Layout() {
	if m.width <= 0 || len(m.rows) == 0 {
		if len(m.rows) == 0 {
			m.follow.Reset()
		}
		return
	}
	for pass := 0; pass < maxLayoutPasses; pass++ {
		anchor := m.virt.RowAt(m.virt.ScrollTop())
		within := m.virt.ScrollTop() - m.virt.Offset(anchor)

		changed := false
		r := m.virt.RenderRange()
		for i := r.Start; i < r.End; i++ {
			if m.measureRow(i) {
				changed = true
			}
		}
		if m.follow.Pending() && !m.heights.Measured(len(m.rows)-1) {
			if m.measureRow(len(m.rows) - 1) {
				changed = true
			}
		}

		if _, ok := m.follow.Settle(m.virt); ok {
			continue
		}
		if changed {
			if m.follow.Parked() {
				m.virt.ScrollTo(m.virt.MaxScroll())
			} else {
				m.virt.ScrollTo(m.virt.Offset(anchor) + within)
			}
			continue
		}
		return
	}
}

// ---------------------------------------------------------------------------
// Scroll
// ---------------------------------------------------------------------------

// ScrollDown scrolls the content down by lines.
func (m *Model) ScrollDown(lines int) {
	if lines <= 0 || len(m.rows) == 0 {
		return
	}
	m.virt.ScrollBy(lines)
	m.userScrolled()
}

// ScrollUp scrolls the content up by lines.
func (m *Model) ScrollUp(lines int) {
	if lines <= 0 || len(m.rows) == 0 {
		return
	}
	m.virt.ScrollBy(-lines)
	m.userScrolled()
}

// PageDown scrolls down by one full viewport height.
func (m *Model) PageDown() { m.ScrollDown(m.height) }

// PageUp scrolls up by one full viewport height.
func (m *Model) PageUp() { m.ScrollUp(m.height) }

// HalfPageDown scrolls down by half the viewport height.
func (m *Model) HalfPageDown() { m.ScrollDown(m.height / 2) }

// HalfPageUp scrolls up by half the viewport height.
func (m *Model) HalfPageUp() { m.ScrollUp(m.height / 2) }

// ScrollToTop positions the viewport at the first row.
func (m *Model) ScrollToTop() {
	m.virt.ScrollTo(0)
	m.userScrolled()
}

// ScrollToBottom aligns the last row with the bottom of the viewport and
// resumes following.
func (m *Model) ScrollToBottom() {
	if len(m.rows) == 0 {
		return
	}
	m.virt.ScrollToRow(len(m.rows)-1, AlignEnd)
	m.userScrolled()
}

// ScrollToRow scrolls row index into view with the given alignment.
func (m *Model) ScrollToRow(index int, align Align) {
	if len(m.rows) == 0 {
		return
	}
	m.virt.ScrollToRow(index, align)
	m.userScrolled()
}

func (m *Model) userScrolled() {
	m.follow.Track(m.virt.AtEnd())
	m.Layout()
}

// AtBottom reports whether the viewport shows the end of the list.
func (m Model) AtBottom() bool {
	return len(m.rows) == 0 || m.virt.AtEnd()
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Len returns the number of rows.
func (m Model) Len() int { return len(m.rows) }

// Row returns row index, or nil when out of range.
func (m Model) Row(index int) Row {
	if index < 0 || index >= len(m.rows) {
		return nil
	}
	return m.rows[index]
}

// Width returns the viewport width.
func (m Model) Width() int { return m.width }

// Height returns the viewport height.
func (m Model) Height() int { return m.height }

// ScrollTop returns the scroll offset in lines.
func (m Model) ScrollTop() int { return m.virt.ScrollTop() }

// TotalHeight returns the total scrollable height in lines.
func (m Model) TotalHeight() int { return m.virt.TotalHeight() }

// RowHeight returns the measured (or fallback) height of row index.
func (m Model) RowHeight(index int) int { return m.heights.Get(index) }

// VisibleRange returns the rows intersecting the viewport.
func (m Model) VisibleRange() Range { return m.virt.VisibleRange() }

// RenderRange returns the rows rendered on the next View.
func (m Model) RenderRange() Range { return m.virt.RenderRange() }

// Generation returns the current measurement generation.
func (m Model) Generation() uint64 { return m.heights.Generation() }

// Follower exposes the scroll-to-end controller.
func (m Model) Follower() *Follower { return m.follow }

// RowIndexAtPosition resolves a y coordinate relative to the top of the
// viewport to a row index. Returns -1 outside the viewport.
func (m Model) RowIndexAtPosition(y int) int {
	if y < 0 || y >= m.height || len(m.rows) == 0 {
		return -1
	}
	abs := m.virt.ScrollTop() + y
	if abs >= m.virt.TotalHeight() {
		return -1
	}
	return m.virt.RowAt(abs)
}

// ---------------------------------------------------------------------------
// Update (bubbletea)
// ---------------------------------------------------------------------------

// Update handles mouse wheel events. Callers forward whichever tea.Msg events
// they want the list to respond to.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if wheel, ok := msg.(tea.MouseWheelMsg); ok {
		switch wheel.Button {
		case tea.MouseWheelUp:
			m.ScrollUp(3)
		case tea.MouseWheelDown:
			m.ScrollDown(3)
		}
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the rows intersecting the viewport, each padded to its
// measured height and clipped to the viewport edges.
func (m Model) View() string {
	if m.height <= 0 || m.width <= 0 || len(m.rows) == 0 {
		return ""
	}

	top := m.virt.ScrollTop()
	bottom := top + m.height
	r := m.virt.VisibleRange()

	lines := make([]string, 0, m.height)
	for i := r.Start; i < r.End; i++ {
		h := m.heights.Get(i)
		rowLines := splitLines(m.renderRow(i))
		for len(rowLines) < h {
			rowLines = append(rowLines, "")
		}
		rowLines = rowLines[:h]

		rowTop := m.virt.Offset(i)
		start := top - rowTop
		if start < 0 {
			start = 0
		}
		end := bottom - rowTop
		if end > h {
			end = h
		}
		if start < end {
			lines = append(lines, rowLines[start:end]...)
		}
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderRow returns the cached or freshly rendered content of row index.
func (m Model) renderRow(index int) string {
	row := m.rows[index]
	key := row.Key()
	ver := row.Version()
	if cr, ok := m.renders[key]; ok && cr.width == m.width && cr.version == ver {
		return cr.content
	}
	content := row.Render(m.width)
	m.renders[key] = cachedRender{content: content, width: m.width, version: ver}
	return content
}

// ---------------------------------------------------------------------------
// String helpers
// ---------------------------------------------------------------------------

// splitLines splits a rendered string into individual lines.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// countLines counts the number of rendered lines in a string (number of \n + 1).
func countLines(s string) int {
	if s == "" {
		return 1
	}
	return strings.Count(s, "\n") + 1
}
