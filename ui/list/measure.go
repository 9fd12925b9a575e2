package list

// DefaultPadding is added to every measured row height. It is rendered as
// blank lines below the row and doubles as the gap between rows.
const DefaultPadding = 1

// Ticket identifies one measurement: the row it belongs to and the cache
// generation that was current when the row was laid out.
type Ticket struct {
	Index      int
	Generation uint64
}

// Measurer reports rendered row heights into a HeightCache.
//
// Reports are idempotent: re-reporting a height that is already stored does
// not invalidate anything. Reports carrying a ticket from an older cache
// generation are rejected without touching the cache.
type Measurer struct {
	cache      *HeightCache
	padding    int
	invalidate func(index int)
}

// NewMeasurer returns a Measurer writing into cache. invalidate is called
// with the row index whenever a report changes the stored height; it may be
// nil.
func NewMeasurer(cache *HeightCache, padding int, invalidate func(index int)) *Measurer {
	if padding < 0 {
		padding = 0
	}
	return &Measurer{cache: cache, padding: padding, invalidate: invalidate}
}

// Ticket issues a ticket for row index against the current generation.
func (m *Measurer) Ticket(index int) Ticket {
	return Ticket{Index: index, Generation: m.cache.Generation()}
}

// Current reports whether t still refers to the active cache generation.
func (m *Measurer) Current(t Ticket) bool {
	return t.Generation == m.cache.Generation()
}

// Report records the rendered height of the ticket's row plus padding.
// It returns true only when the stored height changed and downstream offsets
// were invalidated.
func (m *Measurer) Report(t Ticket, rendered int) bool {
	if !m.Current(t) || t.Index < 0 {
		return false
	}
	if !m.cache.Set(t.Index, rendered+m.padding) {
		return false
	}
	if m.invalidate != nil {
		m.invalidate(t.Index)
	}
	return true
}

// Padding returns the padding added to every report.
func (m *Measurer) Padding() int { return m.padding }
