package list

// DefaultFallbackHeight is the height, in lines, assumed for a row that has
// never been measured.
const DefaultFallbackHeight = 6

// HeightCache maps row index to the last measured row height.
//
// Entries are keyed by index, not row identity: indices are stable within one
// loaded conversation and the whole cache is discarded with Reset when a
// different conversation is loaded. Every Reset bumps the generation so that
// measurements taken against the previous contents can be recognised and
// dropped.
type HeightCache struct {
	fallback int
	heights  map[int]int
	gen      uint64
}

// NewHeightCache returns an empty cache. A non-positive fallback selects
// DefaultFallbackHeight.
func NewHeightCache(fallback int) *HeightCache {
	if fallback <= 0 {
		fallback = DefaultFallbackHeight
	}
	return &HeightCache{
		fallback: fallback,
		heights:  make(map[int]int),
	}
}

// Get returns the measured height of row index, or the fallback when the row
// has not been measured. Out-of-range indices also return the fallback.
func (c *HeightCache) Get(index int) int {
	if h, ok := c.heights[index]; ok {
		return h
	}
	return c.fallback
}

// Measured reports whether row index has a stored measurement.
func (c *HeightCache) Measured(index int) bool {
	_, ok := c.heights[index]
	return ok
}

// Set stores height for row index and reports whether the stored value
// changed. Writing the value already stored is a no-op.
func (c *HeightCache) Set(index, height int) bool {
	if index < 0 {
		return false
	}
	if height < 1 {
		height = 1
	}
	if old, ok := c.heights[index]; ok && old == height {
		return false
	}
	c.heights[index] = height
	return true
}

// Forget drops every entry at or after index. Used when the row count
// shrinks without a conversation switch.
func (c *HeightCache) Forget(index int) {
	for i := range c.heights {
		if i >= index {
			delete(c.heights, i)
		}
	}
}

// Reset clears all entries and starts a new generation.
func (c *HeightCache) Reset() {
	c.heights = make(map[int]int)
	c.gen++
}

// Generation identifies the current contents. It changes on every Reset.
func (c *HeightCache) Generation() uint64 { return c.gen }

// Len returns the number of measured rows.
func (c *HeightCache) Len() int { return len(c.heights) }

// Fallback returns the height used for unmeasured rows.
func (c *HeightCache) Fallback() int { return c.fallback }
