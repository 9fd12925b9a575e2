package list

// FollowMode decides whether new content may pull the viewport to the end.
type FollowMode int

const (
	// FollowWhenAtEnd only follows new rows while the viewport is parked at
	// the bottom. Scrolling away pauses following until the user returns.
	FollowWhenAtEnd FollowMode = iota
	// FollowAlways snaps to the last row on every append, regardless of the
	// user's scroll position.
	FollowAlways
)

// ParseFollowMode maps a config value onto a FollowMode. Unknown values
// select FollowWhenAtEnd.
func ParseFollowMode(s string) FollowMode {
	if s == "always" {
		return FollowAlways
	}
	return FollowWhenAtEnd
}

func (f FollowMode) String() string {
	if f == FollowAlways {
		return "always"
	}
	return "at-end"
}

// ScrollCommand is one scroll-to-row request issued by the Follower.
type ScrollCommand struct {
	Index int
	Align Align
}

// Follower is the scroll-to-end controller.
//
// It is idle until rows are appended or the last row is re-measured, then
// pending until the next layout pass settles, when it issues exactly one
// end-aligned scroll to the last row and goes back to idle. Several triggers
// before a settle coalesce into that one scroll.
type Follower struct {
	mode    FollowMode
	pending bool
	target  int
	stuck   bool
	issued  int
	last    ScrollCommand
}

// NewFollower returns an idle Follower parked at the end.
func NewFollower(mode FollowMode) *Follower {
	return &Follower{mode: mode, stuck: true}
}

// SetMode changes the follow mode.
func (f *Follower) SetMode(mode FollowMode) { f.mode = mode }

// Mode returns the follow mode.
func (f *Follower) Mode() FollowMode { return f.mode }

// Pending reports whether a scroll-to-end is waiting for the layout to settle.
func (f *Follower) Pending() bool { return f.pending }

// Target returns the row a pending scroll will align.
func (f *Follower) Target() int { return f.target }

// Following reports whether new content would currently be followed.
func (f *Follower) Following() bool {
	return f.mode == FollowAlways || f.stuck
}

// Parked reports whether the viewport was left at the end by the last
// scroll, user-initiated or not.
func (f *Follower) Parked() bool { return f.stuck }

// RowsChanged is called after the row count moves from oldCount to newCount.
func (f *Follower) RowsChanged(oldCount, newCount int) {
	switch {
	case newCount == 0:
		f.pending = false
		f.stuck = true
	case newCount > oldCount && (oldCount == 0 || f.Following()):
		f.pending = true
		f.target = newCount - 1
	}
}

// LastRowResized is called when the last row's measured height changed.
func (f *Follower) LastRowResized(last int) {
	if last < 0 || !f.Following() {
		return
	}
	f.pending = true
	f.target = last
}

// Track records a user-initiated scroll. Leaving the end cancels a pending
// scroll unless the mode is FollowAlways.
func (f *Follower) Track(atEnd bool) {
	f.stuck = atEnd
	if !atEnd && f.mode != FollowAlways {
		f.pending = false
	}
}

// Settle issues the pending scroll, if any, against v.
func (f *Follower) Settle(v *Virtualizer) (ScrollCommand, bool) {
	if !f.pending {
		return ScrollCommand{}, false
	}
	f.pending = false
	f.stuck = true
	cmd := ScrollCommand{Index: f.target, Align: AlignEnd}
	v.ScrollToRow(cmd.Index, cmd.Align)
	f.issued++
	f.last = cmd
	return cmd, true
}

// Issued returns the number of scrolls issued so far.
func (f *Follower) Issued() int { return f.issued }

// Last returns the most recently issued scroll.
func (f *Follower) Last() ScrollCommand { return f.last }

// Reset returns to idle, parked at the end.
func (f *Follower) Reset() {
	f.pending = false
	f.stuck = true
	f.target = 0
}
