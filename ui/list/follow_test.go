package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollower_AppendIssuesExactlyOneScroll(t *testing.T) {
	m := New(WithWidth(40), WithHeight(10))
	m.SetRows(rowsOf(5, 3))
	require.True(t, m.AtBottom())
	before := m.Follower().Issued()

	m.AppendRows(multiLineRow("r5", 3))

	f := m.Follower()
	assert.Equal(t, before+1, f.Issued())
	assert.Equal(t, ScrollCommand{Index: 5, Align: AlignEnd}, f.Last())
	assert.False(t, f.Pending())
	assert.True(t, m.AtBottom())
}

func TestFollower_TriggersCoalesce(t *testing.T) {
	heights := make([]int, 10)
	for i := range heights {
		heights[i] = 3
	}
	v, _ := newVirt(heights, 5)
	f := NewFollower(FollowWhenAtEnd)

	f.RowsChanged(8, 9)
	f.RowsChanged(9, 10)
	f.LastRowResized(9)
	require.True(t, f.Pending())
	assert.Equal(t, 9, f.Target())

	cmd, ok := f.Settle(v)
	require.True(t, ok)
	assert.Equal(t, 9, cmd.Index)
	assert.Equal(t, 1, f.Issued())

	_, ok = f.Settle(v)
	assert.False(t, ok)
	assert.Equal(t, 1, f.Issued())
	assert.Equal(t, v.MaxScroll(), v.ScrollTop())
}

func TestFollower_WhenAtEnd_PausesAfterScrollingAway(t *testing.T) {
	m := New(WithWidth(40), WithHeight(10))
	m.SetRows(rowsOf(20, 2))
	m.ScrollToTop()
	issued := m.Follower().Issued()

	m.AppendRows(multiLineRow("new", 2))

	assert.Equal(t, issued, m.Follower().Issued())
	assert.Equal(t, 0, m.ScrollTop())
	assert.False(t, m.Follower().Following())
}

func TestFollower_Always_SnapsEvenWhenScrolledAway(t *testing.T) {
	m := New(WithWidth(40), WithHeight(10), WithFollowMode(FollowAlways))
	m.SetRows(rowsOf(20, 2))
	m.ScrollToTop()
	issued := m.Follower().Issued()

	m.AppendRows(multiLineRow("new", 2))

	assert.Equal(t, issued+1, m.Follower().Issued())
	assert.True(t, m.AtBottom())
}

func TestFollower_ScrollToBottomResumes(t *testing.T) {
	m := New(WithWidth(40), WithHeight(10))
	m.SetRows(rowsOf(20, 2))
	m.ScrollToTop()
	m.ScrollToBottom()
	issued := m.Follower().Issued()

	m.AppendRows(multiLineRow("new", 2))

	assert.Equal(t, issued+1, m.Follower().Issued())
	assert.True(t, m.AtBottom())
}

func TestFollower_LastRowGrowthKeepsEndAligned(t *testing.T) {
	m := New(WithWidth(40), WithHeight(6))
	row := multiLineRow("tail", 1)
	m.SetRows(append(rowsOf(10, 1), row))
	require.True(t, m.AtBottom())

	row.content = "a\nb\nc\nd"
	row.version++
	m.UpdateRow(10)

	assert.Equal(t, 5, m.RowHeight(10))
	assert.True(t, m.AtBottom())
	assert.Equal(t, 10, m.Follower().Last().Index)
}

func TestFollower_FirstRowsAlwaysFollowed(t *testing.T) {
	f := NewFollower(FollowWhenAtEnd)
	f.Track(false)
	f.RowsChanged(0, 3)
	assert.True(t, f.Pending())
	assert.Equal(t, 2, f.Target())
}

func TestFollower_EmptyResets(t *testing.T) {
	f := NewFollower(FollowWhenAtEnd)
	f.Track(false)
	f.RowsChanged(3, 0)
	assert.False(t, f.Pending())
	assert.True(t, f.Following())
}

func TestParseFollowMode(t *testing.T) {
	assert.Equal(t, FollowAlways, ParseFollowMode("always"))
	assert.Equal(t, FollowWhenAtEnd, ParseFollowMode("at-end"))
	assert.Equal(t, FollowWhenAtEnd, ParseFollowMode(""))
	assert.Equal(t, "always", FollowAlways.String())
	assert.Equal(t, "at-end", FollowWhenAtEnd.String())
}
