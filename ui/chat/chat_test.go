package chat

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/ui/list"
)

func fakeRenderer(content string, width int) (string, error) {
	return "MD<" + content + ">", nil
}

func newTestModel() Model {
	m := New(Options{Renderer: fakeRenderer, Padding: 1, Location: time.UTC})
	m.SetSize(81, 40)
	return m
}

// drain runs cmd and feeds every markdown result back into m.
func drain(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(m, c)
		}
	case MarkdownRendered:
		var next tea.Cmd
		m, next = m.Update(msg)
		m = drain(m, next)
	}
	return m
}

func at(minute int) client.Time {
	return client.Time{Time: time.Date(2026, 5, 4, 10, minute, 0, 0, time.UTC)}
}

func conversation(id int, msgs ...client.Message) *client.Conversation {
	return &client.Conversation{ConversationID: id, Messages: msgs}
}

func TestView_EmptyState(t *testing.T) {
	m := newTestModel()
	assert.Contains(t, m.View(), EmptyText)
}

func TestLoad_SortsByCreatedAt(t *testing.T) {
	m := newTestModel()
	m.Load(conversation(7,
		client.Message{MessageID: 2, Role: "assistant", Content: "second", CreatedAt: at(2)},
		client.Message{MessageID: 1, Role: "user", Content: "first", CreatedAt: at(1)},
		client.Message{MessageID: 3, Role: "user", Content: "third", CreatedAt: at(2)},
	))

	require.Equal(t, 3, m.Len())
	assert.Equal(t, "m-1", m.Row(0).Key())
	assert.Equal(t, "m-2", m.Row(1).Key())
	assert.Equal(t, "m-3", m.Row(2).Key(), "equal timestamps keep server order")
	assert.Equal(t, 7, m.ConversationID())
	assert.NotContains(t, m.View(), EmptyText)
}

func TestMarkdown_AppliedAsynchronously(t *testing.T) {
	m := newTestModel()
	cmd := m.Load(conversation(1,
		client.Message{MessageID: 1, Role: "user", Content: "question", CreatedAt: at(1)},
		client.Message{MessageID: 2, Role: "assistant", Content: "answer", CreatedAt: at(2)},
	))
	require.NotNil(t, cmd)
	assert.NotContains(t, m.View(), "MD<answer>", "plain text until the render arrives")

	m = drain(m, cmd)
	assert.Contains(t, m.View(), "MD<answer>")
	assert.NotContains(t, m.View(), "MD<question>", "user rows are not markdown")
}

func TestMarkdown_StaleAfterReloadIsDropped(t *testing.T) {
	m := newTestModel()
	conv := conversation(1, client.Message{MessageID: 5, Role: "assistant", Content: "answer", CreatedAt: at(1)})
	cmd := m.Load(conv)
	require.NotNil(t, cmd)
	stale := cmd()

	m.Load(conv)
	gen := m.Generation()
	m, _ = m.Update(stale)

	assert.Equal(t, gen, m.Generation())
	assert.NotContains(t, m.View(), "MD<answer>")
}

func TestMarkdown_WidthChangeRequestsAgain(t *testing.T) {
	m := newTestModel()
	cmd := m.Load(conversation(1, client.Message{MessageID: 5, Role: "assistant", Content: "answer", CreatedAt: at(1)}))
	require.NotNil(t, cmd)
	old := cmd().(MarkdownRendered)

	resize := m.SetSize(61, 40)
	m, _ = m.Update(old)
	assert.NotContains(t, m.View(), "MD<answer>")

	require.NotNil(t, resize)
	fresh := resize().(MarkdownRendered)
	assert.Equal(t, bodyWidth(60), fresh.Width)
	m, _ = m.Update(fresh)
	assert.Contains(t, m.View(), "MD<answer>")
}

func TestAppendLocal_PendingUntilSettled(t *testing.T) {
	m := newTestModel()
	key, _ := m.AppendLocal("hello there")

	assert.True(t, strings.HasPrefix(key, "local-"))
	r := m.Row(0)
	require.NotNil(t, r)
	assert.True(t, r.Pending())
	assert.Contains(t, m.View(), "sending…")

	m.Settle(key)
	assert.False(t, r.Pending())
	assert.NotContains(t, m.View(), "sending…")
}

func TestAppend_FollowsToBottom(t *testing.T) {
	m := New(Options{Renderer: fakeRenderer, Padding: 1, Follow: list.FollowWhenAtEnd})
	m.SetSize(41, 10)
	for i := 0; i < 20; i++ {
		m.AppendNotice("line", LevelInfo)
	}
	assert.True(t, m.AtBottom())
	assert.True(t, m.Following())

	m.ScrollToTop()
	assert.False(t, m.Following())
	m.AppendNotice("late", LevelWarning)
	assert.Equal(t, 0, m.list.ScrollTop(), "scrolled away, no snap")

	m.ScrollToBottom()
	assert.True(t, m.Following())
}

func TestSelection(t *testing.T) {
	m := newTestModel()
	conv := conversation(3,
		client.Message{MessageID: 1, Role: "user", Content: "q", CreatedAt: at(1)},
		client.Message{MessageID: 2, Role: "assistant", Content: "a", CreatedAt: at(2)},
	)
	m.Load(conv)
	assert.Nil(t, m.Selected())
	assert.Nil(t, m.SelectNext())

	m.SelectPrev()
	require.NotNil(t, m.Selected())
	assert.Equal(t, "m-2", m.Selected().Key())
	m.SelectPrev()
	m.SelectPrev()
	assert.Equal(t, "m-1", m.Selected().Key(), "stops at the first row")

	m.SelectNext()
	m.Load(conv)
	require.NotNil(t, m.Selected(), "reloading keeps the selection")
	assert.Equal(t, "m-2", m.Selected().Key())

	m.SelectNext()
	assert.Nil(t, m.Selected(), "moving past the end returns to the input")

	m.SelectPrev()
	m.Load(conversation(4, client.Message{MessageID: 9, Role: "user", Content: "x", CreatedAt: at(1)}))
	assert.Nil(t, m.Selected(), "another conversation starts unselected")
}

func TestCardsAndFeedback(t *testing.T) {
	m := newTestModel()
	m.Load(conversation(1, client.Message{
		MessageID: 2, Role: "assistant", Content: "picks", CreatedAt: at(1),
		Cards: []client.Card{
			{CardID: "c1", Title: "Dune", Link: "https://example.com/dune"},
			{CardID: "c2", Title: "Arrival"},
		},
	}))

	assert.False(t, m.CardNext(), "nothing selected")
	m.SelectPrev()
	r := m.Selected()
	require.NotNil(t, r)
	assert.True(t, r.Rateable())

	_, ok := r.SelectedCard()
	assert.False(t, ok)
	m.MarkFeedback("dislike")
	assert.Equal(t, "dislike", r.Message().Feedback.Label())

	assert.True(t, m.CardNext())
	assert.True(t, m.CardNext())
	assert.False(t, m.CardNext(), "stops at the last card")
	c, ok := r.SelectedCard()
	require.True(t, ok)
	assert.Equal(t, "c2", c.CardID)

	m.MarkFeedback("like")
	assert.Equal(t, "like", r.Cards()[1].Feedback.Label())
	assert.Nil(t, r.Cards()[0].Feedback)
	assert.Contains(t, m.View(), "liked")

	assert.True(t, m.CardPrev())
	c, _ = r.SelectedCard()
	assert.Equal(t, "c1", c.CardID)
	assert.Contains(t, r.Text(), "Dune https://example.com/dune")
}

func TestRender_FitsWidth(t *testing.T) {
	r := newMessageRow(client.Message{
		MessageID: 1, Role: "user", CreatedAt: at(1),
		Content: strings.Repeat("wrap me please ", 20) + strings.Repeat("x", 90),
	}, time.UTC)
	for _, line := range strings.Split(r.Render(40), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}

func TestClear(t *testing.T) {
	m := newTestModel()
	m.Load(conversation(3, client.Message{MessageID: 1, Role: "user", Content: "q", CreatedAt: at(1)}))
	gen := m.Generation()
	m.Clear()
	assert.Zero(t, m.Len())
	assert.Zero(t, m.ConversationID())
	assert.Greater(t, m.Generation(), gen)
	assert.Contains(t, m.View(), EmptyText)
}
