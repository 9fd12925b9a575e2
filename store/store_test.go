package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/aidesk-tui/client"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func at(hour int) client.Time {
	return client.Time{Time: time.Date(2026, 3, 1, hour, 0, 0, 0, time.UTC)}
}

func TestConversation_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	score := 1.0
	conv := &client.Conversation{
		ConversationID: 7,
		Title:          "trip",
		Messages: []client.Message{
			{MessageID: 1, Role: "user", Content: "hello", CreatedAt: at(9)},
			{MessageID: 2, Role: "assistant", Content: "**hi**", CreatedAt: at(10),
				Cards:    []client.Card{{CardID: "c1", Title: "Movie", Link: "https://example.com"}},
				Feedback: &client.FeedbackInfo{FeedbackLabel: "like", FeedbackScore: &score}},
		},
	}
	require.NoError(t, s.SaveConversation(ctx, "alice", conv))

	got, err := s.Conversation(ctx, "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, "trip", got.Title)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "hello", got.Messages[0].Content)
	assert.Equal(t, "like", got.Messages[1].Feedback.Label())
	assert.Equal(t, "c1", got.Messages[1].Cards[0].CardID)
	assert.True(t, got.Messages[1].CreatedAt.Equal(at(10).Time))
}

func TestConversation_NotCached(t *testing.T) {
	s := openTemp(t)
	_, err := s.Conversation(context.Background(), "alice", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversation_ListedButNeverFetched(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.SaveConversations(ctx, "alice", []client.ConversationSummary{{ConversationID: 3}}))

	_, err := s.Conversation(ctx, "alice", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversation_IsolatedByOwner(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.SaveConversation(ctx, "alice", &client.Conversation{ConversationID: 1, Title: "a"}))

	_, err := s.Conversation(ctx, "bob", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveConversation_ReplacesMessages(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	first := &client.Conversation{ConversationID: 1, Messages: []client.Message{
		{MessageID: 1, Content: "a"}, {MessageID: 2, Content: "b"}, {MessageID: 3, Content: "c"},
	}}
	require.NoError(t, s.SaveConversation(ctx, "alice", first))
	second := &client.Conversation{ConversationID: 1, Messages: []client.Message{{MessageID: 9, Content: "z"}}}
	require.NoError(t, s.SaveConversation(ctx, "alice", second))

	got, err := s.Conversation(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, 9, got.Messages[0].MessageID)
}

func TestConversations_NewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.SaveConversations(ctx, "alice", []client.ConversationSummary{
		{ConversationID: 1, Title: "old", CreatedAt: at(8)},
		{ConversationID: 2, Title: "new", CreatedAt: at(12)},
	}))

	list, err := s.Conversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Title)
	assert.Equal(t, "old", list[1].Title)
	assert.True(t, list[0].CreatedAt.Equal(at(12).Time))
}

func TestSaveConversations_DropsUnlisted(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.SaveConversation(ctx, "alice", &client.Conversation{
		ConversationID: 1, Messages: []client.Message{{MessageID: 1}},
	}))
	require.NoError(t, s.SaveConversation(ctx, "alice", &client.Conversation{ConversationID: 2}))

	require.NoError(t, s.SaveConversations(ctx, "alice", []client.ConversationSummary{{ConversationID: 2, Title: "kept"}}))

	_, err := s.Conversation(ctx, "alice", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := s.Conversation(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title)
}

func TestForget(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.SaveConversation(ctx, "alice", &client.Conversation{ConversationID: 1}))
	require.NoError(t, s.SaveConversation(ctx, "bob", &client.Conversation{ConversationID: 1}))

	require.NoError(t, s.Forget(ctx, "alice"))

	_, err := s.Conversation(ctx, "alice", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Conversation(ctx, "bob", 1)
	assert.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveConversation(context.Background(), "alice", &client.Conversation{ConversationID: 4, Title: "x"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Conversation(context.Background(), "alice", 4)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Title)
}
