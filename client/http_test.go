package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken("tok"), opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestLogin_SendsForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "kim", r.PostForm.Get("username"))
		assert.Equal(t, "pw", r.PostForm.Get("password"))
		writeJSON(w, 200, map[string]any{"access_token": "jwt", "token_type": "bearer", "user_id": 7})
	})

	resp, err := c.Login(context.Background(), "kim", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AccessToken)
	assert.Equal(t, 7, resp.UserID)
}

func TestLogin_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"detail": "Incorrect username or password"})
	})

	_, err := c.Login(context.Background(), "kim", "nope")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Incorrect username or password")
}

func TestRegister_UsesQueryParameters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/", r.URL.Path)
		assert.Equal(t, "kim", r.URL.Query().Get("username"))
		assert.Equal(t, "pw", r.URL.Query().Get("password"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		writeJSON(w, 200, map[string]any{"id": 3, "username": "kim"})
	})

	u, err := c.Register(context.Background(), "kim", "pw")
	require.NoError(t, err)
	assert.Equal(t, "kim", u.Username)
}

func TestBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]any{"user_id": 1, "username": "kim"})
	})
	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, u.UserID)
}

func TestNoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]any{"connected": false})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	ok, err := c.CalendarStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

func TestChat_NewConversationSendsNullID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "conversation_id")
		assert.Nil(t, body["conversation_id"])
		assert.Equal(t, "hello", body["question"])
		assert.Equal(t, "Asia/Seoul", body["timezone"])
		writeJSON(w, 200, map[string]any{"answer": "hi", "conversation_id": 12})
	})

	resp, err := c.Chat(context.Background(), ChatRequest{Question: "hello", Timezone: "Asia/Seoul"})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Answer)
	assert.Equal(t, 12, resp.ConversationID)
}

func TestSearch_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		writeJSON(w, 200, map[string]any{"conversation_id": 4, "result": "No search results found.", "detail": []any{}})
	})
	id := 4
	resp, err := c.Search(context.Background(), SearchRequest{Query: "q", ConversationID: &id})
	require.NoError(t, err)
	assert.Equal(t, "No search results found.", resp.Answer())
}

func TestConversation_SortsMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/conversations/9", r.URL.Path)
		writeJSON(w, 200, map[string]any{
			"conversation_id": 9,
			"title":           "Untitled Chat",
			"messages": []map[string]any{
				{"message_id": 2, "role": "assistant", "content": "b", "created_at": "2025-05-01T09:00:02"},
				{"message_id": 1, "role": "user", "content": "a", "created_at": "2025-05-01T09:00:01"},
				{"message_id": 3, "role": "user", "content": "c", "created_at": "2025-05-01T09:00:03.123456"},
			},
		})
	})

	conv, err := c.Conversation(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{conv.Messages[0].MessageID, conv.Messages[1].MessageID, conv.Messages[2].MessageID})
}

func TestConversation_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "Conversation not found or not yours"})
	})
	_, err := c.Conversation(context.Background(), 1)
	assert.True(t, IsNotFound(err))
}

// ---------------------------------------------------------------------------
// Uploads
// ---------------------------------------------------------------------------

func TestSummarize_MultipartAndUnquote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some text"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "5", r.FormValue("conversation_id"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "notes.txt", hdr.Filename)
		assert.Equal(t, "some text", string(data))
		quoted, _ := json.Marshal(`line one\nline \"two\"`)
		writeJSON(w, 200, map[string]any{"summary": string(quoted), "conversation_id": 5})
	})

	resp, err := c.Summarize(context.Background(), path, 5)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline \"two\"", resp.Summary)
}

func TestSummarize_MissingFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})
	_, err := c.Summarize(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"), 0)
	require.Error(t, err)
}

func TestSpeechChat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/speech/chat", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "UTC", r.FormValue("timezone"))
		assert.Empty(t, r.FormValue("conversation_id"))
		_, _, err := r.FormFile("audio")
		require.NoError(t, err)
		writeJSON(w, 201, map[string]any{"answer": "sunny", "conversation_id": 3, "stt_confidence": 0.91, "transcript": "weather?"})
	})

	resp, err := c.SpeechChat(context.Background(), path, 0, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "sunny", resp.Answer)
	assert.Equal(t, 3, resp.ConversationID)
	assert.InDelta(t, 0.91, resp.STTConfidence, 1e-9)
}

func TestUnquoteSummary(t *testing.T) {
	assert.Equal(t, "plain", UnquoteSummary("plain"))
	assert.Equal(t, `"broken`, UnquoteSummary(`"broken`))
	assert.Equal(t, "a\nb", UnquoteSummary(`"a\nb"`))
}

// ---------------------------------------------------------------------------
// Calendar
// ---------------------------------------------------------------------------

func TestEvents_QueryRange(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/", r.URL.Path)
		assert.Equal(t, "2025-05-01T00:00:00Z", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-05-04T00:00:00Z", r.URL.Query().Get("end"))
		writeJSON(w, 200, []map[string]any{
			{"id": "e1", "summary": "Standup", "start": map[string]string{"dateTime": "2025-05-01T09:00:00+09:00"}, "end": map[string]string{"dateTime": "2025-05-01T09:15:00+09:00"}},
			{"id": "e2", "summary": "Holiday", "start": map[string]string{"date": "2025-05-02"}, "end": map[string]string{"date": "2025-05-03"}},
		})
	})

	evs, err := c.Events(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	ts, ok := evs[0].Start.Time()
	require.True(t, ok)
	assert.Equal(t, 0, ts.UTC().Hour())
	assert.True(t, evs[1].Start.AllDay())
}

func TestCreateEvent_Created(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Lunch", body["summary"])
		assert.Equal(t, "2025-05-01T12:00:00Z", body["start"])
		writeJSON(w, 201, map[string]any{"id": "new", "summary": "Lunch", "start": map[string]string{}, "end": map[string]string{}})
	})
	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	ev, err := c.CreateEvent(context.Background(), EventCreate{Summary: "Lunch", Start: start, End: start.Add(time.Hour), Timezone: "UTC"})
	require.NoError(t, err)
	assert.Equal(t, "new", ev.ID)
}

func TestDeleteEvent_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/events/abc", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteEvent(context.Background(), "abc"))
}

func TestCalendarAuthorize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"auth_url": "https://accounts.example.com/o/oauth2"})
	})
	u, err := c.CalendarAuthorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://accounts.example.com/o/oauth2", u)
}

// ---------------------------------------------------------------------------
// Feedback / profile / recommendations
// ---------------------------------------------------------------------------

func TestSendFeedback_MessageReference(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body FeedbackRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, CategoryChat, body.Category)
		assert.Equal(t, "message_42", body.ReferenceID)
		assert.Equal(t, "like", body.FeedbackLabel)
		writeJSON(w, 200, map[string]any{"message": "Feedback saved", "feedback_id": 8, "feedback_label": "like"})
	})
	resp, err := c.SendFeedback(context.Background(), FeedbackRequest{
		Category: CategoryChat, ReferenceID: MessageReference(42), FeedbackLabel: "like",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.FeedbackID)
	assert.Equal(t, "card_id=c_1", CardReference("c_1"))
}

func TestProfile_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "Profile not found"})
	})
	_, err := c.Profile(context.Background())
	assert.True(t, IsNotFound(err))
}

func TestSaveProfile_FallsBackToPatchOnConflict(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPost {
			writeJSON(w, 409, map[string]string{"detail": "Profile already exists"})
			return
		}
		writeJSON(w, 200, map[string]string{"message": "updated"})
	})
	err := c.SaveProfile(context.Background(), Profile{Locale: "ko", Consent: true, Genres: []GenrePref{{Genre: "sf", Score: 5}}})
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPost, http.MethodPatch}, methods)
}

func TestRecommendations_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "movie,learn", q.Get("types"))
		assert.Equal(t, "3", q.Get("limit"))
		assert.Equal(t, "UTC", q.Get("tz"))
		writeJSON(w, 200, []map[string]any{{"card_id": "c1", "type": "movie", "title": "Arrival", "feedback": map[string]any{"feedback_label": "like"}}})
	})
	cards, err := c.Recommendations(context.Background(), RecommendQuery{Types: []string{"movie", "learn"}, Limit: 3, Timezone: "UTC"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "like", cards[0].Feedback.Label())
}

// ---------------------------------------------------------------------------
// Errors / limiter / context
// ---------------------------------------------------------------------------

func TestValidationErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 422, map[string]any{"detail": []map[string]any{
			{"loc": []any{"body", "question"}, "msg": "field required"},
		}})
	})
	_, err := c.Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.Equal(t, 422, StatusOf(err))
	assert.Contains(t, err.Error(), "question: field required")
}

func TestNonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	_, err := c.Me(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.Status)
	assert.Equal(t, "bad gateway", apiErr.Detail)
}

func TestContextCancelled(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 200, map[string]any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Me(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestRateLimitSpacesRequests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"connected": true})
	}, WithRateLimit(20))

	start := time.Now()
	for i := 0; i < 25; i++ {
		_, err := c.CalendarStatus(context.Background())
		require.NoError(t, err)
	}
	// Burst of 20, then 5 more at 20/s.
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}
