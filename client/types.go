package client

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// LoginResponse from POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int    `json:"user_id"`
}

// User from GET /auth/me and POST /users/.
type User struct {
	UserID   int    `json:"user_id"`
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
}

// ChatRequest for POST /chat/.
type ChatRequest struct {
	ConversationID *int   `json:"conversation_id"`
	Question       string `json:"question"`
	Timezone       string `json:"timezone,omitempty"`
}

// ChatResponse from POST /chat/.
type ChatResponse struct {
	Answer         string `json:"answer"`
	ConversationID int    `json:"conversation_id"`
}

// SearchRequest for POST /search/.
type SearchRequest struct {
	Query          string `json:"query"`
	ConversationID *int   `json:"conversation_id"`
	Timezone       string `json:"timezone,omitempty"`
}

// SearchResponse from POST /search/. When nothing was found the backend
// answers with Result set and FinalAnswer empty.
type SearchResponse struct {
	ConversationID int               `json:"conversation_id"`
	Query          string            `json:"query,omitempty"`
	SearchResults  []json.RawMessage `json:"search_results,omitempty"`
	FinalAnswer    string            `json:"final_answer,omitempty"`
	Result         string            `json:"result,omitempty"`
}

// Answer returns the text shown for the search.
func (r SearchResponse) Answer() string {
	if r.FinalAnswer != "" {
		return r.FinalAnswer
	}
	return r.Result
}

// ConversationSummary from GET /chat/conversations.
type ConversationSummary struct {
	ConversationID int    `json:"conversation_id"`
	Title          string `json:"title"`
	CreatedAt      Time   `json:"created_at"`
}

// Conversation from GET /chat/conversations/{id}.
type Conversation struct {
	ConversationID int       `json:"conversation_id"`
	Title          string    `json:"title"`
	Messages       []Message `json:"messages"`
}

// SortMessages orders messages by creation time, oldest first. Messages
// with equal timestamps keep their server order.
func (c *Conversation) SortMessages() {
	sort.SliceStable(c.Messages, func(i, j int) bool {
		return c.Messages[i].CreatedAt.Before(c.Messages[j].CreatedAt.Time)
	})
}

// Message is one chat message. Cards and Feedback are only present on
// assistant messages the backend decorated.
type Message struct {
	MessageID int           `json:"message_id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	CreatedAt Time          `json:"created_at"`
	Cards     []Card        `json:"cards,omitempty"`
	Images    []string      `json:"images,omitempty"`
	Feedback  *FeedbackInfo `json:"feedback,omitempty"`
}

// FeedbackInfo is the feedback attached to a message or card.
type FeedbackInfo struct {
	FeedbackID    int            `json:"feedback_id,omitempty"`
	FeedbackScore *float64       `json:"feedback_score,omitempty"`
	FeedbackLabel string         `json:"feedback_label,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// Label returns the feedback label, or "" for a nil receiver.
func (f *FeedbackInfo) Label() string {
	if f == nil {
		return ""
	}
	return f.FeedbackLabel
}

// Card is a recommendation card.
type Card struct {
	CardID   string        `json:"card_id"`
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Link     string        `json:"link,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Score    float64       `json:"score,omitempty"`
	Feedback *FeedbackInfo `json:"feedback,omitempty"`
}

// SummarizeResponse from POST /summarize/.
type SummarizeResponse struct {
	Summary        string `json:"summary"`
	ConversationID int    `json:"conversation_id"`
}

// SpeechChatResponse from POST /speech/chat.
type SpeechChatResponse struct {
	ChatResponse
	STTConfidence float64 `json:"stt_confidence"`
	Transcript    string  `json:"transcript,omitempty"`
}

// TranscriptResponse from POST /speech/stt.
type TranscriptResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// When is an event boundary: DateTime for timed events, Date (YYYY-MM-DD)
// for all-day events.
type When struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Time parses the boundary. All-day dates are returned at local midnight.
func (w When) Time() (time.Time, bool) {
	if w.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, w.DateTime); err == nil {
			return t, true
		}
	}
	if w.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", w.Date, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AllDay reports whether the boundary carries a date only.
func (w When) AllDay() bool { return w.DateTime == "" && w.Date != "" }

// Event from the /events/ endpoints.
type Event struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Start       When   `json:"start"`
	End         When   `json:"end"`
	HTMLLink    string `json:"htmlLink,omitempty"`
}

// EventCreate for POST /events/ and PUT /events/{id}.
type EventCreate struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Timezone    string    `json:"timezone"`
}

// AuthorizeResponse from GET /gcal/authorize.
type AuthorizeResponse struct {
	AuthURL string `json:"auth_url"`
}

// CalendarStatus from GET /gcal/status.
type CalendarStatus struct {
	Connected bool `json:"connected"`
}

// FeedbackRequest for POST /feedback/.
type FeedbackRequest struct {
	Category      string         `json:"category"`
	ReferenceID   string         `json:"reference_id"`
	FeedbackScore *float64       `json:"feedback_score,omitempty"`
	FeedbackLabel string         `json:"feedback_label,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// Feedback categories.
const (
	CategoryChat      = "chat"
	CategoryRecommend = "recommend"
)

// MessageReference returns the feedback reference of a chat message.
func MessageReference(messageID int) string {
	return "message_" + strconv.Itoa(messageID)
}

// CardReference returns the feedback reference of a recommendation card.
func CardReference(cardID string) string {
	return "card_id=" + cardID
}

// FeedbackResponse from POST /feedback/ and GET /feedback/.
type FeedbackResponse struct {
	Message       string   `json:"message,omitempty"`
	FeedbackID    int      `json:"feedback_id"`
	FeedbackLabel string   `json:"feedback_label,omitempty"`
	FeedbackScore *float64 `json:"feedback_score,omitempty"`
}

// GenrePref is a genre preference with a 1-5 score.
type GenrePref struct {
	Genre string `json:"genre"`
	Score int    `json:"score"`
}

// TagPref is a weighted tag preference.
type TagPref struct {
	TagType string  `json:"tag_type"`
	Tag     string  `json:"tag"`
	Weight  float64 `json:"weight"`
}

// Profile for the /profile/ endpoints.
type Profile struct {
	Locale  string      `json:"locale"`
	Consent bool        `json:"consent"`
	Genres  []GenrePref `json:"genres,omitempty"`
	Tags    []TagPref   `json:"tags,omitempty"`
}

// RecommendQuery for GET /recommend/.
type RecommendQuery struct {
	Types     []string
	Limit     int
	Timezone  string
	UserQuery string
}

// RecommendModels from GET /recommend/models.
type RecommendModels struct {
	CandidateModel string `json:"candidate_model"`
	RerankModel    string `json:"rerank_model"`
	Version        string `json:"version"`
}

// ErrorResponse is the backend's error body. Detail is a string for
// HTTPException and a list of objects for validation errors.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Time accepts the backend's timestamps, which are ISO 8601 with or
// without a zone suffix.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: s}
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
