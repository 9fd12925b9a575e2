package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens  TokenSource
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the cap.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 300 * time.Second,
		},
		tokens: tokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// -- Auth ---------------------------------------------------------------------

// Login exchanges credentials for a token. The caller stores the token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	var result LoginResponse
	if err := decode(resp, &result, "login", http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account. The backend takes the credentials as query
// parameters.
func (c *Client) Register(ctx context.Context, username, password string) (*User, error) {
	q := url.Values{"username": {username}, "password": {password}}
	resp, err := c.do(ctx, http.MethodPost, "/users/", q, nil, "")
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	var result User
	if err := decode(resp, &result, "register", http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var result User
	if err := c.getJSON(ctx, "/auth/me", nil, &result, "me"); err != nil {
		return nil, err
	}
	return &result, nil
}

// -- Chat ---------------------------------------------------------------------

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var result ChatResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/chat/", req, &result, "chat", http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var result SearchResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/search/", req, &result, "search", http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Conversations(ctx context.Context) ([]ConversationSummary, error) {
	var result []ConversationSummary
	if err := c.getJSON(ctx, "/chat/conversations", nil, &result, "list conversations"); err != nil {
		return nil, err
	}
	return result, nil
}

// Conversation fetches one conversation with its messages sorted oldest
// first.
func (c *Client) Conversation(ctx context.Context, id int) (*Conversation, error) {
	var result Conversation
	if err := c.getJSON(ctx, "/chat/conversations/"+strconv.Itoa(id), nil, &result, "get conversation"); err != nil {
		return nil, err
	}
	result.SortMessages()
	return &result, nil
}

// -- Uploads ------------------------------------------------------------------

// Summarize uploads a document for summarization. conversationID 0 starts a
// new conversation.
func (c *Client) Summarize(ctx context.Context, path string, conversationID int) (*SummarizeResponse, error) {
	fields := map[string]string{}
	if conversationID > 0 {
		fields["conversation_id"] = strconv.Itoa(conversationID)
	}
	resp, err := c.postFile(ctx, "/summarize/", "file", path, fields)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	var result SummarizeResponse
	if err := decode(resp, &result, "summarize", http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	result.Summary = UnquoteSummary(result.Summary)
	return &result, nil
}

// SpeechChat uploads a voice question and returns the chat answer.
func (c *Client) SpeechChat(ctx context.Context, path string, conversationID int, timezone string) (*SpeechChatResponse, error) {
	fields := map[string]string{}
	if conversationID > 0 {
		fields["conversation_id"] = strconv.Itoa(conversationID)
	}
	if timezone != "" {
		fields["timezone"] = timezone
	}
	resp, err := c.postFile(ctx, "/speech/chat", "audio", path, fields)
	if err != nil {
		return nil, fmt.Errorf("speech chat: %w", err)
	}
	var result SpeechChatResponse
	if err := decode(resp, &result, "speech chat", http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &result, nil
}

// Transcribe converts an audio file to text.
func (c *Client) Transcribe(ctx context.Context, path string) (*TranscriptResponse, error) {
	resp, err := c.postFile(ctx, "/speech/stt", "audio", path, nil)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	var result TranscriptResponse
	if err := decode(resp, &result, "transcribe", http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnquoteSummary undoes the JSON string encoding some summaries arrive in.
// Text that does not parse is returned unchanged.
func UnquoteSummary(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	var inner string
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return s
	}
	inner = strings.ReplaceAll(inner, `\n`, "\n")
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	return inner
}

// -- Calendar -----------------------------------------------------------------

// Events lists calendar events between start and end. Zero times are left
// to the backend's defaults.
func (c *Client) Events(ctx context.Context, start, end time.Time) ([]Event, error) {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("start", start.UTC().Format(time.RFC3339))
	}
	if !end.IsZero() {
		q.Set("end", end.UTC().Format(time.RFC3339))
	}
	var result []Event
	if err := c.getJSON(ctx, "/events/", q, &result, "list events"); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Event(ctx context.Context, id string) (*Event, error) {
	var result Event
	if err := c.getJSON(ctx, "/events/"+url.PathEscape(id), nil, &result, "get event"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateEvent(ctx context.Context, ev EventCreate) (*Event, error) {
	var result Event
	if err := c.sendJSON(ctx, http.MethodPost, "/events/", ev, &result, "create event", http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, ev EventCreate) (*Event, error) {
	var result Event
	if err := c.sendJSON(ctx, http.MethodPut, "/events/"+url.PathEscape(id), ev, &result, "update event", http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil, "")
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return decode(resp, nil, "delete event", http.StatusOK, http.StatusNoContent)
}

// CalendarAuthorize returns the Google consent URL.
func (c *Client) CalendarAuthorize(ctx context.Context) (string, error) {
	var result AuthorizeResponse
	if err := c.getJSON(ctx, "/gcal/authorize", nil, &result, "calendar authorize"); err != nil {
		return "", err
	}
	if result.AuthURL == "" {
		return "", errors.New("calendar authorize: empty auth_url")
	}
	return result.AuthURL, nil
}

func (c *Client) CalendarStatus(ctx context.Context) (bool, error) {
	var result CalendarStatus
	if err := c.getJSON(ctx, "/gcal/status", nil, &result, "calendar status"); err != nil {
		return false, err
	}
	return result.Connected, nil
}

func (c *Client) CalendarDisconnect(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/gcal/disconnect", nil, nil, "")
	if err != nil {
		return fmt.Errorf("calendar disconnect: %w", err)
	}
	return decode(resp, nil, "calendar disconnect", http.StatusOK, http.StatusNoContent)
}

// -- Feedback -----------------------------------------------------------------

func (c *Client) SendFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error) {
	var result FeedbackResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/feedback/", req, &result, "send feedback", http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	return &result, nil
}

// Feedback returns the stored feedback for a reference. A missing entry is
// reported as an APIError for which IsNotFound is true.
func (c *Client) Feedback(ctx context.Context, category, referenceID string) (*FeedbackResponse, error) {
	q := url.Values{"category": {category}, "reference_id": {referenceID}}
	var result FeedbackResponse
	if err := c.getJSON(ctx, "/feedback/", q, &result, "get feedback"); err != nil {
		return nil, err
	}
	return &result, nil
}

// -- Profile ------------------------------------------------------------------

// Profile returns the user's preference profile. IsNotFound(err) means the
// user has not created one yet.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var result Profile
	if err := c.getJSON(ctx, "/profile/", nil, &result, "get profile"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateProfile(ctx context.Context, p Profile) error {
	return c.sendJSON(ctx, http.MethodPost, "/profile/", p, nil, "create profile", http.StatusOK, http.StatusCreated)
}

func (c *Client) UpdateProfile(ctx context.Context, p Profile) error {
	return c.sendJSON(ctx, http.MethodPatch, "/profile/", p, nil, "update profile", http.StatusOK)
}

// SaveProfile creates the profile, or updates it when one already exists.
func (c *Client) SaveProfile(ctx context.Context, p Profile) error {
	err := c.CreateProfile(ctx, p)
	if IsConflict(err) {
		return c.UpdateProfile(ctx, p)
	}
	return err
}

func (c *Client) DeleteProfile(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/profile/", nil, nil, "")
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return decode(resp, nil, "delete profile", http.StatusOK, http.StatusNoContent)
}

// -- Recommendations ----------------------------------------------------------

func (c *Client) Recommendations(ctx context.Context, rq RecommendQuery) ([]Card, error) {
	q := url.Values{}
	if len(rq.Types) > 0 {
		q.Set("types", strings.Join(rq.Types, ","))
	}
	if rq.Limit > 0 {
		q.Set("limit", strconv.Itoa(rq.Limit))
	}
	if rq.Timezone != "" {
		q.Set("tz", rq.Timezone)
	}
	if rq.UserQuery != "" {
		q.Set("user_query", rq.UserQuery)
	}
	var result []Card
	if err := c.getJSON(ctx, "/recommend/", q, &result, "recommendations"); err != nil {
		return nil, err
	}
	return result, nil
}

// RecommendAction logs an impression such as "clicked" or "dismissed".
func (c *Client) RecommendAction(ctx context.Context, cardID, action string) error {
	q := url.Values{"card_id": {cardID}, "action": {action}}
	resp, err := c.do(ctx, http.MethodPost, "/recommend/feedback", q, nil, "")
	if err != nil {
		return fmt.Errorf("recommend action: %w", err)
	}
	return decode(resp, nil, "recommend action", http.StatusOK, http.StatusCreated)
}

func (c *Client) RecommendModels(ctx context.Context) (*RecommendModels, error) {
	var result RecommendModels
	if err := c.getJSON(ctx, "/recommend/models", nil, &result, "recommend models"); err != nil {
		return nil, err
	}
	return &result, nil
}

// -- HTTP helpers -------------------------------------------------------------

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any, op string) error {
	resp, err := c.do(ctx, http.MethodGet, path, q, nil, "")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return decode(resp, out, op, http.StatusOK)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any, op string, ok ...int) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}
	resp, err := c.do(ctx, method, path, nil, bytes.NewReader(data), "application/json")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return decode(resp, out, op, ok...)
}

func (c *Client) postFile(ctx context.Context, path, field, filePath string, fields map[string]string) (*http.Response, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	part, err := w.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(filePath), err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType())
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("[client] %s %s: %v", method, path, err)
		return nil, err
	}
	log.Printf("[client] %s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// decode closes resp, checks the status against ok and decodes the body
// into out when out is non-nil.
func decode(resp *http.Response, out any, op string, ok ...int) error {
	defer resp.Body.Close()
	accepted := false
	for _, s := range ok {
		if resp.StatusCode == s {
			accepted = true
			break
		}
	}
	if !accepted {
		return fmt.Errorf("%s: %w", op, parseError(resp))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}
