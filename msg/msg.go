// Package msg defines the tea.Msg types dispatched between the app, its
// background commands and the UI components. It depends only on the data
// packages (client, config) so every UI package can import it.
package msg

import (
	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/config"
)

// -- Auth --

// MeResult from GET /auth/me, used to validate a stored token.
type MeResult struct {
	User client.User
	Err  error
}

// LoginResult from POST /auth/login. Token is already stored in the auth
// state when Err is nil.
type LoginResult struct {
	Username string
	Err      error
}

// RegisterResult from POST /users/.
type RegisterResult struct {
	Username string
	Err      error
}

// LogoutResult after the auth state was cleared.
type LogoutResult struct {
	Err error
}

// -- Conversations --

// ConversationsResult from GET /chat/conversations or the local cache.
type ConversationsResult struct {
	Conversations []client.ConversationSummary
	Cached        bool
	Err           error
}

// ConversationResult from GET /chat/conversations/{id} or the local cache.
// Messages are sorted by creation time.
type ConversationResult struct {
	Conversation *client.Conversation
	Cached       bool
	Err          error
}

// ChatResult from POST /chat/ or POST /search/.
type ChatResult struct {
	ConversationID int
	Answer         string
	Search         bool
	Err            error
}

// SummarizeResult from POST /summarize/.
type SummarizeResult struct {
	File    string
	Summary string
	Err     error
}

// SpeechResult from POST /speech/chat.
type SpeechResult struct {
	File           string
	ConversationID int
	Transcript     string
	Confidence     float64
	Answer         string
	Err            error
}

// FeedbackResult from POST /feedback/.
type FeedbackResult struct {
	Reference string
	Label     string
	Err       error
}

// -- Calendar --

// EventsResult from GET /events/ for the agenda window.
type EventsResult struct {
	Events []client.Event
	Err    error
}

// EventSaved after an event was created, updated or deleted.
type EventSaved struct {
	Event   *client.Event
	Deleted bool
	Err     error
}

// CalendarStatusResult from GET /gcal/status.
type CalendarStatusResult struct {
	Connected bool
	Err       error
}

// HandshakeURL carries the consent URL while a calendar handshake runs.
type HandshakeURL struct {
	URL string
}

// HandshakeResult ends a calendar handshake.
type HandshakeResult struct {
	Err error
}

// CalendarDisconnected after DELETE /gcal/disconnect.
type CalendarDisconnected struct {
	Err error
}

// -- Profile --

// ProfileResult from GET /profile/. Missing is set on 404.
type ProfileResult struct {
	Profile *client.Profile
	Missing bool
	Err     error
}

// ProfileSaved after the profiling wizard saved.
type ProfileSaved struct {
	Err error
}

// -- Local --

// CacheSaved reports a failed write to the local conversation cache.
// Successful writes are not reported.
type CacheSaved struct {
	Err error
}

// ConfigChanged after config.toml was rewritten on disk.
type ConfigChanged struct {
	Config config.Config
	Err    error
}

// Copied after the clipboard write finished.
type Copied struct {
	Err error
}

// LinkOpened after a browser was launched for a card link.
type LinkOpened struct {
	URL string
	Err error
}

// -- UI events --

type TickMsg struct{}
type ToggleSidebar struct{}
