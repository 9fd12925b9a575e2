package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/config"
	"github.com/miosa/aidesk-tui/gcal"
	"github.com/miosa/aidesk-tui/msg"
	"github.com/miosa/aidesk-tui/store"
	"github.com/miosa/aidesk-tui/ui/browser"
	"github.com/miosa/aidesk-tui/ui/clipboard"
)

// Backend is the part of the HTTP client the app drives. *client.Client
// implements it.
type Backend interface {
	gcal.API

	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
	Register(ctx context.Context, username, password string) (*client.User, error)
	Me(ctx context.Context) (*client.User, error)
	Chat(ctx context.Context, req client.ChatRequest) (*client.ChatResponse, error)
	Search(ctx context.Context, req client.SearchRequest) (*client.SearchResponse, error)
	Conversations(ctx context.Context) ([]client.ConversationSummary, error)
	Conversation(ctx context.Context, id int) (*client.Conversation, error)
	Summarize(ctx context.Context, path string, conversationID int) (*client.SummarizeResponse, error)
	SpeechChat(ctx context.Context, path string, conversationID int, timezone string) (*client.SpeechChatResponse, error)
	Events(ctx context.Context, start, end time.Time) ([]client.Event, error)
	CreateEvent(ctx context.Context, ev client.EventCreate) (*client.Event, error)
	UpdateEvent(ctx context.Context, id string, ev client.EventCreate) (*client.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CalendarDisconnect(ctx context.Context) error
	SendFeedback(ctx context.Context, req client.FeedbackRequest) (*client.FeedbackResponse, error)
	Profile(ctx context.Context) (*client.Profile, error)
	SaveProfile(ctx context.Context, p client.Profile) error
}

// TokenStore is the session token holder. *auth.State implements it.
type TokenStore interface {
	Token() string
	LoggedIn() bool
	Set(token string) error
	Clear() error
}

// ProgramReady is sent to the model after the tea.Program is created so
// background work that reports progress, like the calendar handshake, can
// send messages while it runs.
type ProgramReady struct{ Program *tea.Program }

// -- Auth ---------------------------------------------------------------------

func (m Model) checkToken() tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		u, err := c.Me(context.Background())
		if err != nil {
			return msg.MeResult{Err: err}
		}
		return msg.MeResult{User: *u}
	}
}

func (m Model) doLogin(username, password string) tea.Cmd {
	c, tokens := m.backend, m.tokens
	return func() tea.Msg {
		resp, err := c.Login(context.Background(), username, password)
		if err != nil {
			return msg.LoginResult{Username: username, Err: err}
		}
		if err := tokens.Set(resp.AccessToken); err != nil {
			return msg.LoginResult{Username: username, Err: err}
		}
		return msg.LoginResult{Username: username}
	}
}

// doRegister creates the account and signs in with it.
func (m Model) doRegister(username, password string) tea.Cmd {
	c, tokens := m.backend, m.tokens
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := c.Register(ctx, username, password); err != nil {
			return msg.RegisterResult{Username: username, Err: err}
		}
		resp, err := c.Login(ctx, username, password)
		if err != nil {
			return msg.RegisterResult{Username: username, Err: fmt.Errorf("sign in after register: %w", err)}
		}
		if err := tokens.Set(resp.AccessToken); err != nil {
			return msg.RegisterResult{Username: username, Err: err}
		}
		return msg.RegisterResult{Username: username}
	}
}

// doLogout forgets the token. The local cache of the user stays.
func (m Model) doLogout() tea.Cmd {
	tokens := m.tokens
	return func() tea.Msg {
		return msg.LogoutResult{Err: tokens.Clear()}
	}
}

// -- Conversations ------------------------------------------------------------

// fetchConversations loads the conversation list. The server copy is
// written to the cache; when the server cannot be reached the cached list
// is returned instead.
func (m Model) fetchConversations() tea.Cmd {
	c, st, owner := m.backend, m.cache(), m.username
	return func() tea.Msg {
		ctx := context.Background()
		list, err := c.Conversations(ctx)
		if err != nil {
			if st != nil && !client.IsUnauthorized(err) {
				if cached, cerr := st.Conversations(ctx, owner); cerr == nil && len(cached) > 0 {
					log.Printf("[app] conversations: %v, using cache", err)
					return msg.ConversationsResult{Conversations: cached, Cached: true}
				}
			}
			return msg.ConversationsResult{Err: err}
		}
		if st != nil {
			if err := st.SaveConversations(ctx, owner, list); err != nil {
				log.Printf("[app] cache conversations: %v", err)
			}
		}
		return msg.ConversationsResult{Conversations: list}
	}
}

// openConversation shows the cached copy of id at once, when there is
// one, then replaces it with the server copy.
func (m Model) openConversation(id int) tea.Cmd {
	server := m.fetchConversation(id)
	st, owner := m.cache(), m.username
	if st == nil {
		return server
	}
	cached := func() tea.Msg {
		conv, err := st.Conversation(context.Background(), owner, id)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("[app] cached conversation %d: %v", id, err)
			}
			return nil
		}
		return msg.ConversationResult{Conversation: conv, Cached: true}
	}
	return tea.Sequence(cached, server)
}

func (m Model) fetchConversation(id int) tea.Cmd {
	c, st, owner := m.backend, m.cache(), m.username
	return func() tea.Msg {
		ctx := context.Background()
		conv, err := c.Conversation(ctx, id)
		if err != nil {
			return msg.ConversationResult{Err: err}
		}
		if st != nil {
			if err := st.SaveConversation(ctx, owner, conv); err != nil {
				log.Printf("[app] cache conversation %d: %v", id, err)
			}
		}
		return msg.ConversationResult{Conversation: conv}
	}
}

// -- Sending ------------------------------------------------------------------

func (m Model) sendQuestion(text string, search bool) tea.Cmd {
	c := m.backend
	tz := m.cfg.TimezoneName()
	var convID *int
	if id := m.chat.ConversationID(); id > 0 {
		convID = &id
	}
	return func() tea.Msg {
		ctx := context.Background()
		if search {
			resp, err := c.Search(ctx, client.SearchRequest{Query: text, ConversationID: convID, Timezone: tz})
			if err != nil {
				return msg.ChatResult{Search: true, Err: err}
			}
			return msg.ChatResult{ConversationID: resp.ConversationID, Answer: resp.Answer(), Search: true}
		}
		resp, err := c.Chat(ctx, client.ChatRequest{ConversationID: convID, Question: text, Timezone: tz})
		if err != nil {
			return msg.ChatResult{Err: err}
		}
		return msg.ChatResult{ConversationID: resp.ConversationID, Answer: resp.Answer}
	}
}

func (m Model) summarize(path string) tea.Cmd {
	c, convID := m.backend, m.chat.ConversationID()
	name := filepath.Base(path)
	return func() tea.Msg {
		resp, err := c.Summarize(context.Background(), path, convID)
		if err != nil {
			return msg.SummarizeResult{File: name, Err: err}
		}
		return msg.SummarizeResult{File: name, Summary: resp.Summary}
	}
}

func (m Model) speechChat(path string) tea.Cmd {
	c, convID, tz := m.backend, m.chat.ConversationID(), m.cfg.TimezoneName()
	name := filepath.Base(path)
	return func() tea.Msg {
		resp, err := c.SpeechChat(context.Background(), path, convID, tz)
		if err != nil {
			return msg.SpeechResult{File: name, Err: err}
		}
		return msg.SpeechResult{
			File:           name,
			ConversationID: resp.ConversationID,
			Transcript:     resp.Transcript,
			Confidence:     resp.STTConfidence,
			Answer:         resp.Answer,
		}
	}
}

func (m Model) sendFeedback(category, reference, label string) tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		_, err := c.SendFeedback(context.Background(), client.FeedbackRequest{
			Category:      category,
			ReferenceID:   reference,
			FeedbackLabel: label,
		})
		return msg.FeedbackResult{Reference: reference, Label: label, Err: err}
	}
}

// -- Calendar -----------------------------------------------------------------

func (m Model) fetchAgenda() tea.Cmd {
	c := m.backend
	start, end := m.sidebar.Range()
	return func() tea.Msg {
		events, err := c.Events(context.Background(), start, end)
		return msg.EventsResult{Events: events, Err: err}
	}
}

func (m Model) fetchCalendarStatus() tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		ok, err := c.CalendarStatus(context.Background())
		return msg.CalendarStatusResult{Connected: ok, Err: err}
	}
}

func (m Model) createEvent(ev client.EventCreate) tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		saved, err := c.CreateEvent(context.Background(), ev)
		return msg.EventSaved{Event: saved, Err: err}
	}
}

func (m Model) updateEvent(id string, ev client.EventCreate) tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		saved, err := c.UpdateEvent(context.Background(), id, ev)
		return msg.EventSaved{Event: saved, Err: err}
	}
}

func (m Model) deleteEvent(id string) tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		return msg.EventSaved{Deleted: true, Err: c.DeleteEvent(context.Background(), id)}
	}
}

func (m Model) disconnectCalendar() tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		return msg.CalendarDisconnected{Err: c.CalendarDisconnect(context.Background())}
	}
}

// runHandshake connects the calendar until ctx is cancelled. The consent
// URL is reported through the program while the handshake polls.
func (m Model) runHandshake(ctx context.Context) tea.Cmd {
	h := gcal.New(m.backend)
	h.Open = m.open
	h.Timeout = m.cfg.Calendar.HandshakeTimeout.Duration
	if p := m.program; p != nil {
		h.OnURL = func(u string) { p.Send(msg.HandshakeURL{URL: u}) }
	}
	return func() tea.Msg {
		return msg.HandshakeResult{Err: h.Run(ctx)}
	}
}

// -- Profile ------------------------------------------------------------------

func (m Model) fetchProfile() tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		p, err := c.Profile(context.Background())
		if client.IsNotFound(err) {
			return msg.ProfileResult{Missing: true}
		}
		return msg.ProfileResult{Profile: p, Err: err}
	}
}

func (m Model) saveProfile(p client.Profile) tea.Cmd {
	c := m.backend
	return func() tea.Msg {
		return msg.ProfileSaved{Err: c.SaveProfile(context.Background(), p)}
	}
}

// -- Local --------------------------------------------------------------------

func copyText(text string) tea.Cmd {
	return func() tea.Msg {
		return msg.Copied{Err: clipboard.Copy(text)}
	}
}

func openLink(open browser.Opener, url string) tea.Cmd {
	return func() tea.Msg {
		return msg.LinkOpened{URL: url, Err: open(url)}
	}
}

// waitConfig blocks until the config watcher reports a reload.
func waitConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ch, ok := <-w.Events()
		if !ok {
			return nil
		}
		out := msg.ConfigChanged{Err: ch.Err}
		if ch.Config != nil {
			out.Config = *ch.Config
		}
		return out
	}
}

// saveConfig persists cfg, as after toggling the sidebar.
func saveConfig(dir string, cfg config.Config) tea.Cmd {
	if dir == "" {
		return nil
	}
	return func() tea.Msg {
		if err := config.Save(dir, &cfg); err != nil {
			log.Printf("[app] save config: %v", err)
		}
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg.TickMsg{} })
}
