package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/config"
	"github.com/miosa/aidesk-tui/gcal"
	"github.com/miosa/aidesk-tui/msg"
	"github.com/miosa/aidesk-tui/store"
	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/activity"
	"github.com/miosa/aidesk-tui/ui/anim"
	"github.com/miosa/aidesk-tui/ui/browser"
	"github.com/miosa/aidesk-tui/ui/chat"
	"github.com/miosa/aidesk-tui/ui/common"
	"github.com/miosa/aidesk-tui/ui/dialog"
	"github.com/miosa/aidesk-tui/ui/header"
	"github.com/miosa/aidesk-tui/ui/input"
	"github.com/miosa/aidesk-tui/ui/list"
	"github.com/miosa/aidesk-tui/ui/sidebar"
	"github.com/miosa/aidesk-tui/ui/status"
	"github.com/miosa/aidesk-tui/ui/toast"
)

// Options wires the root model to its collaborators.
type Options struct {
	Backend Backend
	Tokens  TokenStore

	// Store caches conversations per user; nil disables the cache.
	Store *store.Store

	Config     *config.Config
	Watcher    *config.Watcher
	ProfileDir string
	Version    string

	// Opener launches the browser; defaults to browser.Open.
	Opener browser.Opener
}

// Model is the root Bubble Tea model. It owns every sub-model and all
// wiring between the backend client and the UI.
type Model struct {
	header   header.Model
	sidebar  sidebar.Model
	chat     chat.Model
	input    input.Model
	status   status.Model
	toasts   toast.Model
	overlay  dialog.Overlay
	authForm dialog.AuthModel
	spinner  anim.Model
	activity activity.Rotator

	state      State
	layout     Layout
	layoutMode LayoutMode
	keys       KeyMap

	backend Backend
	tokens  TokenStore
	store   *store.Store
	watcher *config.Watcher
	program *tea.Program
	open    browser.Opener

	cfg        config.Config
	profileDir string
	version    string

	username      string
	conversations []client.ConversationSummary

	// pendingKey is the optimistic echo of the question in flight.
	pendingKey string
	// openingID is the conversation a load was started for; results for
	// other conversations are dropped.
	openingID int

	cancelHandshake context.CancelFunc

	width  int
	height int
}

// New constructs the root model. With a stored token it starts by
// validating it, otherwise on the login screen.
func New(opts Options) Model {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = opts.Config
	}
	style.SetTheme(cfg.UI.Theme)

	open := opts.Opener
	if open == nil {
		open = browser.Open
	}

	loc := cfg.Location()
	layoutMode := LayoutCompact
	if cfg.UI.Sidebar {
		layoutMode = LayoutSidebar
	}

	m := Model{
		header:  header.New(opts.Version),
		sidebar: sidebar.New(cfg.Calendar.AgendaDays, loc),
		chat: chat.New(chat.Options{
			Follow:         list.ParseFollowMode(cfg.Chat.Follow),
			FallbackHeight: cfg.Chat.FallbackHeight,
			Overscan:       cfg.Chat.Overscan,
			Padding:        cfg.Chat.RowPadding,
			Location:       loc,
		}),
		input:      input.New(),
		status:     status.New(),
		toasts:     toast.New(),
		overlay:    dialog.NewOverlay(),
		authForm:   dialog.NewAuth(cfg.Server.URL, opts.Version),
		spinner:    anim.New(),
		layoutMode: layoutMode,
		keys:       DefaultKeyMap(),
		backend:    opts.Backend,
		tokens:     opts.Tokens,
		store:      opts.Store,
		watcher:    opts.Watcher,
		open:       open,
		cfg:        *cfg,
		profileDir: opts.ProfileDir,
		version:    opts.Version,
		width:      80,
		height:     24,
	}
	m.state = StateLogin
	if m.tokens != nil && m.tokens.LoggedIn() {
		m.state = StateLoading
	}
	m.recomputeLayout()
	return m
}

// State returns the current application state.
func (m Model) State() State { return m.state }

// cache returns the conversation store when caching is enabled.
func (m Model) cache() *store.Store {
	if !m.cfg.Cache.Enabled || m.username == "" {
		return nil
	}
	return m.store
}

// -- Init ---------------------------------------------------------------------

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return tea.RequestWindowSize() },
		waitConfig(m.watcher),
	}
	if m.state == StateLoading {
		cmds = append(cmds, m.spinner.Start("checking session"), m.checkToken())
	}
	return tea.Batch(cmds...)
}

// -- Update -------------------------------------------------------------------

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {

	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.header.SetWidth(v.Width)
		m.input.SetWidth(v.Width)
		m.status.SetWidth(v.Width)
		m.overlay.SetSize(v.Width, v.Height)
		m.authForm.SetSize(v.Width, v.Height)
		return m, m.recomputeLayout()

	case tea.MouseWheelMsg:
		if m.state.IsAuth() || m.overlay.IsActive() {
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(v)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(v)

	case tea.PasteMsg:
		if m.state == StateChat && !m.overlay.IsActive() && !m.sidebar.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(v)
			return m, tea.Batch(cmd, m.recomputeLayout())
		}
		return m, nil

	// -- Program lifecycle --

	case ProgramReady:
		m.program = v.Program
		return m, nil

	case anim.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		cmds = append(cmds, cmd)
		if m.spinner.Running() && m.state != StateLoading {
			if label, ok := m.activity.Next(time.Now()); ok {
				m.spinner.SetLabel(label)
			}
		}
		if m.overlay.IsActive() {
			m.overlay, cmd = m.overlay.Update(v)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case chat.MarkdownRendered:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(v)
		return m, cmd

	case msg.TickMsg:
		m.toasts.Tick()
		if m.toasts.Len() > 0 {
			return m, tickCmd()
		}
		return m, nil

	// -- Auth --

	case dialog.LoginSubmit:
		return m, m.doLogin(v.Username, v.Password)

	case dialog.RegisterSubmit:
		return m, m.doRegister(v.Username, v.Password)

	case msg.MeResult:
		return m.handleMe(v)

	case msg.LoginResult:
		if v.Err != nil {
			m.authForm.SetError(authError(v.Err))
			return m, nil
		}
		return m.enterChat(v.Username)

	case msg.RegisterResult:
		if v.Err != nil {
			m.authForm.SetError(authError(v.Err))
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.enterChat(v.Username)
		return m, tea.Batch(cmd, m.notify("Welcome, "+v.Username, toast.Info))

	case msg.LogoutResult:
		if v.Err != nil {
			log.Printf("[app] logout: %v", v.Err)
		}
		return m, nil

	// -- Conversations --

	case msg.ConversationsResult:
		return m.handleConversations(v)

	case msg.ConversationResult:
		return m.handleConversation(v)

	case dialog.ConversationChosen:
		return m.switchConversation(v.ID)

	case dialog.NewConversation:
		m.newConversation()
		return m, nil

	// -- Sending --

	case msg.ChatResult:
		return m.handleChat(v)

	case dialog.FilePicked:
		return m.handleFilePicked(v)

	case msg.SummarizeResult:
		return m.handleSummarize(v)

	case msg.SpeechResult:
		return m.handleSpeech(v)

	case msg.FeedbackResult:
		if v.Err != nil {
			return m.fail(v.Err, "Feedback")
		}
		cmds := []tea.Cmd{m.notify("Thanks for the feedback", toast.Info)}
		if id := m.chat.ConversationID(); id > 0 {
			cmds = append(cmds, m.fetchConversation(id))
		}
		return m, tea.Batch(cmds...)

	// -- Calendar --

	case msg.EventsResult:
		if v.Err != nil {
			if client.IsUnauthorized(v.Err) {
				return m.expire()
			}
			log.Printf("[app] agenda: %v", v.Err)
			m.sidebar.SetError(v.Err)
			return m, nil
		}
		m.sidebar.SetEvents(v.Events)
		return m, nil

	case dialog.QuickEventSubmit:
		return m, m.createEvent(v.Event)

	case dialog.EventUpdate:
		return m, m.updateEvent(v.ID, v.Event)

	case dialog.EventDelete:
		return m, m.deleteEvent(v.ID)

	case msg.EventSaved:
		if v.Err != nil {
			return m.fail(v.Err, "Save event")
		}
		text := "Event saved"
		if v.Deleted {
			text = "Event deleted"
		}
		return m, tea.Batch(m.notify(text, toast.Info), m.fetchAgenda())

	case msg.CalendarStatusResult:
		if v.Err != nil {
			if client.IsUnauthorized(v.Err) {
				return m.expire()
			}
			log.Printf("[app] calendar status: %v", v.Err)
			return m, nil
		}
		if m.cancelHandshake == nil {
			m.header.SetCalendar(calendarState(v.Connected))
		}
		return m, nil

	case msg.HandshakeURL:
		if hs, ok := m.overlay.Top().(dialog.HandshakeModel); ok {
			m.overlay.Pop()
			hs.SetURL(v.URL)
			m.overlay.Push(hs)
		}
		return m, nil

	case dialog.HandshakeCancel:
		if m.cancelHandshake != nil {
			m.cancelHandshake()
		}
		return m, nil

	case msg.HandshakeResult:
		return m.handleHandshake(v)

	case msg.CalendarDisconnected:
		if v.Err != nil {
			return m.fail(v.Err, "Disconnect calendar")
		}
		m.header.SetCalendar(header.CalendarDisconnected)
		m.sidebar.SetEvents(nil)
		return m, tea.Batch(m.notify("Google Calendar disconnected", toast.Info), m.fetchAgenda())

	// -- Profile --

	case msg.ProfileResult:
		if v.Err != nil {
			if client.IsUnauthorized(v.Err) {
				return m.expire()
			}
			log.Printf("[app] profile: %v", v.Err)
			return m, nil
		}
		if v.Missing && m.state == StateChat && !m.overlay.IsActive() {
			return m.openProfile()
		}
		return m, nil

	case dialog.ProfileSubmit:
		return m, m.saveProfile(v.Profile)

	case dialog.ProfileLater:
		return m, m.notify("You can fill in your profile later with ctrl+p", toast.Info)

	case msg.ProfileSaved:
		if v.Err != nil {
			return m.fail(v.Err, "Save profile")
		}
		return m, m.notify("Profile saved", toast.Info)

	// -- Local --

	case msg.Copied:
		if v.Err != nil {
			return m, m.notify("Copy failed: "+v.Err.Error(), toast.Error)
		}
		return m, m.notify("Copied to clipboard", toast.Info)

	case msg.LinkOpened:
		if v.Err != nil {
			return m, m.notify("Could not open "+v.URL+": "+v.Err.Error(), toast.Error)
		}
		return m, nil

	case msg.ToggleSidebar:
		if m.layoutMode == LayoutSidebar {
			m.layoutMode = LayoutCompact
			m.sidebar.Blur()
		} else {
			m.layoutMode = LayoutSidebar
		}
		m.cfg.UI.Sidebar = m.layoutMode == LayoutSidebar
		return m, tea.Batch(m.recomputeLayout(), saveConfig(m.profileDir, m.cfg))

	case msg.ConfigChanged:
		next := waitConfig(m.watcher)
		if v.Err != nil {
			return m, tea.Batch(next, m.notify("config.toml: "+v.Err.Error(), toast.Warning))
		}
		var cmd tea.Cmd
		m, cmd = m.applyConfig(v.Config)
		return m, tea.Batch(next, cmd)

	case dialog.PaletteExecute:
		return m.runAction(v.Action)

	case dialog.QuitConfirmed:
		if m.cancelHandshake != nil {
			m.cancelHandshake()
		}
		return m, tea.Quit
	}

	return m, nil
}

// -- Auth flow ----------------------------------------------------------------

func (m Model) handleMe(r msg.MeResult) (tea.Model, tea.Cmd) {
	m.spinner.Stop()
	if r.Err != nil {
		m.state = StateLogin
		if client.IsUnauthorized(r.Err) {
			m.authForm.SetNotice("Your session expired. Sign in again.")
			return m, m.doLogout()
		}
		m.authForm.SetError(fmt.Errorf("could not reach the server: %w", r.Err))
		return m, nil
	}
	return m.enterChat(r.User.Username)
}

// enterChat switches to the chat screen and loads what it shows.
func (m Model) enterChat(username string) (Model, tea.Cmd) {
	m.username = username
	m.header.SetUser(username)
	m.authForm.SetBusy(false)
	m.authForm.SetError(nil)
	m.authForm.SetNotice("")
	m.state = StateChat
	m.sidebar.SetLoading()
	return m, tea.Batch(
		m.input.Focus(),
		m.recomputeLayout(),
		m.fetchConversations(),
		m.fetchCalendarStatus(),
		m.fetchAgenda(),
		m.fetchProfile(),
	)
}

// logout signs out on request.
func (m Model) logout() (Model, tea.Cmd) {
	m = m.signOut()
	m.authForm.SetNotice("Signed out.")
	return m, m.doLogout()
}

// expire drops the session after the backend rejected the token.
func (m Model) expire() (Model, tea.Cmd) {
	m = m.signOut()
	m.authForm.SetNotice("Your session expired. Sign in again.")
	return m, m.doLogout()
}

// signOut resets the chat state and shows the login form.
func (m Model) signOut() Model {
	if m.cancelHandshake != nil {
		m.cancelHandshake()
		m.cancelHandshake = nil
	}
	m.spinner.Stop()
	m.overlay.Clear()
	m.chat.Clear()
	m.input.Reset()
	m.input.SetMode(input.ModeChat)
	m.input.Blur()
	m.sidebar.Blur()
	m.sidebar.SetEvents(nil)
	m.sidebar.SetConversations(nil, 0)
	m.header.SetUser("")
	m.header.SetTitle("")
	m.header.SetCalendar(header.CalendarUnknown)
	m.conversations = nil
	m.pendingKey = ""
	m.openingID = 0
	m.authForm = dialog.NewAuth(m.cfg.Server.URL, m.version)
	m.authForm.SetSize(m.width, m.height)
	m.authForm.SetUsername(m.username)
	m.username = ""
	m.state = StateLogin
	return m
}

// authError turns backend rejections into form messages.
func authError(err error) error {
	switch client.StatusOf(err) {
	case 400, 401:
		return fmt.Errorf("wrong username or password")
	case 409:
		return fmt.Errorf("that username is taken")
	}
	return err
}

// fail reports err from op, signing out on 401.
func (m Model) fail(err error, op string) (Model, tea.Cmd) {
	if client.IsUnauthorized(err) {
		return m.expire()
	}
	log.Printf("[app] %s: %v", strings.ToLower(op), err)
	return m, m.notify(op+" failed: "+err.Error(), toast.Error)
}

// notify shows a toast, starting the expiry tick when the queue was empty.
func (m *Model) notify(text string, level toast.Level) tea.Cmd {
	wasEmpty := m.toasts.Len() == 0
	m.toasts.Add(text, level)
	if wasEmpty {
		return tickCmd()
	}
	return nil
}

// -- Conversations ------------------------------------------------------------

func (m Model) handleConversations(r msg.ConversationsResult) (Model, tea.Cmd) {
	if r.Err != nil {
		return m.fail(r.Err, "Load conversations")
	}
	m.conversations = r.Conversations
	m.sidebar.SetConversations(r.Conversations, m.chat.ConversationID())
	m.header.SetTitle(m.conversationTitle(m.chat.ConversationID()))
	if r.Cached {
		return m, m.notify("Offline: showing cached conversations", toast.Warning)
	}
	return m, nil
}

func (m Model) handleConversation(r msg.ConversationResult) (Model, tea.Cmd) {
	if r.Err != nil {
		return m.fail(r.Err, "Load conversation")
	}
	conv := r.Conversation
	if conv == nil {
		return m, nil
	}
	if m.openingID != 0 && conv.ConversationID != m.openingID {
		return m, nil
	}
	if r.Cached && m.openingID == 0 {
		// The server copy is already showing.
		return m, nil
	}
	if m.openingID == 0 && conv.ConversationID != m.chat.ConversationID() {
		return m, nil
	}
	if m.pendingKey != "" {
		// The reload after the answer replaces the optimistic echo.
		return m, nil
	}
	if !r.Cached {
		m.openingID = 0
	}
	cmd := m.chat.Load(conv)
	m.sidebar.SetCurrent(conv.ConversationID)
	title := strings.TrimSpace(conv.Title)
	if title == "" {
		title = m.conversationTitle(conv.ConversationID)
	}
	m.header.SetTitle(title)
	return m, cmd
}

func (m Model) switchConversation(id int) (Model, tea.Cmd) {
	if id <= 0 {
		return m, nil
	}
	m.openingID = id
	m.chat.ClearSelection()
	return m, m.openConversation(id)
}

// newConversation empties the chat; the next question starts a new
// conversation on the server.
func (m *Model) newConversation() {
	m.chat.Clear()
	m.openingID = 0
	m.header.SetTitle("")
	m.sidebar.SetCurrent(0)
}

func (m Model) conversationTitle(id int) string {
	if id <= 0 {
		return ""
	}
	for _, c := range m.conversations {
		if c.ConversationID == id {
			return sidebar.Title(c)
		}
	}
	return fmt.Sprintf("Conv %d", id)
}

// -- Sending ------------------------------------------------------------------

// submit sends the prompt text in the current input mode.
func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	search := m.input.Mode() == input.ModeSearch
	m.input.Submit(text)
	m.chat.ClearSelection()

	key, echo := m.chat.AppendLocal(text)
	m.pendingKey = key
	kind := activity.Thinking
	if search {
		kind = activity.Searching
	}
	busy := m.startBusy(kind)
	return m, tea.Batch(echo, busy, m.sendQuestion(text, search), m.recomputeLayout())
}

func (m Model) handleChat(r msg.ChatResult) (Model, tea.Cmd) {
	focus := m.stopBusy()
	m.chat.Settle(m.pendingKey)
	m.pendingKey = ""

	if r.Err != nil {
		if client.IsUnauthorized(r.Err) {
			return m.expire()
		}
		log.Printf("[app] send: %v", r.Err)
		return m, tea.Batch(focus, m.chat.AppendNotice("Could not send: "+r.Err.Error(), chat.LevelError))
	}
	if r.ConversationID <= 0 {
		return m, tea.Batch(focus, m.chat.AppendLocalAnswer(r.Answer))
	}
	m.chat.SetConversationID(r.ConversationID)
	m.sidebar.SetCurrent(r.ConversationID)
	m.openingID = r.ConversationID
	return m, tea.Batch(
		focus,
		m.fetchConversation(r.ConversationID),
		m.fetchConversations(),
		m.fetchAgenda(),
	)
}

func (m Model) handleFilePicked(p dialog.FilePicked) (Model, tea.Cmd) {
	m = m.closeDialog()
	switch p.Purpose {
	case dialog.PurposeVoice:
		m.input.SetMode(input.ModeVoice)
		return m, tea.Batch(m.startBusy(activity.Transcribing), m.speechChat(p.Path))
	default:
		m.input.SetMode(input.ModeSummarize)
		return m, tea.Batch(m.startBusy(activity.Summarizing), m.summarize(p.Path))
	}
}

func (m Model) handleSummarize(r msg.SummarizeResult) (Model, tea.Cmd) {
	focus := m.stopBusy()
	m.input.SetMode(input.ModeChat)
	if r.Err != nil {
		if client.IsUnauthorized(r.Err) {
			return m.expire()
		}
		return m, tea.Batch(focus, m.chat.AppendNotice("Could not summarize "+r.File+": "+r.Err.Error(), chat.LevelError))
	}
	key, c1 := m.chat.AppendLocal("[file summary] " + r.File)
	m.chat.Settle(key)
	c2 := m.chat.AppendLocalAnswer(r.Summary)
	return m, tea.Batch(focus, c1, c2)
}

func (m Model) handleSpeech(r msg.SpeechResult) (Model, tea.Cmd) {
	focus := m.stopBusy()
	m.input.SetMode(input.ModeChat)
	if r.Err != nil {
		if client.IsUnauthorized(r.Err) {
			return m.expire()
		}
		return m, tea.Batch(focus, m.chat.AppendNotice("Could not send "+r.File+": "+r.Err.Error(), chat.LevelError))
	}
	cmds := []tea.Cmd{focus}
	if r.Transcript != "" {
		cmds = append(cmds, m.notify(fmt.Sprintf("Heard %q (%.0f%%)", r.Transcript, r.Confidence*100), toast.Info))
	}
	if r.ConversationID <= 0 {
		cmds = append(cmds, m.chat.AppendLocalAnswer(r.Answer))
		return m, tea.Batch(cmds...)
	}
	m.chat.SetConversationID(r.ConversationID)
	m.sidebar.SetCurrent(r.ConversationID)
	m.openingID = r.ConversationID
	cmds = append(cmds, m.fetchConversation(r.ConversationID), m.fetchConversations(), m.fetchAgenda())
	return m, tea.Batch(cmds...)
}

// startBusy disables the prompt and starts the spinner.
func (m *Model) startBusy(kind activity.Kind) tea.Cmd {
	m.state = StateBusy
	m.input.Blur()
	m.activity = activity.New(kind, time.Now())
	return m.spinner.Start(m.activity.Label())
}

// stopBusy ends the busy state. A dialog opened meanwhile stays open.
func (m *Model) stopBusy() tea.Cmd {
	m.spinner.Stop()
	if m.state != StateBusy {
		return nil
	}
	m.state = StateChat
	return m.input.Focus()
}

// -- Feedback -----------------------------------------------------------------

// rate sends like/dislike for the selected message, or for its selected
// card.
func (m Model) rate(label string) (Model, tea.Cmd) {
	row := m.chat.Selected()
	if row == nil || !row.Rateable() {
		return m, nil
	}
	category := client.CategoryChat
	ref := client.MessageReference(row.Message().MessageID)
	if card, ok := row.SelectedCard(); ok {
		category = client.CategoryRecommend
		ref = client.CardReference(card.CardID)
	}
	m.chat.MarkFeedback(label)
	return m, m.sendFeedback(category, ref, label)
}

// -- Calendar -----------------------------------------------------------------

func (m Model) toggleCalendar() (Model, tea.Cmd) {
	if m.header.Calendar() == header.CalendarConnected {
		return m, m.disconnectCalendar()
	}
	if m.cancelHandshake != nil {
		return m, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHandshake = cancel
	m.header.SetCalendar(header.CalendarConnecting)

	hs := dialog.NewHandshake(m.cfg.Calendar.HandshakeTimeout.Duration)
	start := hs.Init()
	m = m.openDialog(hs, StateHandshake)
	return m, tea.Batch(start, m.runHandshake(ctx))
}

func (m Model) handleHandshake(r msg.HandshakeResult) (Model, tea.Cmd) {
	m.cancelHandshake = nil
	if _, ok := m.overlay.Top().(dialog.HandshakeModel); ok {
		m.overlay.Pop()
		m = m.closeDialog()
	}
	switch {
	case r.Err == nil:
		m.header.SetCalendar(header.CalendarConnected)
		return m, tea.Batch(m.notify("Google Calendar connected", toast.Info), m.fetchAgenda())
	case errors.Is(r.Err, context.Canceled):
		m.header.SetCalendar(header.CalendarUnknown)
		return m, tea.Batch(m.notify("Calendar connection cancelled", toast.Info), m.fetchCalendarStatus())
	case errors.Is(r.Err, gcal.ErrTimeout):
		m.header.SetCalendar(header.CalendarDisconnected)
		return m, m.notify("Calendar consent timed out", toast.Warning)
	}
	m.header.SetCalendar(header.CalendarUnknown)
	return m.fail(r.Err, "Connect calendar")
}

func calendarState(connected bool) header.CalendarState {
	if connected {
		return header.CalendarConnected
	}
	return header.CalendarDisconnected
}

// -- Dialogs ------------------------------------------------------------------

func (m Model) openDialog(d dialog.Dialog, s State) Model {
	m.overlay.Push(d)
	m.state = s
	m.input.Blur()
	m.sidebar.Blur()
	return m
}

// closeDialog returns to the chat, or to the busy state while a request
// is still running.
func (m Model) closeDialog() Model {
	if m.overlay.IsActive() {
		return m
	}
	if m.spinner.Running() && m.state != StateLoading {
		m.state = StateBusy
		return m
	}
	m.state = StateChat
	if m.input.Mode() == input.ModeSummarize || m.input.Mode() == input.ModeVoice {
		m.input.SetMode(input.ModeChat)
	}
	m.input.Focus()
	return m
}

func (m Model) openConversations() (Model, tea.Cmd) {
	d := dialog.NewConversations(m.conversations, m.chat.ConversationID(), m.cfg.Location())
	d.SetSize(m.width, m.height)
	return m.openDialog(d, StateConversations), nil
}

func (m Model) openQuickEvent() (Model, tea.Cmd) {
	return m.openDialog(dialog.NewQuickEvent(time.Now(), m.cfg.Location()), StateQuickEvent), nil
}

func (m Model) openProfile() (Model, tea.Cmd) {
	return m.openDialog(dialog.NewProfile("en"), StateProfile), nil
}

func (m Model) openFilePicker(purpose dialog.Purpose) (Model, tea.Cmd) {
	fp := dialog.NewFilePicker(purpose)
	if err := fp.SetDir("."); err != nil {
		return m, m.notify(err.Error(), toast.Error)
	}
	if purpose == dialog.PurposeVoice {
		m.input.SetMode(input.ModeVoice)
	} else {
		m.input.SetMode(input.ModeSummarize)
	}
	return m.openDialog(fp, StateFilePicker), nil
}

// -- Config -------------------------------------------------------------------

// applyConfig applies a reloaded config.toml: theme, follow mode, zone,
// agenda length and the sidebar preference.
func (m Model) applyConfig(cfg config.Config) (Model, tea.Cmd) {
	prev := m.cfg
	m.cfg = cfg
	var cmds []tea.Cmd

	if cfg.UI.Theme != prev.UI.Theme && style.SetTheme(cfg.UI.Theme) {
		cmds = append(cmds, m.chat.Restyle())
	}
	m.chat.SetFollowMode(list.ParseFollowMode(cfg.Chat.Follow))
	if cfg.Chat.Timezone != prev.Chat.Timezone {
		loc := cfg.Location()
		m.chat.SetLocation(loc)
		m.sidebar.SetLocation(loc)
	}
	if cfg.Calendar.AgendaDays != prev.Calendar.AgendaDays {
		m.sidebar.SetDays(cfg.Calendar.AgendaDays)
		if m.username != "" {
			cmds = append(cmds, m.fetchAgenda())
		}
	}
	if cfg.UI.Sidebar {
		m.layoutMode = LayoutSidebar
	} else {
		m.layoutMode = LayoutCompact
	}
	cmds = append(cmds, m.recomputeLayout())
	return m, tea.Batch(cmds...)
}

// -- Layout -------------------------------------------------------------------

// recomputeLayout recalculates the Layout from the current dimensions and
// propagates it into the sub-models.
func (m *Model) recomputeLayout() tea.Cmd {
	m.layout = ComputeLayout(m.width, m.height, m.layoutMode, m.input.Height())
	m.sidebar.SetSize(m.layout.SidebarWidth, m.layout.SidebarHeight)
	if m.layout.SidebarWidth == 0 {
		m.sidebar.Blur()
	}
	return m.chat.SetSize(m.layout.ChatWidth, m.layout.ChatHeight)
}

// -- View ---------------------------------------------------------------------

// View returns the tea.View for the current frame.
func (m Model) View() tea.View {
	v := tea.NewView(m.renderView())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) renderView() string {
	switch m.state {
	case StateLogin, StateRegister:
		return m.authForm.View()
	case StateLoading:
		box := m.spinner.View()
		if m.width <= 0 || m.height <= 0 {
			return box
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	st := m.status
	st.SetMode(m.input.Mode().String())
	st.SetConversation(m.chat.ConversationID(), m.chat.Len())
	st.SetFollowing(m.chat.Following())
	st.SetBusy(m.spinner.View())
	st.SetHints(m.hints())

	sections := []string{
		m.header.View(),
		m.renderMain(),
		st.View(),
		m.input.View(),
	}
	frame := strings.Join(sections, "\n")

	if m.overlay.IsActive() {
		frame = m.overlay.View(frame)
	}
	if m.toasts.Len() > 0 {
		frame = overlayTop(frame, m.toasts.View(m.width))
	}
	return frame
}

// renderMain returns the chat pane, beside the sidebar when it is shown.
func (m Model) renderMain() string {
	chatView := lipgloss.NewStyle().
		Width(m.layout.ChatWidth).
		Height(m.layout.ChatHeight).
		MaxHeight(m.layout.ChatHeight).
		Render(m.chat.View())
	if m.layout.Mode == LayoutSidebar && m.layout.SidebarWidth > 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), chatView)
	}
	return chatView
}

// overlayTop replaces the first lines of frame with top, which is drawn
// right-aligned already.
func overlayTop(frame, top string) string {
	lines := strings.Split(frame, "\n")
	tl := strings.Split(top, "\n")
	// Toasts sit under the header.
	for i, l := range tl {
		if at := i + 2; at < len(lines) {
			lines[at] = l
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) hints() string {
	switch {
	case m.sidebar.Focused():
		return "↑↓ event · enter open · esc back"
	case m.chat.Selected() != nil:
		return "+/- rate · [ ] card · y copy · o open · esc done"
	case m.state == StateBusy:
		return "pgup/pgdn scroll · ctrl+c quit"
	}
	return common.KeyHelp(m.keys.Help, m.keys.Palette, m.keys.Conversations, m.keys.NewConversation)
}

// helpText lists the key bindings for the F1 notice.
func (m Model) helpText() string {
	var b strings.Builder
	b.WriteString("Keys:\n")
	for _, kb := range m.keys.HelpBindings() {
		h := kb.Help()
		fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
	}
	return strings.TrimRight(b.String(), "\n")
}
