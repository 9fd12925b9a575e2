// Package chat hosts the virtualized message list of the chat view.
//
// Rows are server messages, optimistic echoes of messages being sent and
// local notices. Assistant bodies are rendered as markdown off the update
// loop; each request carries a list.Ticket so results that arrive after a
// conversation switch or a width change are dropped.
package chat

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
	"github.com/miosa/aidesk-tui/ui/list"
)

// Options configures a Model.
type Options struct {
	Follow         list.FollowMode
	FallbackHeight int
	Overscan       int
	Padding        int
	Location       *time.Location

	// Renderer overrides the glamour markdown renderer.
	Renderer Renderer
}

// Model is the chat message list with a one-column scrollbar.
type Model struct {
	list list.Model
	rows []*Row

	// index maps row keys to list indices.
	index map[string]int

	// requested records the body width markdown was last requested at,
	// per row key.
	requested map[string]int

	selected int

	renderer       Renderer
	customRenderer bool
	loc            *time.Location

	width          int
	height         int
	conversationID int
}

// New returns an empty chat list.
func New(opts Options) Model {
	lopts := []list.Option{list.WithFollowMode(opts.Follow)}
	if opts.FallbackHeight > 0 {
		lopts = append(lopts, list.WithFallbackHeight(opts.FallbackHeight))
	}
	if opts.Overscan > 0 {
		lopts = append(lopts, list.WithOverscan(opts.Overscan))
	}
	if opts.Padding >= 0 {
		lopts = append(lopts, list.WithPadding(opts.Padding))
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		list:      list.New(lopts...),
		index:     make(map[string]int),
		requested: make(map[string]int),
		selected:  -1,
		renderer:  opts.Renderer,
		loc:       loc,
	}
	if m.renderer != nil {
		m.customRenderer = true
	} else {
		m.renderer = GlamourRenderer(style.GlamourStyle)
	}
	return m
}

// ---------------------------------------------------------------------------
// Sizing and appearance
// ---------------------------------------------------------------------------

// SetSize sets the pane size. One column is kept for the scrollbar.
func (m *Model) SetSize(w, h int) tea.Cmd {
	m.width = w
	m.height = h
	m.list.SetSize(max(1, w-1), h)
	return m.sync()
}

// SetFollowMode changes the scroll-to-end behaviour.
func (m *Model) SetFollowMode(f list.FollowMode) { m.list.SetFollowMode(f) }

// SetLocation changes the zone timestamps are shown in.
func (m *Model) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	m.loc = loc
	for _, r := range m.rows {
		r.loc = loc
		r.touch()
	}
	m.list.Layout()
}

// Restyle re-renders every row after a theme change.
func (m *Model) Restyle() tea.Cmd {
	if !m.customRenderer {
		m.renderer = GlamourRenderer(style.GlamourStyle)
	}
	clear(m.requested)
	for _, r := range m.rows {
		r.restyle()
	}
	m.list.Layout()
	return m.sync()
}

// ---------------------------------------------------------------------------
// Content
// ---------------------------------------------------------------------------

// Load replaces the rows with conv's messages in display order. Loading
// starts a new measurement generation. Reloading the open conversation
// keeps the selected row.
func (m *Model) Load(conv *client.Conversation) tea.Cmd {
	keepKey, keepCard := "", -1
	if conv != nil && conv.ConversationID == m.conversationID {
		if r := m.Selected(); r != nil {
			keepKey, keepCard = r.key, r.card
		}
	}

	m.reset()
	if conv == nil {
		return nil
	}
	m.conversationID = conv.ConversationID

	sorted := *conv
	sorted.Messages = append([]client.Message(nil), conv.Messages...)
	sorted.SortMessages()

	rows := make([]*Row, 0, len(sorted.Messages))
	for _, msg := range sorted.Messages {
		rows = append(rows, newMessageRow(msg, m.loc))
	}
	m.setRows(rows)

	if i, ok := m.index[keepKey]; ok && keepKey != "" {
		m.selected = i
		r := m.rows[i]
		r.selected = true
		if keepCard < len(r.msg.Cards) {
			r.card = keepCard
		}
		r.touch()
		m.list.UpdateRow(i)
		m.list.ScrollToRow(i, list.AlignAuto)
	}
	return m.sync()
}

// Clear drops every row and forgets the conversation, as for a new one.
func (m *Model) Clear() {
	m.reset()
	m.conversationID = 0
}

func (m *Model) reset() {
	m.list.Reset()
	m.rows = nil
	m.selected = -1
	clear(m.index)
	clear(m.requested)
}

func (m *Model) setRows(rows []*Row) {
	m.rows = rows
	lrows := make([]list.Row, len(rows))
	clear(m.index)
	for i, r := range rows {
		lrows[i] = r
		m.index[r.key] = i
	}
	m.list.SetRows(lrows)
}

func (m *Model) appendRow(r *Row) tea.Cmd {
	m.index[r.key] = len(m.rows)
	m.rows = append(m.rows, r)
	m.list.AppendRows(r)
	return m.sync()
}

// AppendMessage appends a server message.
func (m *Model) AppendMessage(msg client.Message) tea.Cmd {
	return m.appendRow(newMessageRow(msg, m.loc))
}

// AppendLocal appends an optimistic echo of text being sent by the user
// and returns its key.
func (m *Model) AppendLocal(text string) (string, tea.Cmd) {
	key := "local-" + uuid.NewString()
	r := &Row{
		key:     key,
		kind:    KindUser,
		msg:     client.Message{Role: "user", Content: text, CreatedAt: client.Time{Time: time.Now()}},
		pending: true,
		loc:     m.loc,
		card:    -1,
	}
	return key, m.appendRow(r)
}

// AppendLocalAnswer appends an assistant row that exists only on this
// client, such as a file summary.
func (m *Model) AppendLocalAnswer(text string) tea.Cmd {
	r := &Row{
		key:  "local-" + uuid.NewString(),
		kind: KindAssistant,
		msg:  client.Message{Role: "assistant", Content: text, CreatedAt: client.Time{Time: time.Now()}},
		loc:  m.loc,
		card: -1,
	}
	return m.appendRow(r)
}

// AppendNotice appends a local notice row.
func (m *Model) AppendNotice(text string, level Level) tea.Cmd {
	return m.appendRow(newNoticeRow("notice-"+uuid.NewString(), text, level, m.loc))
}

// Settle marks the optimistic echo key as no longer pending. A failed send
// keeps the row with its timestamp so the text is not lost.
func (m *Model) Settle(key string) {
	i, ok := m.index[key]
	if !ok {
		return
	}
	r := m.rows[i]
	if !r.pending {
		return
	}
	r.pending = false
	r.touch()
	m.list.UpdateRow(i)
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Selected returns the selected row, or nil.
func (m Model) Selected() *Row {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return nil
	}
	return m.rows[m.selected]
}

// SelectPrev moves the selection up. With nothing selected it selects the
// last row.
func (m *Model) SelectPrev() tea.Cmd {
	if len(m.rows) == 0 {
		return nil
	}
	next := m.selected - 1
	if m.selected < 0 {
		next = len(m.rows) - 1
	}
	return m.selectRow(max(0, next))
}

// SelectNext moves the selection down. Moving past the last row clears it.
func (m *Model) SelectNext() tea.Cmd {
	if m.selected < 0 {
		return nil
	}
	if m.selected >= len(m.rows)-1 {
		m.ClearSelection()
		return nil
	}
	return m.selectRow(m.selected + 1)
}

// ClearSelection removes the selection.
func (m *Model) ClearSelection() {
	if r := m.Selected(); r != nil {
		r.setSelected(false)
		m.list.UpdateRow(m.selected)
	}
	m.selected = -1
}

func (m *Model) selectRow(i int) tea.Cmd {
	if i == m.selected {
		return nil
	}
	if r := m.Selected(); r != nil {
		r.setSelected(false)
		m.list.UpdateRow(m.selected)
	}
	m.selected = i
	m.rows[i].setSelected(true)
	m.list.UpdateRow(i)
	m.list.ScrollToRow(i, list.AlignAuto)
	return m.sync()
}

// CardPrev moves the card cursor of the selected row up.
func (m *Model) CardPrev() bool { return m.moveCard(-1) }

// CardNext moves the card cursor of the selected row down.
func (m *Model) CardNext() bool { return m.moveCard(+1) }

func (m *Model) moveCard(delta int) bool {
	r := m.Selected()
	if r == nil || !r.moveCard(delta) {
		return false
	}
	m.list.UpdateRow(m.selected)
	return true
}

// MarkFeedback records label on the selected row, or on its selected card
// when a card is picked. The server copy replaces it on the next load.
func (m *Model) MarkFeedback(label string) {
	r := m.Selected()
	if r == nil {
		return
	}
	_, onCard := r.SelectedCard()
	r.setFeedback(label, onCard)
	m.list.UpdateRow(m.selected)
}

// ---------------------------------------------------------------------------
// Scrolling
// ---------------------------------------------------------------------------

// ScrollUp scrolls up by lines.
func (m *Model) ScrollUp(lines int) tea.Cmd {
	m.list.ScrollUp(lines)
	return m.sync()
}

// ScrollDown scrolls down by lines.
func (m *Model) ScrollDown(lines int) tea.Cmd {
	m.list.ScrollDown(lines)
	return m.sync()
}

// PageUp scrolls up one viewport.
func (m *Model) PageUp() tea.Cmd {
	m.list.PageUp()
	return m.sync()
}

// PageDown scrolls down one viewport.
func (m *Model) PageDown() tea.Cmd {
	m.list.PageDown()
	return m.sync()
}

// HalfPageUp scrolls up half a viewport.
func (m *Model) HalfPageUp() tea.Cmd {
	m.list.HalfPageUp()
	return m.sync()
}

// HalfPageDown scrolls down half a viewport.
func (m *Model) HalfPageDown() tea.Cmd {
	m.list.HalfPageDown()
	return m.sync()
}

// ScrollToTop jumps to the first row.
func (m *Model) ScrollToTop() tea.Cmd {
	m.list.ScrollToTop()
	return m.sync()
}

// ScrollToBottom jumps to the last row and resumes following.
func (m *Model) ScrollToBottom() tea.Cmd {
	m.list.ScrollToBottom()
	return m.sync()
}

// Following reports whether new rows will scroll into view.
func (m Model) Following() bool { return m.list.Follower().Following() }

// AtBottom reports whether the end of the list is visible.
func (m Model) AtBottom() bool { return m.list.AtBottom() }

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Len returns the number of rows.
func (m Model) Len() int { return len(m.rows) }

// Row returns row i, or nil.
func (m Model) Row(i int) *Row {
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return m.rows[i]
}

// ConversationID returns the open conversation, 0 for a new one.
func (m Model) ConversationID() int { return m.conversationID }

// SetConversationID records the conversation a first answer created.
func (m *Model) SetConversationID(id int) { m.conversationID = id }

// Generation returns the measurement generation. It moves on every Load, so
// a reload of the same conversation can be told apart from the copy before.
func (m Model) Generation() uint64 { return m.list.Generation() }

// ---------------------------------------------------------------------------
// Update / View
// ---------------------------------------------------------------------------

// Update applies rendered markdown and forwards mouse wheel events.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MarkdownRendered:
		return m, m.applyMarkdown(msg)
	case tea.MouseWheelMsg:
		m.list, _ = m.list.Update(msg)
		return m, m.sync()
	}
	return m, nil
}

func (m *Model) applyMarkdown(msg MarkdownRendered) tea.Cmd {
	if !m.list.Current(msg.Ticket) {
		return nil
	}
	if m.requested[msg.Key] == msg.Width {
		delete(m.requested, msg.Key)
	}
	if msg.Width != bodyWidth(m.list.Width()) {
		return m.sync()
	}
	i, ok := m.index[msg.Key]
	if !ok {
		return nil
	}
	out := msg.Output
	if msg.Err != nil {
		// Plain wrapped text stays; the row is not retried at this width.
		out = ""
	}
	m.rows[i].setMarkdown(out, msg.Width)
	m.list.UpdateRow(i)
	return m.sync()
}

// sync requests markdown for assistant rows in the render range that have
// none for the current width.
func (m *Model) sync() tea.Cmd {
	w := m.list.Width()
	if w <= 0 || len(m.rows) == 0 {
		return nil
	}
	bw := bodyWidth(w)
	var cmds []tea.Cmd
	r := m.list.RenderRange()
	for i := r.Start; i < r.End; i++ {
		row := m.rows[i]
		if !row.needsMarkdown(w) || m.requested[row.key] == bw {
			continue
		}
		m.requested[row.key] = bw
		cmds = append(cmds, renderMarkdownCmd(m.renderer, row.key, row.msg.Content, bw, m.list.Ticket(i)))
	}
	return tea.Batch(cmds...)
}

// View renders the visible rows and the scrollbar, or the empty state.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if len(m.rows) == 0 {
		return renderEmpty(m.width, m.height)
	}
	body := m.list.View()
	bar := common.Scrollbar(m.list.Height(), m.list.TotalHeight(), m.list.ScrollTop())
	if bar == "" {
		return body
	}
	body = lipgloss.NewStyle().Width(m.list.Width()).Render(body)
	return lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
}
