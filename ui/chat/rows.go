package chat

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/style"
)

// Kind is the origin of a row.
type Kind int

const (
	KindUser Kind = iota
	KindAssistant
	KindNotice
)

// Level is the severity of a notice row.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// maxContentWidth caps row width for readability on wide terminals.
const maxContentWidth = 120

// rowWidth is the width a row renders at inside a list of width w.
func rowWidth(w int) int {
	return min(w, maxContentWidth)
}

// bodyWidth is the text width inside the row's left border and padding.
func bodyWidth(w int) int {
	return max(10, rowWidth(w)-2)
}

// Row is one entry of the chat list: a server message, an optimistic echo
// of a message being sent, or a local notice.
type Row struct {
	key     string
	kind    Kind
	level   Level
	msg     client.Message
	pending bool
	loc     *time.Location

	// md is the assistant body rendered as markdown for mdWidth.
	md      string
	mdWidth int

	selected bool
	card     int
	version  int
}

func newMessageRow(m client.Message, loc *time.Location) *Row {
	kind := KindUser
	if m.Role == "assistant" {
		kind = KindAssistant
	}
	return &Row{
		key:  fmt.Sprintf("m-%d", m.MessageID),
		kind: kind,
		msg:  m,
		loc:  loc,
		card: -1,
	}
}

func newNoticeRow(key, text string, level Level, loc *time.Location) *Row {
	return &Row{
		key:   key,
		kind:  KindNotice,
		level: level,
		msg:   client.Message{Role: "system", Content: text, CreatedAt: client.Time{Time: time.Now()}},
		loc:   loc,
		card:  -1,
	}
}

// Key implements list.Row.
func (r *Row) Key() string { return r.key }

// Version implements list.Row.
func (r *Row) Version() int { return r.version }

// Kind returns the row's origin.
func (r *Row) Kind() Kind { return r.kind }

// Message returns the underlying message.
func (r *Row) Message() client.Message { return r.msg }

// Pending reports whether the row is an optimistic echo not yet confirmed.
func (r *Row) Pending() bool { return r.pending }

// Rateable reports whether feedback can be sent for the row.
func (r *Row) Rateable() bool {
	return r.kind == KindAssistant && r.msg.MessageID > 0 && !r.pending
}

// Cards returns the row's recommendation cards.
func (r *Row) Cards() []client.Card { return r.msg.Cards }

// SelectedCard returns the card under the card cursor.
func (r *Row) SelectedCard() (client.Card, bool) {
	if r.card < 0 || r.card >= len(r.msg.Cards) {
		return client.Card{}, false
	}
	return r.msg.Cards[r.card], true
}

// Text is the plain text copied to the clipboard.
func (r *Row) Text() string {
	var b strings.Builder
	b.WriteString(r.msg.Content)
	for _, c := range r.msg.Cards {
		b.WriteString("\n- " + c.Title)
		if c.Link != "" {
			b.WriteString(" " + c.Link)
		}
	}
	for _, img := range r.msg.Images {
		b.WriteString("\n" + img)
	}
	return b.String()
}

func (r *Row) touch() { r.version++ }

func (r *Row) setSelected(on bool) {
	if r.selected == on {
		return
	}
	r.selected = on
	if !on {
		r.card = -1
	}
	r.touch()
}

func (r *Row) moveCard(delta int) bool {
	n := len(r.msg.Cards)
	if n == 0 {
		return false
	}
	next := r.card + delta
	if r.card < 0 {
		next = 0
		if delta < 0 {
			next = n - 1
		}
	}
	next = max(0, min(next, n-1))
	if next == r.card {
		return false
	}
	r.card = next
	r.touch()
	return true
}

// setFeedback records a label on the message or on the selected card.
func (r *Row) setFeedback(label string, onCard bool) {
	info := &client.FeedbackInfo{FeedbackLabel: label}
	if onCard {
		if r.card >= 0 && r.card < len(r.msg.Cards) {
			cards := append([]client.Card(nil), r.msg.Cards...)
			cards[r.card].Feedback = info
			r.msg.Cards = cards
		}
	} else {
		r.msg.Feedback = info
	}
	r.touch()
}

// needsMarkdown reports whether the body should be rendered as markdown for
// list width w.
func (r *Row) needsMarkdown(w int) bool {
	return r.kind == KindAssistant &&
		strings.TrimSpace(r.msg.Content) != "" &&
		r.mdWidth != bodyWidth(w)
}

func (r *Row) setMarkdown(out string, width int) {
	r.md = out
	r.mdWidth = width
	r.touch()
}

// restyle drops the rendered markdown after a theme change.
func (r *Row) restyle() {
	r.md = ""
	r.mdWidth = 0
	r.touch()
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// Render implements list.Row.
func (r *Row) Render(w int) string {
	cw := rowWidth(w)
	bw := bodyWidth(w)

	var parts []string
	parts = append(parts, r.header())
	parts = append(parts, r.body(bw))
	for _, img := range r.msg.Images {
		parts = append(parts, style.Link.Render(wrap.String("🖼 "+img, bw)))
	}
	for i, c := range r.msg.Cards {
		parts = append(parts, renderCard(c, r.selected && i == r.card, bw))
	}
	if f := r.footer(); f != "" {
		parts = append(parts, f)
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(r.borderColor()).
		PaddingLeft(1).
		Width(cw)
	return border.Render(strings.Join(parts, "\n"))
}

func (r *Row) header() string {
	var label string
	switch r.kind {
	case KindUser:
		label = style.UserLabel.Render("❯ You")
	case KindAssistant:
		label = style.AssistantLabel.Render("◆ Assistant")
	default:
		return r.noticeLabel()
	}
	meta := r.timestamp()
	if r.pending {
		meta = "sending…"
	}
	if meta == "" {
		return label
	}
	return label + "  " + style.MsgMeta.Render(meta)
}

func (r *Row) noticeLabel() string {
	switch r.level {
	case LevelError:
		return style.ErrorText.Render("✘ Error")
	case LevelWarning:
		return lipgloss.NewStyle().Foreground(style.Warning).Bold(true).Render("⚠ Notice")
	default:
		return style.NoticeText.Bold(true).Render("• Info")
	}
}

func (r *Row) timestamp() string {
	t := r.msg.CreatedAt.Time
	if t.IsZero() {
		return ""
	}
	if r.loc != nil {
		t = t.In(r.loc)
	}
	return t.Format("Jan 02 15:04")
}

func (r *Row) body(width int) string {
	content := r.msg.Content
	if r.kind == KindAssistant && r.md != "" && r.mdWidth == width {
		return r.md
	}
	text := wrap.String(wordwrap.String(content, width), width)
	switch {
	case r.kind == KindNotice && r.level == LevelError:
		return style.ErrorText.Render(text)
	case r.kind == KindNotice:
		return style.NoticeText.Render(text)
	}
	return text
}

func (r *Row) footer() string {
	if r.kind != KindAssistant || r.msg.MessageID <= 0 {
		return ""
	}
	label := feedbackBadge(r.msg.Feedback.Label())
	if r.selected {
		hint := "+ like · - dislike · y copy"
		if len(r.msg.Cards) > 0 {
			hint += " · [ ] pick card · o open"
		}
		label += "  " + style.Hint.Render(hint)
	}
	return label
}

func (r *Row) borderColor() color.Color {
	if r.selected {
		return style.SelectedBorder
	}
	switch r.kind {
	case KindUser:
		return style.UserBorder
	case KindAssistant:
		return style.AssistantBorder
	}
	switch r.level {
	case LevelError:
		return style.Error
	case LevelWarning:
		return style.Warning
	}
	return style.NoticeBorder
}

func renderCard(c client.Card, selected bool, width int) string {
	inner := max(8, width-2)
	var lines []string

	title := style.CardTitle.Render(c.Title)
	if c.Type != "" {
		title = style.CardType.Render("["+c.Type+"]") + " " + title
	}
	lines = append(lines, title)
	if c.Subtitle != "" {
		lines = append(lines, style.Faint.Render(wrap.String(c.Subtitle, inner)))
	}
	if c.Reason != "" {
		lines = append(lines, style.CardReason.Render(wordwrap.String(c.Reason, inner)))
	}
	if c.Link != "" {
		lines = append(lines, style.Link.Render(wrap.String(c.Link, inner)))
	}
	lines = append(lines, feedbackBadge(c.Feedback.Label()))

	body := strings.Join(lines, "\n")
	if selected {
		return style.CardSelected.Render(body)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(body)
}

func feedbackBadge(label string) string {
	switch label {
	case "like":
		return style.FeedbackLike.Render("▲ liked")
	case "dislike":
		return style.FeedbackDis.Render("▼ disliked")
	default:
		return style.FeedbackNone.Render("△ ▽ no feedback")
	}
}
