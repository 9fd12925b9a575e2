package dialog

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
)

// HelpItem is a single key+description pair shown in a help bar.
type HelpItem struct {
	Key  string
	Desc string
}

// RenderHelpBar renders a row of keyboard shortcuts at dialog bottom,
// centered within width.
func RenderHelpBar(items []HelpItem, width int) string {
	if len(items) == 0 {
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, style.DialogHelpKey.Render(item.Key)+style.DialogHelp.Render(" "+item.Desc))
	}
	bar := strings.Join(parts, style.DialogHelp.Render("  ·  "))

	if w := lipgloss.Width(bar); width > w {
		bar = strings.Repeat(" ", (width-w)/2) + bar
	}
	return bar
}

// ---------------------------------------------------------------------------
// InputCursor
// ---------------------------------------------------------------------------

// InputCursor is a minimal single-line text editor with a visible cursor,
// used for the form fields and filter boxes of dialogs.
type InputCursor struct {
	Value   string
	Cursor  int // rune offset into Value
	Focused bool
	Masked  bool
	Width   int
}

// View renders the input with a block cursor at the insertion point.
func (ic InputCursor) View() string {
	runes := []rune(ic.Value)
	if ic.Masked {
		runes = []rune(strings.Repeat("•", len(runes)))
	}
	cur := max(0, min(ic.Cursor, len(runes)))

	left := string(runes[:cur])
	right := runes[cur:]

	var cursor string
	switch {
	case ic.Focused && len(right) > 0:
		cursor = style.ButtonActive.Render(string(right[:1]))
		right = right[1:]
	case ic.Focused:
		cursor = style.ButtonActive.Render(" ")
	}

	st := lipgloss.NewStyle().Foreground(style.Secondary)
	if ic.Width > 0 {
		st = st.Width(ic.Width)
	}
	return st.Render(left + cursor + string(right))
}

// Insert inserts s at the cursor and advances the cursor.
func (ic *InputCursor) Insert(s string) {
	runes := []rune(ic.Value)
	cur := max(0, min(ic.Cursor, len(runes)))
	ins := []rune(s)
	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:cur]...)
	out = append(out, ins...)
	out = append(out, runes[cur:]...)
	ic.Value = string(out)
	ic.Cursor = cur + len(ins)
}

// Backspace deletes the rune before the cursor.
func (ic *InputCursor) Backspace() {
	runes := []rune(ic.Value)
	cur := min(ic.Cursor, len(runes))
	if cur <= 0 {
		return
	}
	ic.Value = string(append(runes[:cur-1], runes[cur:]...))
	ic.Cursor = cur - 1
}

// SetValue replaces the value and moves the cursor to the end.
func (ic *InputCursor) SetValue(s string) {
	ic.Value = s
	ic.Cursor = utf8.RuneCountInString(s)
}

// HandleKey applies an editing key and reports whether it was consumed.
func (ic *InputCursor) HandleKey(kp tea.KeyPressMsg) bool {
	switch kp.Code {
	case tea.KeyBackspace:
		ic.Backspace()
		return true
	case tea.KeyLeft:
		if ic.Cursor > 0 {
			ic.Cursor--
		}
		return true
	case tea.KeyRight:
		if ic.Cursor < utf8.RuneCountInString(ic.Value) {
			ic.Cursor++
		}
		return true
	case tea.KeyHome:
		ic.Cursor = 0
		return true
	case tea.KeyEnd:
		ic.Cursor = utf8.RuneCountInString(ic.Value)
		return true
	}
	if kp.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
		return false
	}
	if kp.Text != "" {
		ic.Insert(kp.Text)
		return true
	}
	if kp.Code >= 32 && kp.Code < 127 {
		ic.Insert(string(kp.Code))
		return true
	}
	return false
}
