// Package status renders the one-line status bar under the input.
package status

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
)

// Model is the status bar state. Drive it via setters; it has no Update.
type Model struct {
	mode           string
	conversationID int
	rows           int
	following      bool
	busy           string
	hints          string
	width          int
}

// New returns an empty status bar.
func New() Model {
	return Model{following: true}
}

// SetMode sets the input mode pill ("chat", "search", ...).
func (m *Model) SetMode(mode string) { m.mode = mode }

// SetConversation sets the open conversation id; 0 means a new one.
func (m *Model) SetConversation(id, rows int) {
	m.conversationID = id
	m.rows = rows
}

// SetFollowing reports whether the chat list sticks to the newest row.
func (m *Model) SetFollowing(f bool) { m.following = f }

// SetBusy shows the spinner view in place of the hints; "" clears it.
func (m *Model) SetBusy(view string) { m.busy = view }

// SetHints sets the right-hand key help.
func (m *Model) SetHints(h string) { m.hints = h }

// SetWidth sets the available width.
func (m *Model) SetWidth(w int) { m.width = w }

// View renders "[MODE] Conv 12 · 8 messages · ↓ new below      hints".
func (m Model) View() string {
	var left []string
	if m.mode != "" {
		left = append(left, style.StatusMode.Render(strings.ToUpper(m.mode)))
	}
	conv := "New conversation"
	if m.conversationID > 0 {
		conv = fmt.Sprintf("Conv %d", m.conversationID)
	}
	info := conv
	if m.rows > 0 {
		info += fmt.Sprintf(" · %d messages", m.rows)
	}
	if !m.following {
		info += " · ↓ new below"
	}
	left = append(left, style.StatusBar.Render(info))
	l := strings.Join(left, " ")

	right := m.hints
	if m.busy != "" {
		right = m.busy
	}
	gap := m.width - lipgloss.Width(l) - lipgloss.Width(right)
	if gap < 1 {
		return l
	}
	return l + strings.Repeat(" ", gap) + right
}
