package app

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/miosa/aidesk-tui/msg"
	"github.com/miosa/aidesk-tui/ui/chat"
	"github.com/miosa/aidesk-tui/ui/dialog"
	"github.com/miosa/aidesk-tui/ui/toast"
)

func (m Model) handleKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.state.IsAuth():
		return m.handleAuthKey(k)
	case m.state == StateLoading:
		if key.Matches[tea.KeyPressMsg](k, m.keys.Cancel) {
			return m, tea.Quit
		}
		return m, nil
	case m.overlay.IsActive():
		return m.handleDialogKey(k)
	case m.sidebar.Focused():
		return m.handleAgendaKey(k)
	case m.chat.Selected() != nil:
		if handled, next, cmd := m.handleSelectionKey(k); handled {
			return next, cmd
		}
	}
	return m.handleChatKey(k)
}

func (m Model) handleAuthKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches[tea.KeyPressMsg](k, m.keys.Cancel) {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.authForm, cmd = m.authForm.Update(k)
	if m.authForm.Mode() == dialog.AuthRegister {
		m.state = StateRegister
	} else {
		m.state = StateLogin
	}
	return m, cmd
}

// handleDialogKey forwards k to the open dialog and returns to the chat
// once it closes.
func (m Model) handleDialogKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(k)
	if !m.overlay.IsActive() {
		m = m.closeDialog()
	}
	return m, cmd
}

func (m Model) handleAgendaKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "up", "k":
		m.sidebar.MoveUp()
	case "down", "j":
		m.sidebar.MoveDown()
	case "enter":
		if ev, ok := m.sidebar.Selected(); ok {
			m.sidebar.Blur()
			return m.openDialog(dialog.NewEvent(ev, m.cfg.Location()), StateEvent), nil
		}
	case "n":
		m.sidebar.Blur()
		return m.openQuickEvent()
	case "esc", "tab":
		m.sidebar.Blur()
		if m.state == StateChat {
			return m, m.input.Focus()
		}
	case "ctrl+c":
		return m.handleChatKey(k)
	}
	return m, nil
}

// handleSelectionKey handles the keys acting on the selected row. It
// reports false for keys it leaves to the chat handler.
func (m Model) handleSelectionKey(k tea.KeyPressMsg) (bool, tea.Model, tea.Cmd) {
	row := m.chat.Selected()
	switch {
	case key.Matches[tea.KeyPressMsg](k, m.keys.Escape):
		m.chat.ClearSelection()
		return true, m, nil

	case key.Matches[tea.KeyPressMsg](k, m.keys.Like):
		next, cmd := m.rate("like")
		return true, next, cmd

	case key.Matches[tea.KeyPressMsg](k, m.keys.Dislike):
		next, cmd := m.rate("dislike")
		return true, next, cmd

	case key.Matches[tea.KeyPressMsg](k, m.keys.CardPrev):
		m.chat.CardPrev()
		return true, m, nil

	case key.Matches[tea.KeyPressMsg](k, m.keys.CardNext):
		m.chat.CardNext()
		return true, m, nil

	case key.Matches[tea.KeyPressMsg](k, m.keys.Copy):
		return true, m, copyText(row.Text())

	case key.Matches[tea.KeyPressMsg](k, m.keys.OpenLink):
		card, ok := row.SelectedCard()
		if !ok && len(row.Cards()) > 0 {
			card, ok = row.Cards()[0], true
		}
		if !ok || card.Link == "" {
			return true, m, m.notify("Nothing to open", toast.Warning)
		}
		return true, m, openLink(m.open, card.Link)
	}
	return false, m, nil
}

func (m Model) handleChatKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	busy := m.state == StateBusy
	empty := m.input.Value() == ""

	switch {
	case key.Matches[tea.KeyPressMsg](k, m.keys.Cancel):
		if !busy && !empty {
			m.input.Reset()
			return m, m.recomputeLayout()
		}
		return m.openDialog(dialog.NewQuit(), StateQuit), nil

	case key.Matches[tea.KeyPressMsg](k, m.keys.QuitEOF):
		if empty && !busy {
			return m, tea.Quit
		}

	case key.Matches[tea.KeyPressMsg](k, m.keys.Submit):
		if busy {
			return m, nil
		}
		return m.submit()

	case key.Matches[tea.KeyPressMsg](k, m.keys.Escape):
		if !busy {
			m.input.Reset()
			return m, m.recomputeLayout()
		}
		return m, nil

	case key.Matches[tea.KeyPressMsg](k, m.keys.Help):
		return m, m.chat.AppendNotice(m.helpText(), chat.LevelInfo)

	case key.Matches[tea.KeyPressMsg](k, m.keys.Palette):
		return m.openPalette()

	// -- Selection and scrolling --

	case key.Matches[tea.KeyPressMsg](k, m.keys.SelectPrev):
		return m, m.chat.SelectPrev()

	case key.Matches[tea.KeyPressMsg](k, m.keys.SelectNext):
		return m, m.chat.SelectNext()

	case key.Matches[tea.KeyPressMsg](k, m.keys.PageUp):
		return m, m.chat.PageUp()

	case key.Matches[tea.KeyPressMsg](k, m.keys.PageDown):
		return m, m.chat.PageDown()

	case key.Matches[tea.KeyPressMsg](k, m.keys.HalfPageUp):
		return m, m.chat.HalfPageUp()

	case key.Matches[tea.KeyPressMsg](k, m.keys.HalfPageDown):
		return m, m.chat.HalfPageDown()

	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollTop):
		if empty || busy {
			return m, m.chat.ScrollToTop()
		}

	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollBottom):
		if empty || busy {
			return m, m.chat.ScrollToBottom()
		}

	case key.Matches[tea.KeyPressMsg](k, m.keys.ToggleSidebar):
		return m.Update(msg.ToggleSidebar{})
	}

	if busy {
		return m, nil
	}

	switch {
	case key.Matches[tea.KeyPressMsg](k, m.keys.ToggleSearch):
		m.input.ToggleSearch()
		return m, nil

	case key.Matches[tea.KeyPressMsg](k, m.keys.Summarize):
		return m.openFilePicker(dialog.PurposeSummarize)

	case key.Matches[tea.KeyPressMsg](k, m.keys.Voice):
		return m.openFilePicker(dialog.PurposeVoice)

	case key.Matches[tea.KeyPressMsg](k, m.keys.NewConversation):
		m.newConversation()
		return m, nil

	case key.Matches[tea.KeyPressMsg](k, m.keys.Conversations):
		return m.openConversations()

	case key.Matches[tea.KeyPressMsg](k, m.keys.Calendar):
		return m.toggleCalendar()

	case key.Matches[tea.KeyPressMsg](k, m.keys.QuickEvent):
		return m.openQuickEvent()

	case key.Matches[tea.KeyPressMsg](k, m.keys.FocusAgenda):
		if m.layout.SidebarWidth > 0 && empty {
			m.sidebar.Focus()
			m.input.Blur()
			return m, nil
		}

	case key.Matches[tea.KeyPressMsg](k, m.keys.Profile):
		return m.openProfile()

	case key.Matches[tea.KeyPressMsg](k, m.keys.Logout):
		return m.logout()
	}

	// Fall through: forward to input for text editing.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, tea.Batch(cmd, m.recomputeLayout())
}
