package app

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/miosa/aidesk-tui/msg"
	"github.com/miosa/aidesk-tui/ui/chat"
	"github.com/miosa/aidesk-tui/ui/dialog"
)

// Palette actions.
const (
	actionNewConversation = "new-conversation"
	actionConversations   = "conversations"
	actionSearch          = "search"
	actionSummarize       = "summarize"
	actionVoice           = "voice"
	actionCalendar        = "calendar"
	actionQuickEvent      = "quick-event"
	actionAgenda          = "agenda"
	actionSidebar         = "sidebar"
	actionProfile         = "profile"
	actionHelp            = "help"
	actionLogout          = "logout"
	actionQuit            = "quit"
)

// paletteItems lists the actions offered by the command palette. Actions
// that need the prompt are left out while a request is in flight.
func (m Model) paletteItems() []dialog.PaletteItem {
	item := func(action, category string, b key.Binding) dialog.PaletteItem {
		h := b.Help()
		return dialog.PaletteItem{Action: action, Name: h.Desc, Key: h.Key, Category: category}
	}
	k := m.keys
	var items []dialog.PaletteItem
	if m.state != StateBusy {
		items = append(items,
			item(actionNewConversation, "chat", k.NewConversation),
			item(actionConversations, "chat", k.Conversations),
			item(actionSearch, "chat", k.ToggleSearch),
			item(actionSummarize, "files", k.Summarize),
			item(actionVoice, "files", k.Voice),
			item(actionCalendar, "calendar", k.Calendar),
			item(actionQuickEvent, "calendar", k.QuickEvent),
		)
		if m.layout.SidebarWidth > 0 {
			items = append(items, item(actionAgenda, "calendar", k.FocusAgenda))
		}
		items = append(items,
			item(actionProfile, "account", k.Profile),
			item(actionLogout, "account", k.Logout),
		)
	}
	items = append(items,
		item(actionSidebar, "view", k.ToggleSidebar),
		item(actionHelp, "view", k.Help),
		dialog.PaletteItem{Action: actionQuit, Name: "quit", Key: "ctrl+c", Category: "app"},
	)
	return items
}

func (m Model) openPalette() (Model, tea.Cmd) {
	return m.openDialog(dialog.NewPalette(m.paletteItems()), StatePalette), nil
}

// runAction performs a palette action. The palette has already closed.
func (m Model) runAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case actionSidebar:
		return m.Update(msg.ToggleSidebar{})
	case actionHelp:
		return m, m.chat.AppendNotice(m.helpText(), chat.LevelInfo)
	case actionQuit:
		return m.openDialog(dialog.NewQuit(), StateQuit), nil
	}

	if m.state != StateChat {
		return m, nil
	}
	switch action {
	case actionNewConversation:
		m.newConversation()
		return m, nil
	case actionConversations:
		return m.openConversations()
	case actionSearch:
		m.input.ToggleSearch()
		return m, nil
	case actionSummarize:
		return m.openFilePicker(dialog.PurposeSummarize)
	case actionVoice:
		return m.openFilePicker(dialog.PurposeVoice)
	case actionCalendar:
		return m.toggleCalendar()
	case actionQuickEvent:
		return m.openQuickEvent()
	case actionAgenda:
		if m.layout.SidebarWidth > 0 {
			m.sidebar.Focus()
			m.input.Blur()
		}
		return m, nil
	case actionProfile:
		return m.openProfile()
	case actionLogout:
		return m.logout()
	}
	return m, nil
}
