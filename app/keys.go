package app

import "charm.land/bubbles/v2/key"

// KeyMap defines all global keybindings.
type KeyMap struct {
	// Global
	Submit  key.Binding
	Cancel  key.Binding
	QuitEOF key.Binding
	Escape  key.Binding
	Help    key.Binding
	Palette key.Binding

	// Navigation
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	ScrollTop    key.Binding
	ScrollBottom key.Binding

	// Selection
	SelectPrev key.Binding
	SelectNext key.Binding
	Like       key.Binding
	Dislike    key.Binding
	CardPrev   key.Binding
	CardNext   key.Binding
	Copy       key.Binding
	OpenLink   key.Binding

	// Input modes
	ToggleSearch key.Binding
	Summarize    key.Binding
	Voice        key.Binding

	// Conversations
	NewConversation key.Binding
	Conversations   key.Binding

	// Calendar
	Calendar      key.Binding
	QuickEvent    key.Binding
	FocusAgenda   key.Binding
	ToggleSidebar key.Binding

	// Account
	Profile key.Binding
	Logout  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "clear/quit"),
		),
		QuitEOF: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Palette: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "commands"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "half page down"),
		),
		ScrollTop: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "scroll top"),
		),
		ScrollBottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "scroll bottom"),
		),
		SelectPrev: key.NewBinding(
			key.WithKeys("alt+up"),
			key.WithHelp("alt+↑", "select previous"),
		),
		SelectNext: key.NewBinding(
			key.WithKeys("alt+down"),
			key.WithHelp("alt+↓", "select next"),
		),
		Like: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "like"),
		),
		Dislike: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "dislike"),
		),
		CardPrev: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous card"),
		),
		CardNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next card"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		ToggleSearch: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "search mode"),
		),
		Summarize: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "summarize file"),
		),
		Voice: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "voice file"),
		),
		NewConversation: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new conversation"),
		),
		Conversations: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "conversations"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "connect calendar"),
		),
		QuickEvent: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "quick event"),
		),
		FocusAgenda: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "agenda"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle sidebar"),
		),
		Profile: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "edit profile"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
	}
}

// HelpBindings lists the bindings shown by F1, in display order.
func (k KeyMap) HelpBindings() []key.Binding {
	return []key.Binding{
		k.Submit, k.Palette, k.ToggleSearch, k.Summarize, k.Voice,
		k.NewConversation, k.Conversations,
		k.SelectPrev, k.SelectNext, k.Like, k.Dislike, k.CardPrev, k.CardNext, k.Copy, k.OpenLink,
		k.PageUp, k.PageDown, k.ScrollTop, k.ScrollBottom,
		k.FocusAgenda, k.QuickEvent, k.Calendar, k.ToggleSidebar,
		k.Profile, k.Logout, k.Cancel,
	}
}
