package dialog

import "github.com/miosa/aidesk-tui/client"

// ConversationChosen asks the app to open a conversation.
type ConversationChosen struct {
	ID int
}

// NewConversation asks the app to start an empty conversation.
type NewConversation struct{}

// FilePicked carries the file chosen in the file picker.
type FilePicked struct {
	Path    string
	Purpose Purpose
}

// QuickEventSubmit carries a new event from the quick event dialog.
type QuickEventSubmit struct {
	Event client.EventCreate
}

// EventUpdate asks the app to save changes to an existing event.
type EventUpdate struct {
	ID    string
	Event client.EventCreate
}

// EventDelete asks the app to delete an event.
type EventDelete struct {
	ID string
}

// ProfileSubmit carries the answers of the profiling wizard.
type ProfileSubmit struct {
	Profile client.Profile
}

// ProfileLater is sent when the wizard is closed without saving.
type ProfileLater struct{}

// HandshakeCancel asks the app to abort the calendar handshake.
type HandshakeCancel struct{}

// QuitConfirmed signals the user confirmed the quit prompt.
type QuitConfirmed struct{}

// LoginSubmit carries the credentials of the login form.
type LoginSubmit struct {
	Username string
	Password string
}

// RegisterSubmit carries the credentials of the register form.
type RegisterSubmit struct {
	Username string
	Password string
}
