package app

// State represents the current application state.
type State int

const (
	StateLogin         State = iota // Login form
	StateRegister                   // Register form
	StateLoading                    // Validating a stored token
	StateChat                       // Ready for input
	StateBusy                       // Request in flight, input disabled
	StateConversations              // Conversations browser
	StateFilePicker                 // File picker for summarize / voice
	StateQuickEvent                 // Quick event form
	StateEvent                      // Agenda event detail
	StateProfile                    // Profiling wizard
	StateHandshake                  // Google Calendar handshake
	StateQuit                       // Quit confirmation
	StatePalette                    // Command palette
)

func (s State) String() string {
	switch s {
	case StateLogin:
		return "login"
	case StateRegister:
		return "register"
	case StateLoading:
		return "loading"
	case StateChat:
		return "chat"
	case StateBusy:
		return "busy"
	case StateConversations:
		return "conversations"
	case StateFilePicker:
		return "file_picker"
	case StateQuickEvent:
		return "quick_event"
	case StateEvent:
		return "event"
	case StateProfile:
		return "profile"
	case StateHandshake:
		return "handshake"
	case StateQuit:
		return "quit"
	case StatePalette:
		return "palette"
	default:
		return "unknown"
	}
}

// IsAuth reports whether s is one of the sign-in screens.
func (s State) IsAuth() bool { return s == StateLogin || s == StateRegister }

// IsDialog reports whether s has a modal dialog open.
func (s State) IsDialog() bool { return s >= StateConversations }
