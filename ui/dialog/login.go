package dialog

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/logo"
)

// AuthMode selects between the login and the register form.
type AuthMode int

const (
	AuthLogin AuthMode = iota
	AuthRegister
)

func (m AuthMode) String() string {
	if m == AuthRegister {
		return "Create account"
	}
	return "Sign in"
}

// AuthModel is the full-screen login/register form.
//
// tab switches field, enter submits, ctrl+r toggles between login and
// register. Emits LoginSubmit or RegisterSubmit.
type AuthModel struct {
	mode     AuthMode
	username InputCursor
	password InputCursor
	focus    int
	busy     bool
	err      string
	notice   string
	server   string
	version  string
	width    int
	height   int
}

// NewAuth returns the login form. server is shown under the form.
func NewAuth(server, version string) AuthModel {
	return AuthModel{
		username: InputCursor{Focused: true, Width: 30},
		password: InputCursor{Masked: true, Width: 30},
		server:   server,
		version:  version,
	}
}

// SetSize updates the terminal dimensions.
func (m *AuthModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Mode returns the current form.
func (m AuthModel) Mode() AuthMode { return m.mode }

// SetMode switches the form, keeping the username.
func (m *AuthModel) SetMode(mode AuthMode) {
	m.mode = mode
	m.err = ""
	m.password.SetValue("")
}

// SetBusy disables submitting while a request runs.
func (m *AuthModel) SetBusy(b bool) { m.busy = b }

// SetError shows err under the form and clears the password.
func (m *AuthModel) SetError(err error) {
	m.busy = false
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
	m.password.SetValue("")
}

// SetNotice shows an informational line, as after a session expired.
func (m *AuthModel) SetNotice(s string) { m.notice = s }

// SetUsername prefills the username field.
func (m *AuthModel) SetUsername(u string) { m.username.SetValue(u) }

// Update handles keyboard input.
func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kp.String() {
	case "tab", "shift+tab", "up", "down":
		m.setFocus(1 - m.focus)
		return m, nil
	case "ctrl+r":
		if m.mode == AuthLogin {
			m.SetMode(AuthRegister)
		} else {
			m.SetMode(AuthLogin)
		}
		return m, nil
	case "enter":
		if m.focus == 0 && m.password.Value == "" {
			m.setFocus(1)
			return m, nil
		}
		return m.submit()
	}

	if m.focus == 0 {
		m.username.HandleKey(kp)
	} else {
		m.password.HandleKey(kp)
	}
	return m, nil
}

func (m *AuthModel) setFocus(f int) {
	m.focus = f
	m.username.Focused = f == 0
	m.password.Focused = f == 1
}

func (m AuthModel) submit() (AuthModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	user := strings.TrimSpace(m.username.Value)
	pass := m.password.Value
	if user == "" || pass == "" {
		m.err = "username and password are required"
		return m, nil
	}
	m.busy = true
	m.err = ""
	if m.mode == AuthRegister {
		return m, func() tea.Msg { return RegisterSubmit{Username: user, Password: pass} }
	}
	return m, func() tea.Msg { return LoginSubmit{Username: user, Password: pass} }
}

// View renders the centered form.
func (m AuthModel) View() string {
	var sb strings.Builder
	sb.WriteString(logo.Render(m.width) + "\n")
	sb.WriteString(logo.Tagline() + "\n\n")
	sb.WriteString(style.DialogTitle.Render(m.mode.String()) + "\n\n")
	sb.WriteString(style.DialogLabel.Render("Username") + m.username.View() + "\n")
	sb.WriteString(style.DialogLabel.Render("Password") + m.password.View() + "\n\n")

	switch {
	case m.busy:
		sb.WriteString(style.Hint.Render("working…") + "\n")
	case m.err != "":
		sb.WriteString(style.ErrorText.Render(m.err) + "\n")
	case m.notice != "":
		sb.WriteString(style.NoticeText.Render(m.notice) + "\n")
	default:
		sb.WriteString("\n")
	}

	other := "create account"
	if m.mode == AuthRegister {
		other = "back to sign in"
	}
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "tab", Desc: "switch field"},
		{Key: "enter", Desc: "submit"},
		{Key: "ctrl+r", Desc: other},
	}, 0))
	sb.WriteString("\n")
	sb.WriteString(style.MsgMeta.Render(m.server) + "  " + logo.Version(m.version))

	box := style.DialogBorder.Render(sb.String())
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
