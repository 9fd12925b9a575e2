package dialog

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/muesli/reflow/wrap"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/anim"
)

// HandshakeModel is shown while the calendar connect handshake waits for
// the user to finish consent in the browser. Esc cancels it.
type HandshakeModel struct {
	url     string
	spinner anim.Model
	timeout time.Duration
}

// NewHandshake returns the dialog. Start the spinner with Init.
func NewHandshake(timeout time.Duration) HandshakeModel {
	return HandshakeModel{spinner: anim.New(), timeout: timeout}
}

// Init starts the spinner.
func (m *HandshakeModel) Init() tea.Cmd {
	return m.spinner.Start("waiting for consent")
}

// URL returns the consent URL once known.
func (m HandshakeModel) URL() string { return m.url }

// SetURL shows the consent URL for manual opening.
func (m *HandshakeModel) SetURL(u string) { m.url = u }

// Title implements Dialog.
func (m HandshakeModel) Title() string { return "Connect Google Calendar" }

// Width implements Dialog.
func (m HandshakeModel) Width() int { return 66 }

// Update animates the spinner and handles esc.
func (m HandshakeModel) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	switch msg := msg.(type) {
	case anim.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return nil, func() tea.Msg { return HandshakeCancel{} }
		}
	}
	return m, nil
}

// View renders the progress and the URL.
func (m HandshakeModel) View() string {
	w := m.Width() - 6
	var sb strings.Builder
	sb.WriteString(m.spinner.View() + "\n\n")
	sb.WriteString(style.Faint.Render("Finish the sign-in in your browser. If it did not open, visit:") + "\n")
	if m.url == "" {
		sb.WriteString(style.Hint.Render("requesting link…"))
	} else {
		sb.WriteString(style.Link.Render(wrap.String(m.url, w)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "esc", Desc: fmt.Sprintf("cancel (gives up after %s)", m.timeout.Round(time.Second))},
	}, w))
	return sb.String()
}
