package dialog

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

// QuitModel is a two-button confirmation dialog.
type QuitModel struct {
	activeBtn int // 0=Quit, 1=Cancel
}

// NewQuit returns a QuitModel with Cancel pre-selected.
func NewQuit() QuitModel {
	return QuitModel{activeBtn: 1}
}

// Title implements Dialog.
func (m QuitModel) Title() string { return "Quit aidesk" }

// Width implements Dialog.
func (m QuitModel) Width() int { return 44 }

// Update handles keyboard input.
//
//	q / enter on Quit   → QuitConfirmed
//	esc / enter on Cancel → close
//	← → / tab           → cycle buttons
func (m QuitModel) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kp.Code {
	case 'q', 'y':
		return nil, func() tea.Msg { return QuitConfirmed{} }
	case tea.KeyEscape, 'n':
		return nil, nil
	case tea.KeyEnter:
		if m.activeBtn == 0 {
			return nil, func() tea.Msg { return QuitConfirmed{} }
		}
		return nil, nil
	case tea.KeyTab, tea.KeyRight, tea.KeyLeft:
		m.activeBtn = (m.activeBtn + 1) % 2
	}
	return m, nil
}

// View renders the prompt and buttons.
func (m QuitModel) View() string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(style.Muted).Render("Are you sure you want to quit?"))
	sb.WriteString("\n\n")
	sb.WriteString(common.ButtonGroup([]common.ButtonItem{
		{Label: "Quit", Shortcut: "q", Danger: true},
		{Label: "Cancel", Shortcut: "esc"},
	}, m.activeBtn))
	sb.WriteString("\n\n")
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "← →", Desc: "navigate"},
		{Key: "enter", Desc: "confirm"},
	}, m.Width()-6))
	return sb.String()
}
