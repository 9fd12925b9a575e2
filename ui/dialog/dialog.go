// Package dialog provides the modal overlays of the chat screen and the
// full-screen login form.
//
// Dialogs pushed onto an Overlay implement Dialog. A dialog dismisses
// itself by returning nil from Update; results travel as messages returned
// from the command.
package dialog

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

// ---------------------------------------------------------------------------
// Dialog interface
// ---------------------------------------------------------------------------

// Dialog is the interface all stackable dialogs implement.
type Dialog interface {
	// Update handles messages and returns the updated dialog plus any
	// commands. A nil Dialog means the dialog closed itself.
	Update(msg tea.Msg) (Dialog, tea.Cmd)
	// View returns the rendered inner content without the frame.
	View() string
	// Width returns the desired inner dialog width.
	Width() int
	// Title returns the title shown in the frame header.
	Title() string
}

// ---------------------------------------------------------------------------
// Overlay
// ---------------------------------------------------------------------------

// Overlay manages a stack of dialogs rendered as centered modals. The last
// pushed dialog is active.
type Overlay struct {
	stack []Dialog
	termW int
	termH int
}

// NewOverlay returns an empty Overlay.
func NewOverlay() Overlay {
	return Overlay{}
}

// Push places d on top of the stack.
func (o *Overlay) Push(d Dialog) {
	o.stack = append(o.stack, d)
}

// Pop removes and returns the top dialog, or nil.
func (o *Overlay) Pop() Dialog {
	if len(o.stack) == 0 {
		return nil
	}
	top := o.stack[len(o.stack)-1]
	o.stack = o.stack[:len(o.stack)-1]
	return top
}

// Clear removes every dialog.
func (o *Overlay) Clear() {
	o.stack = nil
}

// IsActive reports whether a dialog is open.
func (o Overlay) IsActive() bool { return len(o.stack) > 0 }

// Top returns the active dialog, or nil.
func (o Overlay) Top() Dialog {
	if len(o.stack) == 0 {
		return nil
	}
	return o.stack[len(o.stack)-1]
}

// SetSize updates the terminal dimensions used for centering.
func (o *Overlay) SetSize(w, h int) {
	o.termW = w
	o.termH = h
}

// Update forwards msg to the active dialog and pops it when it closes.
func (o Overlay) Update(msg tea.Msg) (Overlay, tea.Cmd) {
	if !o.IsActive() {
		return o, nil
	}
	stack := make([]Dialog, len(o.stack))
	copy(stack, o.stack)
	o.stack = stack

	updated, cmd := o.stack[len(o.stack)-1].Update(msg)
	if updated == nil {
		o.stack = o.stack[:len(o.stack)-1]
	} else {
		o.stack[len(o.stack)-1] = updated
	}
	return o, cmd
}

// View places the active dialog as a bordered modal centered over the
// terminal, or returns behind when no dialog is open.
func (o Overlay) View(behind string) string {
	d := o.Top()
	if d == nil {
		return behind
	}

	boxW := max(24, min(d.Width(), o.termW-4))
	inner := common.DialogTitle(d.Title(), boxW-6) + "\n\n" + d.View()

	box := style.DialogBorder.
		Padding(1, 2).
		Width(boxW).
		Render(inner)
	return lipgloss.Place(max(o.termW, boxW), max(o.termH, 1), lipgloss.Center, lipgloss.Center, box)
}
