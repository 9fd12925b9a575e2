package app

// LayoutMode determines the visual layout.
type LayoutMode int

const (
	LayoutCompact LayoutMode = iota // Header + Chat + Status + Input
	LayoutSidebar                   // Header + [Sidebar | Chat] + Status + Input
)

const (
	// compactModeBreakpoint is the terminal width below which the sidebar
	// is hidden regardless of the user preference.
	compactModeBreakpoint = 90

	sidebarMinWidth = 26
	sidebarMaxWidth = 38

	chatMinWidth = 40
)

// Layout holds computed dimensions for the current frame.
type Layout struct {
	Mode          LayoutMode
	TermWidth     int
	TermHeight    int
	HeaderHeight  int // header line + separator
	StatusHeight  int
	InputHeight   int
	ChatWidth     int
	ChatHeight    int
	SidebarWidth  int // 0 in compact mode
	SidebarHeight int
	CompactMode   bool // terminal too narrow for the sidebar
}

// ComputeLayout calculates the layout dimensions from the terminal size,
// the preferred mode and the current input height.
//
//   - Below compactModeBreakpoint columns the sidebar is hidden.
//   - Sidebar width is a quarter of the terminal, clamped to
//     [sidebarMinWidth, sidebarMaxWidth].
//   - The chat pane gets what is left after header, status and input.
func ComputeLayout(termW, termH int, mode LayoutMode, inputLines int) Layout {
	l := Layout{
		TermWidth:    termW,
		TermHeight:   termH,
		HeaderHeight: 2,
		StatusHeight: 1,
		InputHeight:  max(2, inputLines),
	}

	effective := mode
	if termW < compactModeBreakpoint {
		effective = LayoutCompact
		l.CompactMode = true
	}

	if effective == LayoutSidebar {
		l.Mode = LayoutSidebar
		l.SidebarWidth = min(sidebarMaxWidth, max(sidebarMinWidth, termW/4))
		l.ChatWidth = termW - l.SidebarWidth
	} else {
		l.Mode = LayoutCompact
		l.ChatWidth = termW
	}
	if l.ChatWidth < chatMinWidth && l.Mode == LayoutSidebar {
		l.ChatWidth = chatMinWidth
	}

	l.ChatHeight = max(3, termH-l.HeaderHeight-l.StatusHeight-l.InputHeight)
	l.SidebarHeight = l.ChatHeight
	return l
}
