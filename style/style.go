// Package style holds the client's colors and lipgloss styles. All styles
// are package variables rebuilt whenever the theme changes.
package style

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors, initialised to the dark theme. Updated via SetTheme.
var (
	Primary   color.Color = darkTheme.Primary
	Secondary color.Color = darkTheme.Secondary
	Success   color.Color = darkTheme.Success
	Warning   color.Color = darkTheme.Warning
	Error     color.Color = darkTheme.Error
	Muted     color.Color = darkTheme.Muted
	Dim       color.Color = darkTheme.Dim
	Border    color.Color = darkTheme.Border

	UserBorder      color.Color = darkTheme.UserBorder
	AssistantBorder color.Color = darkTheme.AssistantBorder
	NoticeBorder    color.Color = darkTheme.NoticeBorder
	SelectedBorder  color.Color = darkTheme.SelectedBorder

	CardBgColor          color.Color = darkTheme.CardBg
	SidebarBgColor       color.Color = darkTheme.SidebarBg
	DialogBgColor        color.Color = darkTheme.DialogBg
	SelectionBgColor     color.Color = darkTheme.SelectionBg
	ButtonActiveBgColor  color.Color = darkTheme.ButtonActiveBg
	ButtonActiveTxtColor color.Color = darkTheme.ButtonActiveText

	GradColorA color.Color = darkTheme.GradA
	GradColorB color.Color = darkTheme.GradB

	// GlamourStyle names the glamour standard style matching the theme.
	GlamourStyle = darkTheme.GlamourStyle
)

// Base styles, rebuilt when the theme changes.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style
	Hint      lipgloss.Style
	Link      lipgloss.Style

	// Chat rows
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	NoticeText     lipgloss.Style
	MsgMeta        lipgloss.Style
	EmptyState     lipgloss.Style

	// Cards and feedback
	CardTitle    lipgloss.Style
	CardType     lipgloss.Style
	CardReason   lipgloss.Style
	CardSelected lipgloss.Style
	FeedbackLike lipgloss.Style
	FeedbackDis  lipgloss.Style
	FeedbackNone lipgloss.Style

	// Header and status bar
	HeaderTitle     lipgloss.Style
	HeaderUser      lipgloss.Style
	HeaderSeparator lipgloss.Style
	StatusBar       lipgloss.Style
	StatusMode      lipgloss.Style
	SpinnerStyle    lipgloss.Style

	// Sidebar
	SidebarStyle     lipgloss.Style
	SidebarTitle     lipgloss.Style
	SidebarLabel     lipgloss.Style
	SidebarValue     lipgloss.Style
	SidebarSelected  lipgloss.Style
	SidebarSeparator lipgloss.Style

	// Input
	InputBorder      lipgloss.Style
	InputPlaceholder lipgloss.Style
	PromptChar       lipgloss.Style

	// Help
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Dialog
	DialogBorder  lipgloss.Style
	DialogTitle   lipgloss.Style
	DialogHelp    lipgloss.Style
	DialogHelpKey lipgloss.Style
	DialogLabel   lipgloss.Style

	// Buttons
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
	ButtonDanger   lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Scrollbar
	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style

	// Choice lists
	RadioOn      lipgloss.Style
	RadioOff     lipgloss.Style
	ListSelected lipgloss.Style
	ListNormal   lipgloss.Style
)

func init() {
	rebuildStyles()
}

// SetTheme applies a named theme and rebuilds every style. It reports false
// for an unknown name and leaves the current theme in place.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if !ok {
		return false
	}
	CurrentThemeName = name
	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border
	UserBorder = t.UserBorder
	AssistantBorder = t.AssistantBorder
	NoticeBorder = t.NoticeBorder
	SelectedBorder = t.SelectedBorder
	CardBgColor = t.CardBg
	SidebarBgColor = t.SidebarBg
	DialogBgColor = t.DialogBg
	SelectionBgColor = t.SelectionBg
	ButtonActiveBgColor = t.ButtonActiveBg
	ButtonActiveTxtColor = t.ButtonActiveText
	GradColorA = t.GradA
	GradColorB = t.GradB
	GlamourStyle = t.GlamourStyle
	rebuildStyles()
	return true
}

// IsDark returns whether the current theme is dark.
func IsDark() bool {
	return CurrentThemeName != "light"
}

func rebuildStyles() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Hint = lipgloss.NewStyle().Foreground(Dim)
	Link = lipgloss.NewStyle().Foreground(Secondary).Underline(true)

	UserLabel = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	AssistantLabel = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	NoticeText = lipgloss.NewStyle().Foreground(Muted)
	MsgMeta = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	EmptyState = lipgloss.NewStyle().Foreground(Muted).Italic(true)

	CardTitle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	CardType = lipgloss.NewStyle().Foreground(Warning)
	CardReason = lipgloss.NewStyle().Foreground(Muted)
	CardSelected = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(SelectedBorder).
		PaddingLeft(1)
	FeedbackLike = lipgloss.NewStyle().Foreground(Success).Bold(true)
	FeedbackDis = lipgloss.NewStyle().Foreground(Error).Bold(true)
	FeedbackNone = lipgloss.NewStyle().Foreground(Dim)

	HeaderTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HeaderUser = lipgloss.NewStyle().Foreground(Secondary)
	HeaderSeparator = lipgloss.NewStyle().Foreground(Dim)
	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusMode = lipgloss.NewStyle().Foreground(ButtonActiveTxtColor).Background(Primary).Bold(true).Padding(0, 1)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Primary)

	SidebarStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Border).
		PaddingLeft(1).PaddingRight(1)
	SidebarTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	SidebarLabel = lipgloss.NewStyle().Foreground(Muted)
	SidebarValue = lipgloss.NewStyle().Foreground(Secondary)
	SidebarSelected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	SidebarSeparator = lipgloss.NewStyle().Foreground(Dim)

	InputBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	InputPlaceholder = lipgloss.NewStyle().Foreground(Dim)
	PromptChar = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	HelpKey = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	HelpDesc = lipgloss.NewStyle().Foreground(Muted)
	HelpSeparator = lipgloss.NewStyle().Foreground(Dim)

	DialogBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(DialogBgColor).
		Padding(1, 2)
	DialogTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	DialogHelp = lipgloss.NewStyle().Foreground(Muted)
	DialogHelpKey = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	DialogLabel = lipgloss.NewStyle().Foreground(Muted).Width(10)

	ButtonActive = lipgloss.NewStyle().
		Foreground(ButtonActiveTxtColor).
		Background(ButtonActiveBgColor).
		Bold(true).
		Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
		Foreground(Muted).
		Background(Dim).
		Padding(0, 2)
	ButtonDanger = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(Error).
		Bold(true).
		Padding(0, 2)
	ButtonDisabled = lipgloss.NewStyle().
		Foreground(Dim).
		Strikethrough(true).
		Padding(0, 2)

	ScrollbarThumb = lipgloss.NewStyle().Foreground(Primary)
	ScrollbarTrack = lipgloss.NewStyle().Foreground(Dim)

	RadioOn = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	RadioOff = lipgloss.NewStyle().Foreground(Muted)
	ListSelected = lipgloss.NewStyle().Foreground(Primary).Background(SelectionBgColor).Bold(true)
	ListNormal = lipgloss.NewStyle().Foreground(Muted)
}
