package style

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme is a complete color palette for the client.
type Theme struct {
	Name                             string
	Primary, Secondary               color.Color
	Success, Warning, Error          color.Color
	Muted, Dim, Border               color.Color
	UserBorder, AssistantBorder      color.Color
	NoticeBorder, SelectedBorder     color.Color
	CardBg, SidebarBg, DialogBg      color.Color
	SelectionBg                      color.Color
	ButtonActiveBg, ButtonActiveText color.Color
	GradA, GradB                     color.Color
	GlamourStyle                     string
}

var (
	darkTheme = Theme{
		Name:             "dark",
		Primary:          lipgloss.Color("#7C3AED"),
		Secondary:        lipgloss.Color("#06B6D4"),
		Success:          lipgloss.Color("#22C55E"),
		Warning:          lipgloss.Color("#F59E0B"),
		Error:            lipgloss.Color("#EF4444"),
		Muted:            lipgloss.Color("#6B7280"),
		Dim:              lipgloss.Color("#374151"),
		Border:           lipgloss.Color("#4B5563"),
		UserBorder:       lipgloss.Color("#06B6D4"),
		AssistantBorder:  lipgloss.Color("#7C3AED"),
		NoticeBorder:     lipgloss.Color("#374151"),
		SelectedBorder:   lipgloss.Color("#F59E0B"),
		CardBg:           lipgloss.Color("#1F2937"),
		SidebarBg:        lipgloss.Color("#1F2937"),
		DialogBg:         lipgloss.Color("#1F2937"),
		SelectionBg:      lipgloss.Color("#312E81"),
		ButtonActiveBg:   lipgloss.Color("#7C3AED"),
		ButtonActiveText: lipgloss.Color("#FFFFFF"),
		GradA:            lipgloss.Color("#7C3AED"),
		GradB:            lipgloss.Color("#06B6D4"),
		GlamourStyle:     "dark",
	}

	lightTheme = Theme{
		Name:             "light",
		Primary:          lipgloss.Color("#6D28D9"),
		Secondary:        lipgloss.Color("#0891B2"),
		Success:          lipgloss.Color("#16A34A"),
		Warning:          lipgloss.Color("#D97706"),
		Error:            lipgloss.Color("#DC2626"),
		Muted:            lipgloss.Color("#6B7280"),
		Dim:              lipgloss.Color("#D1D5DB"),
		Border:           lipgloss.Color("#9CA3AF"),
		UserBorder:       lipgloss.Color("#0891B2"),
		AssistantBorder:  lipgloss.Color("#6D28D9"),
		NoticeBorder:     lipgloss.Color("#D1D5DB"),
		SelectedBorder:   lipgloss.Color("#D97706"),
		CardBg:           lipgloss.Color("#F3F4F6"),
		SidebarBg:        lipgloss.Color("#F3F4F6"),
		DialogBg:         lipgloss.Color("#F9FAFB"),
		SelectionBg:      lipgloss.Color("#DDD6FE"),
		ButtonActiveBg:   lipgloss.Color("#6D28D9"),
		ButtonActiveText: lipgloss.Color("#FFFFFF"),
		GradA:            lipgloss.Color("#6D28D9"),
		GradB:            lipgloss.Color("#0891B2"),
		GlamourStyle:     "light",
	}
)

// Themes maps theme names to their definitions.
var Themes = map[string]Theme{
	"dark":  darkTheme,
	"light": lightTheme,
}

// ThemeNames lists available themes in display order.
var ThemeNames = []string{"dark", "light"}

// CurrentThemeName tracks the active theme name.
var CurrentThemeName = "dark"
