// Package logo renders the aidesk wordmark for the login screen.
package logo

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
)

// FullLogo is the block-letter wordmark.
const FullLogo = ` ▄▀█ █ █▀▄ █▀▀ █▀ █▄▀
 █▀█ █ █▄▀ ██▄ ▄█ █ █`

// CompactLogo is used when the terminal is too narrow for FullLogo.
const CompactLogo = "◆ aidesk"

const fullLogoMinWidth = 30

// Render returns the wordmark in the theme gradient, compact below
// fullLogoMinWidth columns.
func Render(width int) string {
	if width < fullLogoMinWidth {
		return style.ApplyBoldForegroundGrad(CompactLogo)
	}
	lines := strings.Split(FullLogo, "\n")
	for i, l := range lines {
		lines[i] = style.ApplyBoldForegroundGrad(l)
	}
	return strings.Join(lines, "\n")
}

// Tagline is the muted line under the logo.
func Tagline() string {
	return lipgloss.NewStyle().
		Foreground(style.Muted).
		Italic(true).
		Render("chat, calendar and recommendations in your terminal")
}

// Version renders "v1.2.3", adding the leading v when missing.
func Version(version string) string {
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return lipgloss.NewStyle().Foreground(style.Muted).Render(version)
}
