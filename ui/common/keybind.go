package common

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/miosa/aidesk-tui/style"
)

// KeyHelp renders "[keys] desc · [keys] desc" for the enabled bindings,
// using each binding's help key label.
func KeyHelp(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		k := h.Key
		if k == "" {
			k = strings.Join(b.Keys(), "/")
		}
		parts = append(parts, style.HelpKey.Render(k)+style.HelpDesc.Render(" "+h.Desc))
	}
	return strings.Join(parts, style.HelpSeparator.Render(" · "))
}
