package common

import (
	"strings"

	"github.com/miosa/aidesk-tui/style"
)

const (
	scrollTrackChar = "│"
	scrollThumbChar = "┃"
)

// Scrollbar renders a one-column vertical scrollbar of viewportHeight rows
// for content of contentHeight rows scrolled to offset. It returns "" when
// the content fits.
func Scrollbar(viewportHeight, contentHeight, offset int) string {
	vh, ch := viewportHeight, contentHeight
	if vh <= 0 || ch <= vh {
		return ""
	}
	thumbH := max(1, min(vh, vh*vh/ch))
	thumbTop := offset * (vh - thumbH) / (ch - vh)
	thumbTop = max(0, min(thumbTop, vh-thumbH))

	rows := make([]string, vh)
	for i := range rows {
		if i >= thumbTop && i < thumbTop+thumbH {
			rows[i] = style.ScrollbarThumb.Render(scrollThumbChar)
		} else {
			rows[i] = style.ScrollbarTrack.Render(scrollTrackChar)
		}
	}
	return strings.Join(rows, "\n")
}
