// Package clipboard copies text to the system clipboard: OSC 52 escape
// sequences first (works over SSH), then the native clipboard.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// Copy copies text to the system clipboard.
func Copy(text string) error {
	if err := CopyOSC52(text); err == nil {
		return nil
	}
	return CopyNative(text)
}

// CopyOSC52 writes the OSC 52 clipboard escape sequence to the controlling
// terminal.
func CopyOSC52(text string) error {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer tty.Close()
	_, err = fmt.Fprint(tty, OSC52(text))
	return err
}

// OSC52 returns the escape sequence that sets the clipboard to text.
func OSC52(text string) string {
	return "\033]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
}

// CopyNative uses the platform clipboard (pbcopy, xclip/xsel/wl-copy,
// clip.exe).
func CopyNative(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no native clipboard available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
