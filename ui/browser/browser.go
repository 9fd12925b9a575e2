// Package browser opens URLs in the user's web browser.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// Opener opens a URL. Tests substitute their own.
type Opener func(rawURL string) error

// Open launches the platform browser for rawURL. Only http and https URLs
// are accepted. The browser process is not waited for.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("browser: refusing to open %q", rawURL)
	}
	cmd, args := detectOpenCmd()
	if cmd == "" {
		return fmt.Errorf("browser: no opener found for %s", runtime.GOOS)
	}
	c := exec.Command(cmd, append(args, u.String())...)
	if err := c.Start(); err != nil {
		return fmt.Errorf("browser: start %s: %w", cmd, err)
	}
	go func() { _ = c.Wait() }()
	return nil
}

// detectOpenCmd returns the URL opener for the current operating system.
// $BROWSER wins when set.
func detectOpenCmd() (string, []string) {
	if b := os.Getenv("BROWSER"); b != "" {
		if path, err := exec.LookPath(b); err == nil {
			return path, nil
		}
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", nil

	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}

	case "linux", "freebsd", "openbsd", "netbsd":
		if path, err := exec.LookPath("xdg-open"); err == nil {
			return path, nil
		}
		// WSL
		if path, err := exec.LookPath("wslview"); err == nil {
			return path, nil
		}
		return "", nil

	default:
		return "", nil
	}
}
