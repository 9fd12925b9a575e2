// Package gcal runs the Google Calendar connect handshake from a terminal.
//
// The backend owns the OAuth flow. The client fetches the consent URL,
// opens it in a browser and then polls the connection status until the
// backend reports the calendar as connected, the deadline passes or the
// user cancels.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/miosa/aidesk-tui/ui/browser"
)

// Defaults for Handshake.
const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 3 * time.Minute
)

// ErrTimeout is returned when the user did not finish consent in time.
var ErrTimeout = errors.New("gcal: timed out waiting for calendar consent")

// API is the part of the backend client the handshake uses.
type API interface {
	CalendarAuthorize(ctx context.Context) (string, error)
	CalendarStatus(ctx context.Context) (bool, error)
}

// Handshake connects the user's Google Calendar.
type Handshake struct {
	API      API
	Open     browser.Opener
	Interval time.Duration
	Timeout  time.Duration

	// OnURL, when set, is called with the consent URL once it is known, so
	// the UI can show it for manual copying if the browser does not open.
	OnURL func(authURL string)
}

// New returns a Handshake with the default interval and timeout.
func New(api API) *Handshake {
	return &Handshake{
		API:      api,
		Open:     browser.Open,
		Interval: DefaultInterval,
		Timeout:  DefaultTimeout,
	}
}

// Run performs the handshake. It returns nil once the backend reports the
// calendar connected, ErrTimeout after Timeout, or ctx.Err() when ctx is
// cancelled. Status polls that fail are logged and retried.
func (h *Handshake) Run(ctx context.Context) error {
	interval := h.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	authURL, err := h.API.CalendarAuthorize(ctx)
	if err != nil {
		return h.finish(ctx, fmt.Errorf("gcal: authorize: %w", err))
	}
	if h.OnURL != nil {
		h.OnURL(authURL)
	}
	if h.Open != nil {
		if err := h.Open(authURL); err != nil {
			// The URL is still shown through OnURL; keep polling.
			log.Printf("[gcal] open browser: %v", err)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return h.finish(ctx, ctx.Err())
		case <-ticker.C:
			connected, err := h.API.CalendarStatus(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return h.finish(ctx, ctx.Err())
				}
				log.Printf("[gcal] status: %v", err)
				continue
			}
			if connected {
				return nil
			}
		}
	}
}

// finish maps the internal deadline onto ErrTimeout. Cancellation by the
// caller is passed through unchanged.
func (h *Handshake) finish(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
