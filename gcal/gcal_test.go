package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/aidesk-tui/client"
)

type testToken struct{}

func (testToken) Token() string { return "tok" }

// backend serves /gcal/authorize and reports connected after `after` polls.
func backend(t *testing.T, after int32) (*client.Client, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/gcal/authorize":
			_ = json.NewEncoder(w).Encode(map[string]string{"auth_url": "https://consent.example.com/x"})
		case "/gcal/status":
			n := polls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]bool{"connected": after > 0 && n >= after})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return client.New(srv.URL, testToken{}), &polls
}

func fastHandshake(api API, opened *[]string) *Handshake {
	h := New(api)
	h.Interval = 10 * time.Millisecond
	h.Timeout = 2 * time.Second
	h.Open = func(u string) error {
		*opened = append(*opened, u)
		return nil
	}
	return h
}

func TestRun_ConnectsAfterPolling(t *testing.T) {
	c, polls := backend(t, 3)
	var opened []string
	var shown string
	h := fastHandshake(c, &opened)
	h.OnURL = func(u string) { shown = u }

	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, []string{"https://consent.example.com/x"}, opened)
	assert.Equal(t, "https://consent.example.com/x", shown)
	assert.Equal(t, int32(3), polls.Load())
}

func TestRun_TimesOut(t *testing.T) {
	c, _ := backend(t, 0)
	var opened []string
	h := fastHandshake(c, &opened)
	h.Timeout = 80 * time.Millisecond

	err := h.Run(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRun_CancelledByCaller(t *testing.T) {
	c, _ := backend(t, 0)
	var opened []string
	h := fastHandshake(c, &opened)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	err := h.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRun_BrowserFailureKeepsPolling(t *testing.T) {
	c, _ := backend(t, 1)
	h := New(c)
	h.Interval = 10 * time.Millisecond
	h.Open = func(string) error { return errors.New("no display") }

	require.NoError(t, h.Run(context.Background()))
}

type failingAPI struct{}

func (failingAPI) CalendarAuthorize(context.Context) (string, error) {
	return "", &client.APIError{Status: 500, Detail: "oauth misconfigured"}
}

func (failingAPI) CalendarStatus(context.Context) (bool, error) { return false, nil }

func TestRun_AuthorizeErrorStops(t *testing.T) {
	h := New(failingAPI{})
	h.Open = func(string) error {
		t.Error("browser should not open")
		return nil
	}
	err := h.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 500, client.StatusOf(err))
}

// flakyAPI fails the first status poll, then reports connected.
type flakyAPI struct{ n atomic.Int32 }

func (f *flakyAPI) CalendarAuthorize(context.Context) (string, error) { return "https://x", nil }

func (f *flakyAPI) CalendarStatus(context.Context) (bool, error) {
	if f.n.Add(1) == 1 {
		return false, errors.New("connection reset")
	}
	return true, nil
}

func TestRun_StatusErrorsAreRetried(t *testing.T) {
	api := &flakyAPI{}
	h := New(api)
	h.Interval = 5 * time.Millisecond
	h.Open = nil
	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, int32(2), api.n.Load())
}
