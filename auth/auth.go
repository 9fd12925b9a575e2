// Package auth holds the session token shared by the HTTP client and the UI.
//
// State is the only writer of the token file. The in-memory token and the
// file under the profile directory are always updated together, so a
// restart resumes exactly the session the UI last saw.
package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenFile is the file name of the persisted token inside the profile dir.
const TokenFile = "token"

// State is the current session token. It is safe for concurrent use: the
// client reads it from tea.Cmd goroutines while the UI writes it.
type State struct {
	mu    sync.RWMutex
	dir   string
	token string
}

// New returns a State persisting to dir. An empty dir keeps the token in
// memory only.
func New(dir string) *State {
	return &State{dir: dir}
}

// Load reads the persisted token, if any. A missing file is not an error.
func (s *State) Load() error {
	if s.dir == "" {
		return nil
	}
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	s.mu.Lock()
	s.token = strings.TrimSpace(string(data))
	s.mu.Unlock()
	return nil
}

// Token returns the current token, or "" when logged out.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a token is held.
func (s *State) LoggedIn() bool { return s.Token() != "" }

// Set stores token in memory and on disk. An empty token is the same as
// Clear. The memory copy is only replaced once the file write succeeded.
func (s *State) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
		if err := os.WriteFile(s.path(), []byte(token), 0o600); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
	}
	s.token = token
	return nil
}

// Clear forgets the token and removes the token file.
func (s *State) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.dir == "" {
		return nil
	}
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (s *State) path() string {
	return filepath.Join(s.dir, TokenFile)
}
