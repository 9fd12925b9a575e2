// Package store caches the last-seen conversations in a local SQLite
// database so a conversation can be shown before the backend answers.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/miosa/aidesk-tui/client"
)

// ErrNotFound is returned for conversations that were never cached.
var ErrNotFound = errors.New("store: conversation not cached")

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	owner           TEXT    NOT NULL,
	conversation_id INTEGER NOT NULL,
	title           TEXT    NOT NULL DEFAULT '',
	created_at      TEXT    NOT NULL DEFAULT '',
	fetched_at      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner, conversation_id)
);

CREATE TABLE IF NOT EXISTS messages (
	owner           TEXT    NOT NULL,
	conversation_id INTEGER NOT NULL,
	position        INTEGER NOT NULL,
	payload         TEXT    NOT NULL,
	PRIMARY KEY (owner, conversation_id, position)
);
`

// Store is the conversation cache. Methods are safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure cache: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveConversations replaces owner's cached conversation list.
// Conversations no longer listed are dropped with their messages.
func (s *Store) SaveConversations(ctx context.Context, owner string, list []client.ConversationSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save conversations: %w", err)
	}
	defer tx.Rollback()

	listed := make(map[int]bool, len(list))
	for _, c := range list {
		listed[c.ConversationID] = true
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversations (owner, conversation_id, title, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (owner, conversation_id) DO UPDATE SET title = excluded.title, created_at = excluded.created_at`,
			owner, c.ConversationID, c.Title, formatTime(c.CreatedAt.Time)); err != nil {
			return fmt.Errorf("save conversations: %w", err)
		}
	}

	stale, err := s.ids(ctx, tx, owner)
	if err != nil {
		return fmt.Errorf("save conversations: %w", err)
	}
	for _, id := range stale {
		if listed[id] {
			continue
		}
		for _, q := range []string{
			`DELETE FROM messages WHERE owner = ? AND conversation_id = ?`,
			`DELETE FROM conversations WHERE owner = ? AND conversation_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, owner, id); err != nil {
				return fmt.Errorf("save conversations: %w", err)
			}
		}
	}
	return tx.Commit()
}

func (s *Store) ids(ctx context.Context, tx *sql.Tx, owner string) ([]int, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT conversation_id FROM conversations WHERE owner = ?`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Conversations returns owner's cached conversation list, newest first.
func (s *Store) Conversations(ctx context.Context, owner string) ([]client.ConversationSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT conversation_id, title, created_at FROM conversations
		 WHERE owner = ? ORDER BY created_at DESC, conversation_id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []client.ConversationSummary
	for rows.Next() {
		var c client.ConversationSummary
		var created string
		if err := rows.Scan(&c.ConversationID, &c.Title, &created); err != nil {
			return nil, fmt.Errorf("list conversations: %w", err)
		}
		c.CreatedAt.Time = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveConversation caches a conversation with its messages, replacing any
// previous copy.
func (s *Store) SaveConversation(ctx context.Context, owner string, conv *client.Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (owner, conversation_id, title, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (owner, conversation_id) DO UPDATE SET title = excluded.title, fetched_at = excluded.fetched_at`,
		owner, conv.ConversationID, conv.Title, s.now().Unix()); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE owner = ? AND conversation_id = ?`, owner, conv.ConversationID); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	for i, m := range conv.Messages {
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("save conversation: encode message %d: %w", m.MessageID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (owner, conversation_id, position, payload) VALUES (?, ?, ?, ?)`,
			owner, conv.ConversationID, i, string(payload)); err != nil {
			return fmt.Errorf("save conversation: %w", err)
		}
	}
	return tx.Commit()
}

// Conversation returns the cached copy of conversation id, or ErrNotFound.
func (s *Store) Conversation(ctx context.Context, owner string, id int) (*client.Conversation, error) {
	conv := &client.Conversation{ConversationID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT title FROM conversations WHERE owner = ? AND conversation_id = ? AND fetched_at > 0`,
		owner, id).Scan(&conv.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM messages WHERE owner = ? AND conversation_id = ? ORDER BY position`,
		owner, id)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("load conversation: %w", err)
		}
		var m client.Message
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("load conversation: decode message: %w", err)
		}
		conv.Messages = append(conv.Messages, m)
	}
	return conv, rows.Err()
}

// Forget drops everything cached for owner.
func (s *Store) Forget(ctx context.Context, owner string) error {
	for _, q := range []string{
		`DELETE FROM messages WHERE owner = ?`,
		`DELETE FROM conversations WHERE owner = ?`,
	} {
		if _, err := s.db.ExecContext(ctx, q, owner); err != nil {
			return fmt.Errorf("forget %s: %w", owner, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
