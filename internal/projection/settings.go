package projection

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// #region types

// Settings are the prompt choices a chat session last used.
type Settings struct {
	Session   string
	Depth     Depth
	Topics    []Topic
	UpdatedAt time.Time
}

// #endregion types

// #region store

// SettingsStore persists per-session depth and topic choices in SQLite so a
// resumed session composes the same prompt.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates the prompt_settings table if needed and returns a store.
func NewSettingsStore(db *sql.DB) (*SettingsStore, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS prompt_settings (
		session TEXT PRIMARY KEY,
		depth TEXT NOT NULL,
		topics TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create prompt_settings table: %w", err)
	}
	return &SettingsStore{db: db}, nil
}

// Save upserts the settings for a session.
func (s *SettingsStore) Save(session string, depth Depth, topics []Topic) error {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = string(t)
	}
	_, err := s.db.Exec(
		`INSERT INTO prompt_settings (session, depth, topics, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session) DO UPDATE SET depth = excluded.depth, topics = excluded.topics, updated_at = excluded.updated_at`,
		session, string(depth), strings.Join(names, ","), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save prompt settings: %w", err)
	}
	return nil
}

// Load returns the stored settings for a session, or nil if none exist.
// Unknown depth or topic values written by older builds are dropped.
func (s *SettingsStore) Load(session string) (*Settings, error) {
	var depth, topics, ts string
	err := s.db.QueryRow(
		"SELECT depth, topics, updated_at FROM prompt_settings WHERE session = ?", session,
	).Scan(&depth, &topics, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load prompt settings: %w", err)
	}

	out := &Settings{Session: session, Depth: DefaultDepth}
	if d, err := ParseDepth(depth); err == nil {
		out.Depth = d
	}
	if topics != "" {
		for _, name := range strings.Split(topics, ",") {
			if t, err := ParseTopic(name); err == nil {
				out.Topics = append(out.Topics, t)
			}
		}
	}
	out.UpdatedAt, _ = time.Parse(time.RFC3339, ts)
	return out, nil
}

// #endregion store
