// Package sessioncache persists the chat client's conversation state
// between runs: the session identifier plus the local message transcript.
// It is a single-writer cache owned by the client process; the server
// never reads it.
package sessioncache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const DefaultPath = "~/.fairbot/session.json"

// Message is one locally cached chat turn.
type Message struct {
	Role          string `json:"role"`
	Content       string `json:"content"`
	InteractionID string `json:"interactionId,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// State is the full cache contents. Save always replaces it wholesale and
// Clear drops the session id and messages together — the two are never
// valid independently.
type State struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
}

type Cache struct {
	path string
}

func New(path string) *Cache {
	return &Cache{path: expandHome(path)}
}

// Load reads the cached state. A missing file is a fresh conversation,
// not an error.
func (c *Cache) Load() (State, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read session cache: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("parse session cache: %w", err)
	}
	return s, nil
}

// Save replaces the cache contents.
func (c *Cache) Save(s State) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session cache: %w", err)
	}

	return os.WriteFile(c.path, data, 0o644)
}

// Clear removes the cache file, dropping the session id and the message
// list in one step.
func (c *Cache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session cache: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
