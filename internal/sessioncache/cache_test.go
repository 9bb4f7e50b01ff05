package sessioncache

import (
	"path/filepath"
	"testing"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "session.json"))
}

func TestLoad_MissingFileIsFreshState(t *testing.T) {
	c := testCache(t)

	s, err := c.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.SessionID != "" || len(s.Messages) != 0 {
		t.Errorf("expected empty state, got %+v", s)
	}
}

func TestSaveAndLoad(t *testing.T) {
	c := testCache(t)

	saved := State{
		SessionID: "sess-1",
		Messages: []Message{
			{Role: "user", Content: "hi", Timestamp: "2026-08-31T10:00:00.000Z"},
			{Role: "assistant", Content: "hello", InteractionID: "int-1", Timestamp: "2026-08-31T10:00:02.000Z"},
		},
	}
	if err := c.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := c.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.SessionID != "sess-1" {
		t.Errorf("expected session id preserved, got %q", loaded.SessionID)
	}
	if len(loaded.Messages) != 2 || loaded.Messages[1].InteractionID != "int-1" {
		t.Errorf("messages not preserved: %+v", loaded.Messages)
	}
}

func TestSave_FullReplace(t *testing.T) {
	c := testCache(t)

	if err := c.Save(State{SessionID: "old", Messages: []Message{{Role: "user", Content: "old"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := c.Save(State{SessionID: "new"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := c.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.SessionID != "new" || len(loaded.Messages) != 0 {
		t.Errorf("expected wholesale replacement, got %+v", loaded)
	}
}

func TestClear_DropsSessionAndMessages(t *testing.T) {
	c := testCache(t)

	if err := c.Save(State{SessionID: "sess-1", Messages: []Message{{Role: "user", Content: "hi"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	loaded, err := c.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.SessionID != "" || len(loaded.Messages) != 0 {
		t.Errorf("expected empty state after clear, got %+v", loaded)
	}
}

func TestClear_MissingFileIsFine(t *testing.T) {
	c := testCache(t)
	if err := c.Clear(); err != nil {
		t.Errorf("expected clear on missing file to succeed, got %v", err)
	}
}
