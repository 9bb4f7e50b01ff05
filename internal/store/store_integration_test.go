//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fairental/fairbot/internal/event"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL, "fairbot_agent_history_test")
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_AppendAndListInteraction(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sessionID := "integration-" + uuid.NewString()[:8]
	interactionID := uuid.NewString()
	now := time.Now()

	question := event.Event{
		SessionID:     sessionID,
		InteractionID: interactionID,
		Timestamp:     event.Timestamp(now),
		EventType:     event.TypeQuestion,
		Content:       "do rentals include insurance?",
	}
	response := event.Event{
		SessionID:     sessionID,
		InteractionID: interactionID,
		Timestamp:     event.Timestamp(now.Add(2 * time.Second)),
		EventType:     event.TypeAIResponse,
		Content:       "Yes, all daily rates are all-inclusive.",
		UserQuestion:  question.Content,
	}

	if err := s.AppendInteraction(ctx, question, response); err != nil {
		t.Fatalf("append interaction: %v", err)
	}

	events, err := s.ListBySession(ctx, sessionID, 0)
	if err != nil {
		t.Fatalf("list by session: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType != event.TypeQuestion || events[1].EventType != event.TypeAIResponse {
		t.Errorf("unexpected event order: %s, %s", events[0].EventType, events[1].EventType)
	}
	if events[0].InteractionID != events[1].InteractionID {
		t.Error("expected both events to share one interaction id")
	}
}

func TestIntegration_AppendCorrection(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sessionID := "integration-" + uuid.NewString()[:8]
	correction := event.Event{
		SessionID:           sessionID,
		InteractionID:       uuid.NewString(),
		Timestamp:           event.Timestamp(time.Now()),
		EventType:           event.TypeCorrection,
		Content:             "Deposits are refunded within 5 business days.",
		UserQuestion:        "when do I get my deposit back?",
		OriginalAIResponse:  "Deposits are refunded within 14 days.",
		AdminID:             "admin-7",
		CorrectionTimestamp: event.Timestamp(time.Now()),
	}

	if err := s.AppendCorrection(ctx, correction); err != nil {
		t.Fatalf("append correction: %v", err)
	}

	recent, err := s.RecentCorrections(ctx, 50)
	if err != nil {
		t.Fatalf("recent corrections: %v", err)
	}
	found := false
	for _, ev := range recent {
		if ev.SessionID == sessionID {
			found = true
			if ev.OriginalAIResponse != correction.OriginalAIResponse {
				t.Errorf("original response not preserved: %q", ev.OriginalAIResponse)
			}
		}
	}
	if !found {
		t.Error("expected correction in recent corrections")
	}
}
