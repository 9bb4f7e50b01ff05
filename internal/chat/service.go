// Package chat implements the visitor-facing gateway: one question in,
// one answer out, both recorded in the interaction log.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fairental/fairbot/internal/bus"
	"github.com/fairental/fairbot/internal/event"
)

var ErrEmptyQuestion = errors.New("question is empty")

// historyLimit caps how many prior events are replayed to the answer
// engine as session context.
const historyLimit = 40

// EventStore is the slice of the store the chat gateway needs.
type EventStore interface {
	AppendInteraction(ctx context.Context, question, response event.Event) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]event.Event, error)
}

// AnswerEngine produces the response text for a question.
type AnswerEngine interface {
	Answer(ctx context.Context, question string, history []event.Event) (string, error)
}

// Notifier publishes log notifications. bus.Publisher satisfies it and is
// nil-safe, so an unconfigured bus just skips publishing.
type Notifier interface {
	Publish(subject string, data any) error
}

type Service struct {
	store    EventStore
	engine   AnswerEngine
	notifier Notifier
	logger   *slog.Logger
}

func NewService(store EventStore, engine AnswerEngine, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, engine: engine, notifier: notifier, logger: logger}
}

// Result carries the answer plus the identifiers the client must persist
// to continue the conversation and to submit corrections later.
type Result struct {
	Answer        string
	SessionID     string
	InteractionID string
}

// SendMessage answers a visitor question. A blank question is rejected
// before any side effect. The QUESTION and AI_RESPONSE events share one
// freshly minted interaction id and are committed atomically — an engine
// or store failure leaves no partial record behind.
func (s *Service) SendMessage(ctx context.Context, question, sessionID string) (Result, error) {
	if event.IsBlank(question) {
		return Result{}, ErrEmptyQuestion
	}

	newSession := sessionID == ""
	if newSession {
		sessionID = uuid.NewString()
	}

	var history []event.Event
	if !newSession {
		var err error
		history, err = s.store.ListBySession(ctx, sessionID, historyLimit)
		if err != nil {
			// Context is an enhancement, not a prerequisite for answering.
			s.logger.Warn("failed to load session history", "session_id", sessionID, "error", err)
			history = nil
		}
	}

	askedAt := time.Now()
	answer, err := s.engine.Answer(ctx, question, history)
	if err != nil {
		return Result{}, fmt.Errorf("answer question: %w", err)
	}

	interactionID := uuid.NewString()
	questionEvent := event.Event{
		SessionID:     sessionID,
		InteractionID: interactionID,
		Timestamp:     event.Timestamp(askedAt),
		EventType:     event.TypeQuestion,
		Content:       question,
	}
	responseEvent := event.Event{
		SessionID:     sessionID,
		InteractionID: interactionID,
		Timestamp:     event.Timestamp(time.Now()),
		EventType:     event.TypeAIResponse,
		Content:       answer,
		UserQuestion:  question,
	}

	if err := s.store.AppendInteraction(ctx, questionEvent, responseEvent); err != nil {
		return Result{}, fmt.Errorf("record interaction: %w", err)
	}

	if err := s.notifier.Publish(bus.SubjectInteractionRecorded, bus.InteractionRecorded{
		SessionID:     sessionID,
		InteractionID: interactionID,
		Timestamp:     responseEvent.Timestamp,
	}); err != nil {
		s.logger.Warn("failed to publish interaction notification", "error", err)
	}

	s.logger.Info("interaction recorded", "session_id", sessionID, "interaction_id", interactionID)

	return Result{
		Answer:        answer,
		SessionID:     sessionID,
		InteractionID: interactionID,
	}, nil
}
