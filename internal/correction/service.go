// Package correction implements the admin gateway for amending past
// answers. Corrections are appended next to the original interaction,
// never in place of it.
package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairental/fairbot/internal/bus"
	"github.com/fairental/fairbot/internal/event"
)

var (
	ErrEmptyCorrection = errors.New("corrected answer is empty")
	ErrMissingField    = errors.New("missing required field")
)

// EventStore is the slice of the store the correction gateway needs.
type EventStore interface {
	AppendCorrection(ctx context.Context, ev event.Event) error
}

// Notifier publishes log notifications; bus.Publisher satisfies it.
type Notifier interface {
	Publish(subject string, data any) error
}

type Service struct {
	store    EventStore
	notifier Notifier
	logger   *slog.Logger
}

func NewService(store EventStore, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

// Correction is a validated admin submission. UserQuestion and
// OriginalAnswer travel with the event so the admin view can render the
// full triple without a join.
type Correction struct {
	SessionID       string
	InteractionID   string
	UserQuestion    string
	OriginalAnswer  string
	CorrectedAnswer string
	AdminID         string
	Timestamp       string
}

// Submit appends one ADMIN_CORRECTION event. The referenced interaction is
// not looked up — the log has no referential-integrity engine, and a
// dangling correction is an accepted trade-off. Repeat submissions are not
// deduplicated: each one extends the amendment trail.
func (s *Service) Submit(ctx context.Context, c Correction) error {
	for name, value := range map[string]string{
		"sessionId":          c.SessionID,
		"interactionId":      c.InteractionID,
		"userQuestion":       c.UserQuestion,
		"originalAIResponse": c.OriginalAnswer,
	} {
		if event.IsBlank(value) {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	if event.IsBlank(c.CorrectedAnswer) {
		return ErrEmptyCorrection
	}

	recordedAt := event.Timestamp(time.Now())
	correctionAt := c.Timestamp
	if correctionAt == "" {
		correctionAt = recordedAt
	}

	ev := event.Event{
		SessionID:           c.SessionID,
		InteractionID:       c.InteractionID,
		Timestamp:           recordedAt,
		EventType:           event.TypeCorrection,
		Content:             c.CorrectedAnswer,
		UserQuestion:        c.UserQuestion,
		OriginalAIResponse:  c.OriginalAnswer,
		AdminID:             c.AdminID,
		CorrectionTimestamp: correctionAt,
	}

	if err := s.store.AppendCorrection(ctx, ev); err != nil {
		return fmt.Errorf("record correction: %w", err)
	}

	if err := s.notifier.Publish(bus.SubjectCorrectionRecorded, bus.CorrectionRecorded{
		SessionID:     c.SessionID,
		InteractionID: c.InteractionID,
		AdminID:       c.AdminID,
		Timestamp:     recordedAt,
	}); err != nil {
		s.logger.Warn("failed to publish correction notification", "error", err)
	}

	s.logger.Info("correction recorded", "session_id", c.SessionID, "interaction_id", c.InteractionID)
	return nil
}
