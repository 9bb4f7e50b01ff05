// Package bus publishes interaction-log notifications over NATS so other
// backoffice consumers (dashboards, alerting) can react without polling
// the event store. Publishing is best effort: the log write has already
// committed by the time a notification goes out.
package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectInteractionRecorded fires after a question/answer pair commits.
	SubjectInteractionRecorded = "fairbot.chat.interaction.recorded"
	// SubjectCorrectionRecorded fires after an admin correction commits.
	SubjectCorrectionRecorded = "fairbot.admin.correction.recorded"
)

// InteractionRecorded is the payload for SubjectInteractionRecorded.
type InteractionRecorded struct {
	SessionID     string `json:"session_id"`
	InteractionID string `json:"interaction_id"`
	Timestamp     string `json:"timestamp"`
}

// CorrectionRecorded is the payload for SubjectCorrectionRecorded.
type CorrectionRecorded struct {
	SessionID     string `json:"session_id"`
	InteractionID string `json:"interaction_id"`
	AdminID       string `json:"admin_id,omitempty"`
	Timestamp     string `json:"timestamp"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Connect dials NATS with reconnect handling. Callers treat a nil
// *Publisher as "bus disabled"; Publish on nil is a no-op.
func Connect(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

func (p *Publisher) Publish(subject string, data any) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}
