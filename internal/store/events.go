package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairental/fairbot/internal/event"
)

const eventColumns = `session_id, interaction_id, ts, event_type, content, user_question, original_ai_response, admin_id, correction_ts`

// AppendInteraction writes a QUESTION and its AI_RESPONSE in one
// transaction. A question must never become durable without its paired
// answer — an orphaned half-interaction would be dropped by the history
// grouping anyway, so neither event is written unless both are.
func (s *Store) AppendInteraction(ctx context.Context, question, response event.Event) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.insert(ctx, tx, question); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	if err := s.insert(ctx, tx, response); err != nil {
		return fmt.Errorf("insert response: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// AppendCorrection writes a single ADMIN_CORRECTION event. The referenced
// interaction is deliberately not checked for existence: the log has no
// referential-integrity engine and a dangling correction is harmless.
func (s *Store) AppendCorrection(ctx context.Context, ev event.Event) error {
	if err := s.insert(ctx, s.pool, ev); err != nil {
		return fmt.Errorf("insert correction: %w", err)
	}
	return nil
}

// execer covers both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *Store) insert(ctx context.Context, q execer, ev event.Event) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, s.table, eventColumns),
		uuid.New(), ev.SessionID, ev.InteractionID, ev.Timestamp, string(ev.EventType),
		ev.Content, ev.UserQuestion, ev.OriginalAIResponse, ev.AdminID, ev.CorrectionTimestamp,
	)
	return err
}

// ListBySession returns a session's events in ascending timestamp order.
// limit <= 0 means no limit.
func (s *Store) ListBySession(ctx context.Context, sessionID string, limit int) ([]event.Event, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE session_id = $1 ORDER BY ts ASC`, eventColumns, s.table)
	args := []any{sessionID}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.list(ctx, sql, args...)
}

// ListAll returns all events in ascending timestamp order. limit <= 0
// means no limit.
func (s *Store) ListAll(ctx context.Context, limit int) ([]event.Event, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s ORDER BY ts ASC`, eventColumns, s.table)
	var args []any
	if limit > 0 {
		sql += ` LIMIT $1`
		args = append(args, limit)
	}
	return s.list(ctx, sql, args...)
}

// RecentCorrections returns the newest ADMIN_CORRECTION events, most
// recent first.
func (s *Store) RecentCorrections(ctx context.Context, limit int) ([]event.Event, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE event_type = $1 ORDER BY ts DESC LIMIT $2`, eventColumns, s.table)
	return s.list(ctx, sql, string(event.TypeCorrection), limit)
}

func (s *Store) list(ctx context.Context, sql string, args ...any) ([]event.Event, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var ev event.Event
		var eventType string
		if err := rows.Scan(
			&ev.SessionID, &ev.InteractionID, &ev.Timestamp, &eventType,
			&ev.Content, &ev.UserQuestion, &ev.OriginalAIResponse, &ev.AdminID, &ev.CorrectionTimestamp,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.EventType = event.Type(eventType)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}
