package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
)

// identPattern restricts the configurable table name to a plain SQL
// identifier. The table name is interpolated into queries (it cannot be a
// bind parameter), so anything else is rejected up front.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Store struct {
	pool  *pgxpool.Pool
	table string
}

func New(ctx context.Context, databaseURL, table string) (*Store, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid events table name %q", table)
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the events table and its indexes if they are
// missing. The (event_type, ts) index mirrors the query path the answer
// engine uses to pull recent corrections.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				session_id TEXT NOT NULL,
				interaction_id TEXT NOT NULL,
				ts TEXT NOT NULL,
				event_type TEXT NOT NULL,
				content TEXT NOT NULL,
				user_question TEXT NOT NULL DEFAULT '',
				original_ai_response TEXT NOT NULL DEFAULT '',
				admin_id TEXT NOT NULL DEFAULT '',
				correction_ts TEXT NOT NULL DEFAULT ''
			)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_session_idx ON %s (session_id, ts)`, s.table, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_type_ts_idx ON %s (event_type, ts)`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
