package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Store wraps DB access. The live match state never touches the database;
// the store only records results and the per-match event trail.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// Migrate creates the schema. Statements are idempotent so a restart against
// an existing database is a no-op.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			private    BOOLEAN NOT NULL DEFAULT FALSE,
			started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			ended_at   TIMESTAMPTZ,
			winner_id  TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS match_seats (
			match_id    TEXT NOT NULL REFERENCES matches(id),
			seat        INT NOT NULL,
			player_id   TEXT NOT NULL,
			player_name TEXT NOT NULL,
			PRIMARY KEY (match_id, seat)
		)`,
		`CREATE TABLE IF NOT EXISTS match_events (
			id       TEXT PRIMARY KEY,
			match_id TEXT NOT NULL REFERENCES matches(id),
			seq      BIGINT NOT NULL,
			seat     INT NOT NULL,
			message  TEXT NOT NULL,
			target   INT,
			at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
