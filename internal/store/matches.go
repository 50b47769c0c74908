package store

import (
	"context"
	"time"

	"treason/internal/game"
)

type MatchSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Private   bool      `json:"private"`
	StartedAt time.Time `json:"started_at"`
}

type LeaderboardRow struct {
	PlayerName string `json:"player_name"`
	Wins       int64  `json:"wins"`
}

func (s *Store) CreateMatch(ctx context.Context, id, name string, private bool) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO matches (id, name, private) VALUES ($1, $2, $3)`,
		id, name, private)
	return err
}

func (s *Store) RecordSeat(ctx context.Context, matchID string, seat int, playerID, playerName string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO match_seats (match_id, seat, player_id, player_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (match_id, seat) DO UPDATE SET player_id = $3, player_name = $4`,
		matchID, seat, playerID, playerName)
	return err
}

// RecordEvent appends one history line to the match's audit trail.
func (s *Store) RecordEvent(ctx context.Context, gameID string, seq uint64, entry game.HistoryEntry) error {
	var target *int
	if entry.Target != game.NoSeat {
		target = &entry.Target
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO match_events (id, match_id, seq, seat, message, target)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		NewID(), gameID, int64(seq), entry.PlayerIdx, entry.Message, target)
	return err
}

func (s *Store) MatchEnded(ctx context.Context, gameID, winnerID string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE matches SET ended_at = now(), winner_id = $2 WHERE id = $1`,
		gameID, winnerID)
	return err
}

func (s *Store) ListOpenMatches(ctx context.Context, limit int) ([]MatchSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, private, started_at
		 FROM matches WHERE ended_at IS NULL
		 ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MatchSummary, 0, limit)
	for rows.Next() {
		var m MatchSummary
		if err := rows.Scan(&m.ID, &m.Name, &m.Private, &m.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Leaderboard ranks players by completed-match wins. Names come from the seat
// record of the winning match, so a player renaming between matches counts
// per name, matching how the original server reported winners.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT se.player_name, COUNT(*) AS wins
		 FROM matches m
		 JOIN match_seats se ON se.match_id = m.id AND se.player_id = m.winner_id
		 WHERE m.winner_id IS NOT NULL
		 GROUP BY se.player_name
		 ORDER BY wins DESC, se.player_name ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.PlayerName, &r.Wins); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
