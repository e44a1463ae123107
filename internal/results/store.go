// internal/results/store.go
//
// Finished-game records.
// A Recorder is told about every game that reaches an outcome and can
// report per-variant win tallies. The SQLite Store is used when a database
// is configured; Noop otherwise.

package results

import (
	"context"
	"database/sql"
)

// Result is one finished game.
type Result struct {
	RoomID     string `json:"roomId"`
	Game       string `json:"game"`
	Generation int    `json:"generation"`
	Winner     string `json:"winner"`
	Moves      int    `json:"moves"`
}

// Tally counts wins per color for one game variant.
type Tally struct {
	Game  string         `json:"game"`
	Wins  map[string]int `json:"wins"`
	Total int            `json:"total"`
}

// Recorder persists results.
type Recorder interface {
	Record(ctx context.Context, r Result) error
	Tally(ctx context.Context, game string) (Tally, error)
}

// Store is a Recorder backed by the results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r. A room generation is recorded at most once.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results(room_id, game, generation, winner, moves)
		VALUES(?,?,?,?,?)`, r.RoomID, r.Game, r.Generation, r.Winner, r.Moves,
	)
	return err
}

func (s *Store) Tally(ctx context.Context, game string) (Tally, error) {
	t := Tally{Game: game, Wins: map[string]int{}}
	rows, err := s.db.QueryContext(ctx,
		`SELECT winner, COUNT(1) FROM results WHERE game=? GROUP BY winner`, game,
	)
	if err != nil {
		return t, err
	}
	defer rows.Close()
	for rows.Next() {
		var winner string
		var n int
		if err := rows.Scan(&winner, &n); err != nil {
			return t, err
		}
		t.Wins[winner] = n
		t.Total += n
	}
	return t, rows.Err()
}

// Noop discards results; used when no database is configured.
type Noop struct{}

func (Noop) Record(context.Context, Result) error { return nil }

func (Noop) Tally(_ context.Context, game string) (Tally, error) {
	return Tally{Game: game, Wins: map[string]int{}}, nil
}
