// internal/game/types.go
//
// Contracts shared by the checkers and corners room state machines.
// Defines:
//   - MoveRequest: the `{from, to, player}` input of a move.
//   - Cue / Feedback: the last-move metadata polled by clients for sound and animation.
//   - Snapshot: the public state of a room, identical for state queries and move responses.
//   - Engine: what a room's state machine exposes to the session layer.

package game

import "github.com/robalobadob/boardgames/internal/board"

// Variant names a game type.
type Variant string

const (
	Checkers Variant = "checkers"
	Corners  Variant = "corners"
)

// ParseVariant maps a client string to a Variant.
// Empty input defaults to checkers, which older clients expect.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case "", Checkers:
		return Checkers, true
	case Corners:
		return Corners, true
	}
	return "", false
}

// MoveRequest is a single move attempt. Player is trusted as given.
type MoveRequest struct {
	From   board.Pos   `json:"from"`
	To     board.Pos   `json:"to"`
	Player board.Color `json:"player"`
}

// Cue categorizes the move just applied.
// Possible values:
//   - "move":    plain step, slide or jump; also timeouts and voluntary end-turns.
//   - "capture": an opponent piece was removed.
//   - "king":    a man was promoted (wins over "capture").
type Cue string

const (
	CueMove    Cue = "move"
	CueCapture Cue = "capture"
	CueKing    Cue = "king"
)

// Feedback describes the last applied transition.
type Feedback struct {
	Cue  Cue         `json:"cue"`
	By   board.Color `json:"by"`
	From *board.Pos  `json:"from,omitempty"`
	To   *board.Pos  `json:"to,omitempty"`
}

// Turned builds feedback for a transition that moved no piece.
func Turned(by board.Color) *Feedback { return &Feedback{Cue: CueMove, By: by} }

// Moved builds feedback for a piece that travelled from -> to.
func Moved(cue Cue, by board.Color, from, to board.Pos) *Feedback {
	return &Feedback{Cue: cue, By: by, From: &from, To: &to}
}

// Snapshot is the public state of a room.
type Snapshot struct {
	Board            board.Board  `json:"board"`
	Turn             board.Color  `json:"turn"`
	ContinuationLock *board.Pos   `json:"continuationLock"`
	Outcome          *board.Color `json:"outcome"`
	MoveID           int          `json:"moveId"`
	MoveCue          *Feedback    `json:"moveCue"`
}

// Engine is one room's state machine.
// Implementations are not safe for concurrent use; the session layer serializes access.
type Engine interface {
	// Snapshot returns the current public state, resolving any lazily-expiring state first.
	Snapshot() Snapshot

	// Move validates and applies a move. On rejection nothing is mutated.
	Move(req MoveRequest) (Snapshot, error)

	// EndTurn voluntarily releases a continuation lock held by player.
	EndTurn(player board.Color) (Snapshot, error)

	// Reset restores the starting position with white to move.
	Reset()
}
