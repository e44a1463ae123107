// internal/checkers/room.go
//
// Room state machine for the checkers variant.
//
// States:
//   - awaiting move: any piece of the side to move may act.
//   - continuation locked: the piece that just captured must keep capturing
//     from its landing square; the turn does not pass.
//
// There is no terminal state: the variant has no modeled victory condition,
// so Outcome stays nil.

package checkers

import (
	"github.com/robalobadob/boardgames/internal/board"
	"github.com/robalobadob/boardgames/internal/game"
)

// Room holds one checkers game.
type Room struct {
	board board.Board
	turn  board.Color
	lock  *board.Pos
	moves int
	last  *game.Feedback
}

var _ game.Engine = (*Room)(nil)

// New returns a room with the starting position and white to move.
func New() *Room {
	r := &Room{}
	r.Reset()
	return r
}

// StartingBoard places twelve men per side on the dark squares.
func StartingBoard() board.Board {
	var b board.Board
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if (x+y)%2 == 0 {
				continue
			}
			p := board.Pos{X: x, Y: y}
			switch {
			case y < 3:
				b.Set(p, board.Piece{Color: board.Black, Kind: board.Man})
			case y >= board.Size-3:
				b.Set(p, board.Piece{Color: board.White, Kind: board.Man})
			}
		}
	}
	return b
}

// Reset restores the starting position.
func (r *Room) Reset() {
	*r = Room{board: StartingBoard(), turn: board.White}
}

// Load replaces the position; used to set up arbitrary boards.
func (r *Room) Load(b board.Board, turn board.Color) {
	*r = Room{board: b, turn: turn}
}

// Snapshot returns the public state.
func (r *Room) Snapshot() game.Snapshot {
	s := game.Snapshot{
		Board:   r.board.Clone(),
		Turn:    r.turn,
		MoveID:  r.moves,
		MoveCue: r.last,
	}
	if r.lock != nil {
		l := *r.lock
		s.ContinuationLock = &l
	}
	return s
}

// Move validates and applies req.
//
// Order of checks:
//  1. piece ownership, turn owner, continuation lock origin;
//  2. a matching capture is applied, and the lock is kept while more captures exist;
//  3. otherwise a pending forced capture rejects the move;
//  4. otherwise the move must be a legal slide.
func (r *Room) Move(req game.MoveRequest) (game.Snapshot, error) {
	from, to := req.From, req.To
	if !from.In() || !to.In() {
		return game.Snapshot{}, game.IllegalMove("square is off the board")
	}
	pc := r.board.At(from)
	if pc.Empty() || pc.Color != req.Player {
		return game.Snapshot{}, game.IllegalState("not your piece")
	}
	if r.turn != req.Player {
		return game.Snapshot{}, game.IllegalState("not your turn")
	}
	if r.lock != nil && from != *r.lock {
		return game.Snapshot{}, game.IllegalState("continue capturing with the piece on (%d,%d)", r.lock.X, r.lock.Y)
	}

	if c, ok := findCapture(Captures(&r.board, from, pc), to); ok {
		r.applyCapture(c, pc)
		return r.Snapshot(), nil
	}

	if r.lock != nil {
		return game.Snapshot{}, game.IllegalMove("you must keep capturing")
	}
	if MustCapture(&r.board, req.Player) {
		return game.Snapshot{}, game.IllegalMove("you must capture")
	}
	if err := r.validateSlide(from, to, pc); err != nil {
		return game.Snapshot{}, err
	}

	cue := game.CueMove
	if Promotes(pc, to) {
		pc, cue = pc.Promoted(), game.CueKing
	}
	r.board.Relocate(from, to, pc)
	r.lock = nil
	r.turn = r.turn.Opponent()
	r.record(game.Moved(cue, req.Player, from, to))
	return r.Snapshot(), nil
}

// EndTurn is never available: captures are mandatory in checkers.
func (r *Room) EndTurn(board.Color) (game.Snapshot, error) {
	return game.Snapshot{}, game.IllegalState("captures must be completed in checkers")
}

func (r *Room) applyCapture(c Capture, pc board.Piece) {
	cue := game.CueCapture
	if Promotes(pc, c.To) {
		pc, cue = pc.Promoted(), game.CueKing
	}
	r.board.Clear(c.Over)
	r.board.Relocate(c.From, c.To, pc)

	if len(Captures(&r.board, c.To, pc)) > 0 {
		to := c.To
		r.lock = &to
	} else {
		r.lock = nil
		r.turn = r.turn.Opponent()
	}
	r.record(game.Moved(cue, pc.Color, c.From, c.To))
}

func (r *Room) validateSlide(from, to board.Pos, pc board.Piece) error {
	if !r.board.Empty(to) {
		return game.IllegalMove("square is occupied")
	}
	d, steps, ok := board.Line(from, to)
	if !ok || !d.Diagonal() {
		return game.IllegalMove("moves must be diagonal")
	}
	if pc.IsKing() {
		if !PathClear(&r.board, from, to) {
			return game.IllegalMove("path is blocked")
		}
		return nil
	}
	if steps != 1 || d.DY != forward(pc.Color) {
		return game.IllegalMove("a man moves one square forward")
	}
	return nil
}

func (r *Room) record(f *game.Feedback) {
	r.moves++
	r.last = f
}
