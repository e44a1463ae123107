// internal/corners/room.go
//
// Room state machine for the corners variant.
//
// States:
//   - awaiting move(turn)
//   - chain locked(turn, pos): after a jump with more jumps available, only
//     jumps from pos are legal until the player ends the turn, runs out of
//     jumps, or stalls past the chain timeout.
//   - finished(winner): terminal until Reset.
//
// The chain timeout is evaluated lazily on every Snapshot, Move and EndTurn;
// there is no background timer.

package corners

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boardgames/internal/board"
	"github.com/robalobadob/boardgames/internal/game"
)

// DefaultChainTimeout is how long a locked player may stall before the turn passes.
const DefaultChainTimeout = 5 * time.Second

// Room holds one corners game.
type Room struct {
	clock   clock.Clock
	timeout time.Duration

	board      board.Board
	turn       board.Color
	lock       *board.Pos
	outcome    *board.Color
	moves      int
	last       *game.Feedback
	lastAction time.Time
}

var _ game.Engine = (*Room)(nil)

// Option configures a Room.
type Option func(*Room)

// WithClock replaces the wall clock (tests use clock.NewMock()).
func WithClock(c clock.Clock) Option { return func(r *Room) { r.clock = c } }

// WithChainTimeout overrides DefaultChainTimeout.
func WithChainTimeout(d time.Duration) Option {
	return func(r *Room) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New returns a room with both zones filled and white to move.
func New(opts ...Option) *Room {
	r := &Room{clock: clock.New(), timeout: DefaultChainTimeout}
	for _, o := range opts {
		o(r)
	}
	r.Reset()
	return r
}

// Reset restores the starting position.
func (r *Room) Reset() {
	r.Load(StartingBoard(), board.White)
}

// Load replaces the position and clears all turn state.
func (r *Room) Load(b board.Board, turn board.Color) {
	r.board = b
	r.turn = turn
	r.lock = nil
	r.outcome = nil
	r.moves = 0
	r.last = nil
	r.lastAction = r.clock.Now()
}

// Snapshot returns the public state after resolving an expired chain.
func (r *Room) Snapshot() game.Snapshot {
	r.expire()
	return r.snapshot()
}

func (r *Room) snapshot() game.Snapshot {
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
	if r.outcome != nil {
		o := *r.outcome
		s.Outcome = &o
	}
	return s
}

// Move validates and applies req.
func (r *Room) Move(req game.MoveRequest) (game.Snapshot, error) {
	r.expire()

	from, to := req.From, req.To
	if r.outcome != nil {
		return game.Snapshot{}, game.IllegalState("game is over")
	}
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
		return game.Snapshot{}, game.IllegalState("continue jumping with the piece on (%d,%d)", r.lock.X, r.lock.Y)
	}

	m, ok := findMove(Moves(&r.board, from), to)
	if !ok {
		return game.Snapshot{}, r.explain(from, to)
	}
	if r.lock != nil && !m.Jump {
		return game.Snapshot{}, game.IllegalMove("only jumps are allowed while chaining")
	}

	r.board.Relocate(from, to, pc)
	r.record(game.Moved(game.CueMove, req.Player, from, to))

	switch {
	case Wins(&r.board, req.Player):
		winner := req.Player
		r.outcome = &winner
		r.lock = nil
		log.Debug().Str("winner", string(winner)).Int("moves", r.moves).Msg("corners game finished")
	case m.Jump && len(Jumps(&r.board, to)) > 0:
		r.lock = &to
	default:
		r.passTurn()
	}
	return r.snapshot(), nil
}

// EndTurn lets the locked player stop a jump chain voluntarily.
func (r *Room) EndTurn(player board.Color) (game.Snapshot, error) {
	r.expire()
	if r.outcome != nil {
		return game.Snapshot{}, game.IllegalState("game is over")
	}
	if r.lock == nil {
		return game.Snapshot{}, game.IllegalState("no jump chain to end")
	}
	if r.turn != player {
		return game.Snapshot{}, game.IllegalState("not your turn")
	}
	r.passTurn()
	r.record(game.Turned(player))
	return r.snapshot(), nil
}

// expire releases a stalled chain on behalf of the locked player.
func (r *Room) expire() {
	if r.lock == nil || r.outcome != nil {
		return
	}
	if r.clock.Since(r.lastAction) < r.timeout {
		return
	}
	stalled := r.turn
	r.passTurn()
	r.record(game.Turned(stalled))
	log.Debug().Str("player", string(stalled)).Msg("jump chain timed out")
}

func (r *Room) passTurn() {
	r.lock = nil
	r.turn = r.turn.Opponent()
}

func (r *Room) record(f *game.Feedback) {
	r.moves++
	r.last = f
	r.lastAction = r.clock.Now()
}

// explain picks the most specific reason a target is unreachable.
func (r *Room) explain(from, to board.Pos) error {
	d, steps, ok := board.Line(from, to)
	switch {
	case !r.board.Empty(to):
		return game.IllegalMove("square is occupied")
	case !ok || d.Diagonal():
		return game.IllegalMove("moves must be orthogonal")
	case steps > 2:
		return game.IllegalMove("a stone steps one square or jumps over one piece")
	case steps == 2:
		return game.IllegalMove("nothing to jump over")
	}
	return game.IllegalMove("a stone steps one square or jumps over one piece")
}
