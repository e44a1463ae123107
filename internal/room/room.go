// internal/room/room.go
//
// Room session: one game instance as seen by the HTTP layer.
// Responsibilities:
//   - Own the variant's state machine (checkers or corners) behind game.Engine.
//   - Serialize every operation on the room with a per-room mutex.
//   - Hand out seats to opaque client identifiers and swap them on rematch.
//   - Track the generation counter distinguishing successive games.
//
// Notes:
//   - The engine trusts the `player` field of a move; seats only resolve a
//     client identity to a color when the caller asks for it.

package room

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/robalobadob/boardgames/internal/board"
	"github.com/robalobadob/boardgames/internal/checkers"
	"github.com/robalobadob/boardgames/internal/corners"
	"github.com/robalobadob/boardgames/internal/game"
)

// Room is a single game instance.
type Room struct {
	ID      string
	Variant game.Variant

	mu         sync.Mutex
	engine     game.Engine
	seats      map[string]board.Color // clientID -> color
	generation int
}

// View is the public room state returned to clients.
type View struct {
	game.Snapshot
	RoomID     string       `json:"roomId"`
	Game       game.Variant `json:"game"`
	Generation int          `json:"generation"`
	Players    int          `json:"players"`

	// JustFinished is set on the move that produced the outcome.
	JustFinished bool `json:"-"`
}

// Options carries engine settings that are not per-room.
type Options struct {
	Clock        clock.Clock
	ChainTimeout time.Duration // zero keeps the engine default
}

// New creates a room for variant v.
func New(id string, v game.Variant, opts Options) (*Room, error) {
	var eng game.Engine
	switch v {
	case game.Checkers:
		eng = checkers.New()
	case game.Corners:
		var co []corners.Option
		if opts.Clock != nil {
			co = append(co, corners.WithClock(opts.Clock))
		}
		if opts.ChainTimeout > 0 {
			co = append(co, corners.WithChainTimeout(opts.ChainTimeout))
		}
		eng = corners.New(co...)
	default:
		return nil, game.IllegalState("unknown game %q", v)
	}
	return NewWithEngine(id, v, eng), nil
}

// NewWithEngine wraps an existing engine (tests load custom positions this way).
func NewWithEngine(id string, v game.Variant, eng game.Engine) *Room {
	return &Room{
		ID:      id,
		Variant: v,
		engine:  eng,
		seats:   make(map[string]board.Color, 2),
	}
}

// Join seats clientID and returns its (possibly freshly issued) identifier and color.
// A client that is already seated gets its seat back.
func (r *Room) Join(clientID string) (string, board.Color, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.seats[clientID]; ok && clientID != "" {
		return clientID, c, nil
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}
	for _, c := range []board.Color{board.White, board.Black} {
		if !r.taken(c) {
			r.seats[clientID] = c
			return clientID, c, nil
		}
	}
	return "", board.NoColor, game.IllegalState("room is full")
}

// ColorOf resolves a seated client to its color.
func (r *Room) ColorOf(clientID string) (board.Color, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.seats[clientID]
	return c, ok
}

// State returns the current view.
func (r *Room) State() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view(r.engine.Snapshot())
}

// Move applies req atomically.
func (r *Room) Move(req game.MoveRequest) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := r.engine.Snapshot()
	s, err := r.engine.Move(req)
	if err != nil {
		return View{}, err
	}
	v := r.view(s)
	v.JustFinished = before.Outcome == nil && s.Outcome != nil
	return v, nil
}

// EndTurn releases a continuation lock held by player.
func (r *Room) EndTurn(player board.Color) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.engine.EndTurn(player)
	if err != nil {
		return View{}, err
	}
	return r.view(s), nil
}

// Rematch starts a fresh game in the same room with the seats' colors swapped.
func (r *Room) Rematch() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.engine.Reset()
	for id, c := range r.seats {
		r.seats[id] = c.Opponent()
	}
	r.generation++
	return r.view(r.engine.Snapshot())
}

func (r *Room) taken(c board.Color) bool {
	for _, sc := range r.seats {
		if sc == c {
			return true
		}
	}
	return false
}

func (r *Room) view(s game.Snapshot) View {
	return View{
		Snapshot:   s,
		RoomID:     r.ID,
		Game:       r.Variant,
		Generation: r.generation,
		Players:    len(r.seats),
	}
}
