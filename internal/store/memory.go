// internal/store/memory.go
//
// In-memory room registry.
// Rooms live only as long as the process (no persistence across restarts).
//
// Characteristics:
//   - Stores *room.Room values keyed by room ID in an expirable LRU.
//   - Bounded by capacity; the least recently used room is evicted first.
//   - Idle rooms expire after ttl. Save and Get both refresh the TTL, so a
//     room that is being polled stays alive.
//   - Concurrency-safe (the LRU is internally locked).
//   - Get returns a NotFound rejection for unknown IDs.

package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boardgames/internal/game"
	"github.com/robalobadob/boardgames/internal/room"
)

// Store defines the registry interface for rooms.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save adds or refreshes a room.
	Save(ctx context.Context, r *room.Room) error

	// Get retrieves a room by ID.
	// Returns a game.ErrNotFound rejection if the room does not exist.
	Get(ctx context.Context, id string) (*room.Room, error)

	// Len reports how many rooms are currently registered.
	Len() int
}

// memory is the LRU-backed Store implementation.
type memory struct {
	rooms *expirable.LRU[string, *room.Room]
}

// NewMemoryStore constructs a registry holding at most capacity rooms, each
// evicted after ttl without access. Zero capacity or ttl disables that bound.
func NewMemoryStore(capacity int, ttl time.Duration) Store {
	onEvict := func(id string, r *room.Room) {
		log.Debug().Str("room", id).Str("game", string(r.Variant)).Msg("room evicted")
	}
	return &memory{rooms: expirable.NewLRU[string, *room.Room](capacity, onEvict, ttl)}
}

// Save adds or refreshes the room.
func (m *memory) Save(ctx context.Context, r *room.Room) error {
	m.rooms.Add(r.ID, r)
	return nil
}

// Get looks up a room by ID and refreshes its TTL.
func (m *memory) Get(ctx context.Context, id string) (*room.Room, error) {
	r, ok := m.rooms.Get(id)
	if !ok {
		return nil, game.NotFound("room not found")
	}
	m.rooms.Add(id, r)
	return r, nil
}

func (m *memory) Len() int { return m.rooms.Len() }
