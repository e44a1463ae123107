// internal/httpserver/routes_rooms.go
//
// HTTP routes for game rooms.
//   - POST /rooms                 → create a room {game} (checkers by default)
//   - POST /rooms/{id}/join       → take a seat, returns {clientId, color}
//   - GET  /rooms/{id}/state      → poll the room view
//   - POST /rooms/{id}/move       → {from, to, player}
//   - POST /rooms/{id}/end-turn   → {player}, stop a corners jump chain
//   - POST /rooms/{id}/rematch    → reset, swap colors, bump generation
//
// The /room/create, /room/{id}/join, /room/{id}/state and /room/{id}/move
// paths of the first checkers client are kept as aliases.
//
// A client identifies itself with the X-Client-ID header (issued by join).
// When a move or end-turn omits "player", the seat of that client is used.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/boardgames/internal/board"
	"github.com/robalobadob/boardgames/internal/game"
	"github.com/robalobadob/boardgames/internal/results"
	"github.com/robalobadob/boardgames/internal/room"
)

const clientHeader = "X-Client-ID"

// mountRooms registers all room routes.
func (s *Server) mountRooms(r chi.Router) {
	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/join", s.handleJoin)
			r.Get("/state", s.handleState)
			r.Post("/move", s.handleMove)
			r.Post("/end-turn", s.handleEndTurn)
			r.Post("/rematch", s.handleRematch)
		})
	})

	r.Get("/room/create", s.handleCreate)
	r.Get("/room/{id}/join", s.handleJoin)
	r.Get("/room/{id}/state", s.handleState)
	r.Post("/room/{id}/move", s.handleMove)
}

type createReq struct {
	Game string `json:"game"`
}
type createRes struct {
	RoomID string       `json:"roomId"`
	Game   game.Variant `json:"game"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, ok := game.ParseVariant(req.Game)
	if !ok {
		s.reject(w, r, "unknown", game.IllegalState("unknown game %q", req.Game))
		return
	}
	rm, err := room.New(genID(), v, s.rooms)
	if err != nil {
		s.reject(w, r, string(v), err)
		return
	}
	if err := s.store.Save(r.Context(), rm); err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.RoomsCreated.WithLabelValues(string(v)).Inc()
	hlog.FromRequest(r).Info().Str("room", rm.ID).Str("game", string(v)).Msg("room created")
	writeJSON(w, http.StatusOK, createRes{RoomID: rm.ID, Game: v})
}

type joinReq struct {
	ClientID string `json:"clientId"`
}
type joinRes struct {
	ClientID string      `json:"clientId"`
	Color    board.Color `json:"color"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	req := joinReq{ClientID: r.Header.Get(clientHeader)}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, color, err := rm.Join(req.ClientID)
	if err != nil {
		s.reject(w, r, string(rm.Variant), err)
		return
	}
	w.Header().Set(clientHeader, id)
	writeJSON(w, http.StatusOK, joinRes{ClientID: id, Color: color})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm.State())
}

// okView is the success body of every state-changing room route.
type okView struct {
	OK bool `json:"ok"`
	room.View
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req game.MoveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Player = s.player(r, rm, req.Player)
	if !req.Player.Valid() {
		s.reject(w, r, string(rm.Variant), game.IllegalState("unknown player %q", req.Player))
		return
	}

	v, err := rm.Move(req)
	if err != nil {
		s.reject(w, r, string(rm.Variant), err)
		return
	}
	if v.MoveCue != nil {
		s.metrics.Moves.WithLabelValues(string(rm.Variant), string(v.MoveCue.Cue)).Inc()
	}
	if v.JustFinished {
		s.finish(r, rm, v)
	}
	writeJSON(w, http.StatusOK, okView{OK: true, View: v})
}

type endTurnReq struct {
	Player board.Color `json:"player"`
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req endTurnReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := rm.EndTurn(s.player(r, rm, req.Player))
	if err != nil {
		s.reject(w, r, string(rm.Variant), err)
		return
	}
	s.metrics.Moves.WithLabelValues(string(rm.Variant), string(game.CueMove)).Inc()
	writeJSON(w, http.StatusOK, okView{OK: true, View: v})
}

func (s *Server) handleRematch(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	v := rm.Rematch()
	s.metrics.Rematches.WithLabelValues(string(rm.Variant)).Inc()
	hlog.FromRequest(r).Info().
		Str("room", rm.ID).Str("game", string(rm.Variant)).Int("generation", v.Generation).
		Msg("rematch")
	writeJSON(w, http.StatusOK, okView{OK: true, View: v})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "game")
	v, ok := game.ParseVariant(name)
	if !ok || name == "" {
		writeError(w, r, game.NotFound("unknown game %q", name))
		return
	}
	t, err := s.results.Tally(r.Context(), string(v))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// lookup resolves {id} or writes the not-found response.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*room.Room, bool) {
	rm, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.reject(w, r, "unknown", err)
		return nil, false
	}
	return rm, true
}

// player falls back to the seat of the requesting client when given is empty.
func (s *Server) player(r *http.Request, rm *room.Room, given board.Color) board.Color {
	if given != board.NoColor {
		return given
	}
	if c, ok := rm.ColorOf(r.Header.Get(clientHeader)); ok {
		return c
	}
	return given
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, variant string, err error) {
	s.metrics.Rejections.WithLabelValues(variant, game.KindName(err)).Inc()
	writeError(w, r, err)
}

// finish records a game that just reached its outcome (best effort).
func (s *Server) finish(r *http.Request, rm *room.Room, v room.View) {
	res := results.Result{
		RoomID:     rm.ID,
		Game:       string(rm.Variant),
		Generation: v.Generation,
		Winner:     string(*v.Outcome),
		Moves:      v.MoveID,
	}
	logger := hlog.FromRequest(r)
	logger.Info().
		Str("room", rm.ID).Str("game", res.Game).Int("generation", res.Generation).
		Str("winner", res.Winner).Int("moves", res.Moves).
		Msg("game finished")
	if err := s.results.Record(r.Context(), res); err != nil {
		logger.Warn().Err(err).Str("room", rm.ID).Msg("record result")
	}
}
