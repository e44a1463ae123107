package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/boardgames/internal/board"
	"github.com/robalobadob/boardgames/internal/corners"
	"github.com/robalobadob/boardgames/internal/game"
	"github.com/robalobadob/boardgames/internal/metrics"
	"github.com/robalobadob/boardgames/internal/results"
	"github.com/robalobadob/boardgames/internal/room"
	"github.com/robalobadob/boardgames/internal/store"
)

// fakeRecorder keeps results in memory.
type fakeRecorder struct {
	mu   sync.Mutex
	seen []results.Result
}

func (f *fakeRecorder) Record(_ context.Context, r results.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, r)
	return nil
}

func (f *fakeRecorder) Tally(_ context.Context, g string) (results.Tally, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := results.Tally{Game: g, Wins: map[string]int{}}
	for _, r := range f.seen {
		if r.Game == g {
			t.Wins[r.Winner]++
			t.Total++
		}
	}
	return t, nil
}

type fixture struct {
	h     http.Handler
	store store.Store
	rec   *fakeRecorder
	clock *clock.Mock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: store.NewMemoryStore(0, 0),
		rec:   &fakeRecorder{},
		clock: clock.NewMock(),
	}
	f.h = New(Options{
		Store:   f.store,
		Results: f.rec,
		Metrics: metrics.New(),
		Rooms:   room.Options{Clock: f.clock},
	}).Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, req)
	return rr
}

// viewBody mirrors the JSON of a room view.
type viewBody struct {
	OK               bool                `json:"ok"`
	RoomID           string              `json:"roomId"`
	Game             string              `json:"game"`
	Board            [][]json.RawMessage `json:"board"`
	Turn             board.Color         `json:"turn"`
	ContinuationLock *board.Pos          `json:"continuationLock"`
	Outcome          *board.Color        `json:"outcome"`
	MoveID           int                 `json:"moveId"`
	MoveCue          *game.Feedback      `json:"moveCue"`
	Generation       int                 `json:"generation"`
	Players          int                 `json:"players"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

func (f *fixture) create(t *testing.T, variant string) string {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/rooms", `{"game":"`+variant+`"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[createRes](t, rr)
	require.NotEmpty(t, res.RoomID)
	assert.Equal(t, game.Variant(variant), res.Game)
	return res.RoomID
}

func TestHealthAndDescriptor(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	rr = f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"corners"`)

	rr = f.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateJoinAndPlayCheckers(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "checkers")

	rr := f.do(t, http.MethodPost, "/rooms/"+id+"/join", "")
	require.Equal(t, http.StatusOK, rr.Code)
	white := decode[joinRes](t, rr)
	assert.Equal(t, board.White, white.Color)
	assert.Equal(t, white.ClientID, rr.Header().Get(clientHeader))

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/join", `{"clientId":"bob"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, joinRes{ClientID: "bob", Color: board.Black}, decode[joinRes](t, rr))

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/join", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "room is full", errorOf(t, rr))

	rr = f.do(t, http.MethodGet, "/rooms/"+id+"/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	st := decode[viewBody](t, rr)
	assert.Len(t, st.Board, board.Size)
	assert.Equal(t, board.White, st.Turn)
	assert.Nil(t, st.ContinuationLock)
	assert.Nil(t, st.MoveCue)
	assert.Zero(t, st.MoveID)
	assert.Equal(t, 2, st.Players)
	assert.Equal(t, id, st.RoomID)

	// Player omitted: resolved from the client header.
	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/move",
		`{"from":{"x":2,"y":5},"to":{"x":1,"y":4}}`, clientHeader, white.ClientID)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	mv := decode[viewBody](t, rr)
	assert.True(t, mv.OK)
	assert.Equal(t, 1, mv.MoveID)
	assert.Equal(t, board.Black, mv.Turn)
	require.NotNil(t, mv.MoveCue)
	assert.Equal(t, game.CueMove, mv.MoveCue.Cue)
	assert.Equal(t, board.White, mv.MoveCue.By)

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/move",
		`{"from":{"x":1,"y":4},"to":{"x":0,"y":3},"player":"white"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "not your turn", errorOf(t, rr))

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/end-turn", `{"player":"black"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "captures must be completed in checkers", errorOf(t, rr))
}

func TestRejections(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "checkers")

	rr := f.do(t, http.MethodGet, "/rooms/missing/state", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "room not found", errorOf(t, rr))

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/move", `{"from":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid json", errorOf(t, rr))

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/move", `{"from":{"x":2,"y":5},"to":{"x":1,"y":4}}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `unknown player ""`, errorOf(t, rr))

	rr = f.do(t, http.MethodPost, "/rooms", `{"game":"chess"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `unknown game "chess"`, errorOf(t, rr))

	rr = f.do(t, http.MethodGet, "/results/chess", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `boardgames_rejections_total{game="checkers",kind="illegal_state"} 1`)
	assert.Contains(t, rr.Body.String(), `boardgames_rejections_total{game="unknown",kind="not_found"} 1`)
}

func TestCornersChainEndTurnAndTimeout(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "corners")

	rr := f.do(t, http.MethodPost, "/rooms/"+id+"/move",
		`{"from":{"x":1,"y":5},"to":{"x":3,"y":5},"player":"white"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	mv := decode[viewBody](t, rr)
	assert.Equal(t, &board.Pos{X: 3, Y: 5}, mv.ContinuationLock)
	assert.Equal(t, board.White, mv.Turn)
	assert.Equal(t, "corners", mv.Game)

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/end-turn", `{"player":"white"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	et := decode[viewBody](t, rr)
	assert.Nil(t, et.ContinuationLock)
	assert.Equal(t, board.Black, et.Turn)

	// Black starts a chain and stalls.
	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/move",
		`{"from":{"x":6,"y":2},"to":{"x":4,"y":2},"player":"black"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotNil(t, decode[viewBody](t, rr).ContinuationLock)

	f.clock.Add(corners.DefaultChainTimeout)
	st := decode[viewBody](t, f.do(t, http.MethodGet, "/rooms/"+id+"/state", ""))
	assert.Nil(t, st.ContinuationLock)
	assert.Equal(t, board.White, st.Turn)
	require.NotNil(t, st.MoveCue)
	assert.Equal(t, board.Black, st.MoveCue.By)
}

func TestRematchSwapsSeats(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "checkers")
	f.do(t, http.MethodPost, "/rooms/"+id+"/join", `{"clientId":"alice"}`)
	f.do(t, http.MethodPost, "/rooms/"+id+"/join", `{"clientId":"bob"}`)
	f.do(t, http.MethodPost, "/rooms/"+id+"/move", `{"from":{"x":2,"y":5},"to":{"x":1,"y":4},"player":"white"}`)

	rr := f.do(t, http.MethodPost, "/rooms/"+id+"/rematch", "")
	require.Equal(t, http.StatusOK, rr.Code)
	v := decode[viewBody](t, rr)
	assert.True(t, v.OK)
	assert.Equal(t, 1, v.Generation)
	assert.Zero(t, v.MoveID)
	assert.Equal(t, board.White, v.Turn)

	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/join", "", clientHeader, "alice")
	assert.Equal(t, board.Black, decode[joinRes](t, rr).Color)
	rr = f.do(t, http.MethodPost, "/rooms/"+id+"/join", "", clientHeader, "bob")
	assert.Equal(t, board.White, decode[joinRes](t, rr).Color)
}

func TestFinishedGameIsRecordedOnce(t *testing.T) {
	f := newFixture(t)

	eng := corners.New(corners.WithClock(f.clock))
	var b board.Board
	for p := range corners.TargetZone(board.White).Cells {
		if p != (board.Pos{X: 5, Y: 2}) {
			b.Set(p, board.Piece{Color: board.White, Kind: board.Stone})
		}
	}
	b.Set(board.Pos{X: 5, Y: 3}, board.Piece{Color: board.White, Kind: board.Stone})
	b.Set(board.Pos{X: 0, Y: 7}, board.Piece{Color: board.Black, Kind: board.Stone})
	eng.Load(b, board.White)
	require.NoError(t, f.store.Save(context.Background(), room.NewWithEngine("endgame", game.Corners, eng)))

	rr := f.do(t, http.MethodPost, "/rooms/endgame/move",
		`{"from":{"x":5,"y":3},"to":{"x":5,"y":2},"player":"white"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	v := decode[viewBody](t, rr)
	require.NotNil(t, v.Outcome)
	assert.Equal(t, board.White, *v.Outcome)

	rr = f.do(t, http.MethodPost, "/rooms/endgame/move",
		`{"from":{"x":0,"y":7},"to":{"x":0,"y":6},"player":"black"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "game is over", errorOf(t, rr))

	require.Len(t, f.rec.seen, 1)
	assert.Equal(t, results.Result{RoomID: "endgame", Game: "corners", Winner: "white", Moves: 1}, f.rec.seen[0])

	rr = f.do(t, http.MethodGet, "/results/corners", "")
	require.Equal(t, http.StatusOK, rr.Code)
	tally := decode[results.Tally](t, rr)
	assert.Equal(t, 1, tally.Total)
	assert.Equal(t, 1, tally.Wins["white"])
}

func TestLegacyRoutes(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/room/create", "")
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[createRes](t, rr)
	assert.Equal(t, game.Checkers, res.Game)

	rr = f.do(t, http.MethodGet, "/room/"+res.RoomID+"/join", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, board.White, decode[joinRes](t, rr).Color)

	rr = f.do(t, http.MethodPost, "/room/"+res.RoomID+"/move",
		`{"from":{"x":2,"y":5},"to":{"x":3,"y":4},"player":"white"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/room/"+res.RoomID+"/state", "")
	assert.Equal(t, 1, decode[viewBody](t, rr).MoveID)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodOptions, "/rooms", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), clientHeader)
}
