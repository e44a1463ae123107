// internal/httpserver/server.go
//
// HTTP server wiring for the board-games backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Room endpoints: mounted under /rooms (plus the legacy /room/* aliases).
//   - Results endpoint: GET /results/{game}.
//
// Notes:
//   - Clients poll; there is no push channel. Every response carries the full
//     room view so a client only needs to compare moveId.
//   - Rejections map to 404 (not found) or 400 (illegal state or move) with
//     an {"error": reason} body.

package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boardgames/internal/game"
	"github.com/robalobadob/boardgames/internal/metrics"
	"github.com/robalobadob/boardgames/internal/results"
	"github.com/robalobadob/boardgames/internal/room"
	"github.com/robalobadob/boardgames/internal/store"
)

const maxJSONBodyBytes = 16 << 10

// Options carries the server's collaborators and settings.
type Options struct {
	Store          store.Store
	Results        results.Recorder // nil disables recording
	Metrics        *metrics.Metrics // nil creates a private instance
	Rooms          room.Options
	ClientOrigin   string
	RequestTimeout time.Duration
}

// Server bundles router and collaborators.
type Server struct {
	r       *chi.Mux
	store   store.Store
	results results.Recorder
	metrics *metrics.Metrics
	rooms   room.Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	if o.Results == nil {
		o.Results = results.Noop{}
	}
	if o.Metrics == nil {
		o.Metrics = metrics.New()
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:       chi.NewRouter(),
		store:   o.Store,
		results: o.Results,
		metrics: o.Metrics,
		rooms:   o.Rooms,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(o.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(o.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"boardgames-go","games":["checkers","corners"],"endpoints":["/health","POST /rooms","POST /rooms/{id}/join","GET /rooms/{id}/state","POST /rooms/{id}/move","POST /rooms/{id}/end-turn","POST /rooms/{id}/rematch","GET /results/{game}","/metrics"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.mountRooms(s.r)
	s.r.Get("/results/{game}", s.handleResults)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+clientHeader)
			w.Header().Set("Access-Control-Expose-Headers", clientHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs every request at debug level.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError maps a rejection to its status code. Anything that is not a
// rejection is an internal error and its text is not shown to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *game.Rejection
	if !errors.As(err, &rej) {
		hlog.FromRequest(r).Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	status := http.StatusBadRequest
	if errors.Is(err, game.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": rej.Reason})
}

// decodeBody reads an optional JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return game.IllegalState("request body too large")
	}
	return game.IllegalState("invalid json")
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
