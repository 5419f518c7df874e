// internal/httpserver/server.go
//
// HTTP server wiring for the ParaSight backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/paragraphs", "/daily".
//   - Session endpoints under /session: start, view, reset, letter selection,
//     purchases, guesses, clue tiers and word reveals.
//   - Mapping engine errors to HTTP status codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The session handle is a signed JWT in a cookie or bearer header; the
//     game itself never leaves the in-memory store (see session.go).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/parasight/internal/content"
	"github.com/robalobadob/parasight/internal/daily"
	"github.com/robalobadob/parasight/internal/game"
	"github.com/robalobadob/parasight/internal/store"
)

// Options carries the server's collaborators and settings.
type Options struct {
	Store      store.Store
	Catalog    daily.Catalog
	Parameters game.Parameters
	Suffixes   []game.SuffixRule

	SigningKey    []byte
	CookieName    string
	SecureCookies bool
	SessionTTL    time.Duration
	ClientOrigin  string
	DailySalt     string

	// Now and NewRand are test hooks. NewRand is called once per session.
	Now     func() time.Time
	NewRand func() game.Rand
}

// Server bundles router and dependencies.
type Server struct {
	r    *chi.Mux
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CookieName == "" {
		opts.CookieName = "parasight_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"parasight","endpoints":["/health","/paragraphs","/daily","POST /session/new","/session/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountCatalog(s.r)
	s.mountSession(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

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
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

type errorBody struct {
	Error  string `json:"error"`
	Result any    `json:"result,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, content.ErrNotFound),
		errors.Is(err, daily.ErrEmptyCatalog):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotVowel),
		errors.Is(err, game.ErrNotConsonant),
		errors.Is(err, game.ErrEmptyGuess),
		errors.Is(err, game.ErrWordIndex),
		errors.Is(err, game.ErrClueOutOfRange),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrSelectionPending),
		errors.Is(err, game.ErrSelectionClosed),
		errors.Is(err, game.ErrSelectionIncomplete),
		errors.Is(err, game.ErrVowelChosen),
		errors.Is(err, game.ErrConsonantsChosen),
		errors.Is(err, game.ErrDuplicateLetter),
		errors.Is(err, game.ErrAlreadyPurchased),
		errors.Is(err, game.ErrInsufficientScore),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrWordClosed):
		return http.StatusConflict
	case errors.Is(err, game.ErrNoWords):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeError renders err. Server-side failures are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error, result any) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		msg = "internal_error"
	}
	writeJSON(w, status, errorBody{Error: msg, Result: result})
}
