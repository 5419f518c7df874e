// internal/httpserver/routes_session.go
//
// Session routes. Every engine call runs inside store.With so requests for
// the same session are serialized.
//
//   POST /session/new                {paragraphId?, date?}
//   GET  /session
//   POST /session/reset
//   POST /session/select/vowel       {letter}
//   POST /session/select/consonant   {letter}
//   POST /session/select/complete
//   POST /session/purchase/vowel     {letter}
//   POST /session/purchase/consonant {letter}
//   POST /session/guess              {guess}
//   POST /session/clue               {wordIndex, clueIndex}
//   POST /session/reveal             {wordIndex}

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/parasight/internal/daily"
	"github.com/robalobadob/parasight/internal/game"
	"github.com/robalobadob/parasight/internal/store"
)

func (s *Server) mountSession(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.With(s.withOptionalSession).Post("/new", s.handleNewSession)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleView)
			r.Post("/reset", s.handleReset)

			r.Post("/select/vowel", s.letterHandler((*game.Session).SelectVowel))
			r.Post("/select/consonant", s.letterHandler((*game.Session).SelectConsonant))
			r.Post("/select/complete", s.handleCompleteSelection)

			r.Post("/purchase/vowel", s.letterHandler((*game.Session).PurchaseVowel))
			r.Post("/purchase/consonant", s.letterHandler((*game.Session).PurchaseConsonant))

			r.Post("/guess", s.handleGuess)
			r.Post("/clue", s.handleClue)
			r.Post("/reveal", s.handleReveal)
		})
	})
}

// actionRes is the body returned by every mutating session route.
type actionRes struct {
	Result  any         `json:"result,omitempty"`
	Session sessionView `json:"session"`
}

type sessionRes struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expiresAt"`
	Session   sessionView `json:"session"`
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid json", errBadRequest)
	}
	return nil
}

// newGame builds a session on p with the server's parameters.
func (s *Server) newGame(p game.Paragraph, r *http.Request) (*game.Session, error) {
	opts := []game.Option{
		game.WithLogger(log.With().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("paragraph", p.ID).
			Logger()),
	}
	if s.opts.NewRand != nil {
		opts = append(opts, game.WithRand(s.opts.NewRand()))
	}
	return game.NewSession(p, s.opts.Parameters, s.opts.Suffixes, opts...)
}

type newSessionReq struct {
	ParagraphID string `json:"paragraphId"`
	Date        string `json:"date"`
}

// resolveParagraph loads an explicit paragraph or the daily pick.
func (s *Server) resolveParagraph(ctx context.Context, req newSessionReq) (game.Paragraph, error) {
	if req.ParagraphID != "" {
		return s.opts.Catalog.Get(ctx, req.ParagraphID)
	}
	date, err := s.dateKey(req.Date)
	if err != nil {
		return game.Paragraph{}, err
	}
	return daily.Pick(ctx, s.opts.Catalog, date, s.opts.DailySalt)
}

// handleNewSession starts a game and issues a session token. A client that
// already holds a live session keeps its ID; the game is replaced.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}
	p, err := s.resolveParagraph(r.Context(), req)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	g, err := s.newGame(p, r)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}

	var sid string
	if c := currentClaims(r.Context()); c != nil {
		if err := s.opts.Store.Replace(r.Context(), c.SessionID, g); err == nil {
			sid = c.SessionID
		} else if !errors.Is(err, store.ErrNotFound) {
			writeError(w, r, err, nil)
			return
		}
	}
	if sid == "" {
		if sid, err = s.opts.Store.Create(r.Context(), g); err != nil {
			writeError(w, r, err, nil)
			return
		}
	}

	tok, exp, err := s.signSession(sid, p.ID)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	s.setSessionCookie(w, tok, exp)

	log.Info().Str("session", sid).Str("paragraph", p.ID).Int("words", g.Len()).Msg("session started")

	// Other requests may already hold sid; render under the entry lock.
	var view sessionView
	if err := s.opts.Store.With(r.Context(), sid, func(gs *game.Session) error {
		view = newSessionView(gs)
		return nil
	}); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, sessionRes{Token: tok, ExpiresAt: exp.Unix(), Session: view})
}

// withGame runs fn on the caller's session and renders the result plus the
// updated view. An engine error is rendered with the result it came with.
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(*game.Session) (any, error)) {
	sid := currentClaims(r.Context()).SessionID

	var (
		result any
		opErr  error
		view   sessionView
	)
	err := s.opts.Store.With(r.Context(), sid, func(g *game.Session) error {
		result, opErr = fn(g)
		view = newSessionView(g)
		return nil
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	if opErr != nil {
		writeError(w, r, opErr, result)
		return
	}
	writeJSON(w, http.StatusOK, actionRes{Result: result, Session: view})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(*game.Session) (any, error) { return nil, nil })
}

// handleReset starts a fresh game on the same paragraph under the same ID.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sid := currentClaims(r.Context()).SessionID

	var p game.Paragraph
	if err := s.opts.Store.With(r.Context(), sid, func(g *game.Session) error {
		p = g.Paragraph()
		return nil
	}); err != nil {
		writeError(w, r, err, nil)
		return
	}
	g, err := s.newGame(p, r)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	if err := s.opts.Store.Replace(r.Context(), sid, g); err != nil {
		writeError(w, r, err, nil)
		return
	}
	s.handleView(w, r)
}

type letterReq struct {
	Letter string `json:"letter"`
}

// letterHandler adapts a single-letter marketplace operation.
func (s *Server) letterHandler(op func(*game.Session, string) (game.PurchaseResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req letterReq
		if err := decode(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		s.withGame(w, r, func(g *game.Session) (any, error) {
			return op(g, req.Letter)
		})
	}
}

func (s *Server) handleCompleteSelection(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game.Session) (any, error) {
		return nil, g.CompleteSelection()
	})
}

type guessReq struct {
	Guess string `json:"guess"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}
	s.withGame(w, r, func(g *game.Session) (any, error) {
		return g.Guess(req.Guess)
	})
}

type clueReq struct {
	WordIndex int `json:"wordIndex"`
	ClueIndex int `json:"clueIndex"`
}

func (s *Server) handleClue(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}
	s.withGame(w, r, func(g *game.Session) (any, error) {
		return nil, g.SetActiveClue(req.WordIndex, req.ClueIndex)
	})
}

type revealReq struct {
	WordIndex int `json:"wordIndex"`
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}
	s.withGame(w, r, func(g *game.Session) (any, error) {
		return g.RevealWord(req.WordIndex)
	})
}
