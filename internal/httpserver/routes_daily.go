// internal/httpserver/routes_daily.go
//
// Catalog routes:
//   - GET /paragraphs → metadata for every paragraph (never hidden words)
//   - GET /daily      → today's paragraph metadata (or ?date=YYYY-MM-DD)
//
// Daily selection is deterministic on date + salt (see internal/daily), so
// every client sees the same paragraph on the same UTC day.

package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/parasight/internal/content"
	"github.com/robalobadob/parasight/internal/daily"
)

func (s *Server) mountCatalog(r chi.Router) {
	r.Get("/paragraphs", s.handleParagraphs)
	r.Get("/daily", s.handleDaily)
}

func (s *Server) handleParagraphs(w http.ResponseWriter, r *http.Request) {
	list, err := s.opts.Catalog.List(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paragraphs": list})
}

// dateKey returns the requested ?date or today's key.
func (s *Server) dateKey(raw string) (string, error) {
	if raw == "" {
		return daily.DateKey(s.opts.Now()), nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", errBadRequest)
	}
	return raw, nil
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date, err := s.dateKey(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	p, err := daily.Pick(r.Context(), s.opts.Catalog, date, s.opts.DailySalt)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":      date,
		"paragraph": content.Meta{ID: p.ID, Date: p.Date, Title: p.Title},
	})
}
