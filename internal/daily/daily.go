// internal/daily/daily.go
//
// Deterministic paragraph-of-the-day selection.
//
// Everyone sees the same paragraph on the same UTC date:
//   - a paragraph authored for that date wins;
//   - otherwise HMAC(salt, YYYY-MM-DD) picks one from the id-ordered catalog.

package daily

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/parasight/internal/content"
	"github.com/robalobadob/parasight/internal/game"
)

// ErrEmptyCatalog means there is nothing to pick from.
var ErrEmptyCatalog = errors.New("daily: catalog is empty")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index in [0, n) for a date key using
// HMAC(salt, date) % n.
func Index(date, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	sum := h.Sum(nil)
	// first 8 bytes for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Catalog is the subset of content.Catalog that Pick needs.
type Catalog interface {
	Get(ctx context.Context, id string) (game.Paragraph, error)
	ByDate(ctx context.Context, date string) (game.Paragraph, error)
	List(ctx context.Context) ([]content.Meta, error)
}

// Pick returns the paragraph for a date key.
func Pick(ctx context.Context, c Catalog, date, salt string) (game.Paragraph, error) {
	p, err := c.ByDate(ctx, date)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, content.ErrNotFound) {
		return p, fmt.Errorf("daily by date: %w", err)
	}

	list, err := c.List(ctx)
	if err != nil {
		return game.Paragraph{}, fmt.Errorf("daily list: %w", err)
	}
	if len(list) == 0 {
		return game.Paragraph{}, ErrEmptyCatalog
	}
	return c.Get(ctx, list[Index(date, salt, len(list))].ID)
}
