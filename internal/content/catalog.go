package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/parasight/internal/game"
)

// ErrNotFound is returned when no paragraph matches.
var ErrNotFound = errors.New("paragraph not found")

// Meta is the listing form of a paragraph; it never includes hidden words.
type Meta struct {
	ID    string `json:"id"`
	Date  string `json:"date,omitempty"`
	Title string `json:"title,omitempty"`
}

// Catalog is the SQL-backed paragraph store.
type Catalog struct {
	db      *sql.DB
	dialect Dialect
}

// NewCatalog wraps an open, migrated database.
func NewCatalog(db *sql.DB, d Dialect) *Catalog {
	return &Catalog{db: db, dialect: d}
}

func (c *Catalog) q(query string) string { return c.dialect.RewriteQuery(query) }

// Put inserts or replaces a paragraph.
func (c *Catalog) Put(ctx context.Context, p game.Paragraph) error {
	words, err := json.Marshal(p.HiddenWords)
	if err != nil {
		return fmt.Errorf("encode hidden words: %w", err)
	}
	_, err = c.db.ExecContext(ctx, c.q(c.dialect.UpsertParagraphQuery()),
		p.ID, p.Date, p.Title, p.Text, string(words))
	return err
}

// Seed validates and stores paragraphs. Invalid ones are logged and skipped.
// Returns how many were stored.
func (c *Catalog) Seed(ctx context.Context, ps []game.Paragraph) (int, error) {
	n := 0
	for _, p := range ps {
		if errs := Validate(p); len(errs) > 0 {
			log.Warn().Str("paragraph", p.ID).Errs("errors", errs).Msg("invalid paragraph skipped")
			continue
		}
		if err := c.Put(ctx, p); err != nil {
			return n, fmt.Errorf("store paragraph %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}

const selectParagraph = `SELECT id, puzzle_date, title, body, hidden_words FROM paragraphs`

// Get loads a paragraph by id.
func (c *Catalog) Get(ctx context.Context, id string) (game.Paragraph, error) {
	row := c.db.QueryRowContext(ctx, c.q(selectParagraph+` WHERE id = ?`), id)
	return scanParagraph(row)
}

// ByDate loads the paragraph scheduled for a YYYY-MM-DD date.
func (c *Catalog) ByDate(ctx context.Context, date string) (game.Paragraph, error) {
	row := c.db.QueryRowContext(ctx, c.q(selectParagraph+` WHERE puzzle_date = ? ORDER BY id LIMIT 1`), date)
	return scanParagraph(row)
}

func scanParagraph(row *sql.Row) (game.Paragraph, error) {
	var p game.Paragraph
	var words string
	if err := row.Scan(&p.ID, &p.Date, &p.Title, &p.Text, &words); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, ErrNotFound
		}
		return p, err
	}
	if err := json.Unmarshal([]byte(words), &p.HiddenWords); err != nil {
		return p, fmt.Errorf("decode hidden words for %s: %w", p.ID, err)
	}
	return p, nil
}

// List returns metadata for every paragraph ordered by id.
func (c *Catalog) List(ctx context.Context) ([]Meta, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, puzzle_date, title FROM paragraphs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Meta{}
	for rows.Next() {
		var m Meta
		if err := rows.Scan(&m.ID, &m.Date, &m.Title); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count is the number of stored paragraphs.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM paragraphs`).Scan(&n)
	return n, err
}
