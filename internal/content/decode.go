// internal/content/decode.go
//
// JSON ingestion for paragraph, parameter and suffix documents.
// Responsibilities:
//   - Accept both the current hidden-word shape (clues array) and the legacy
//     one (clue / clue2 / points) and normalize to game types.
//   - Accept numeric or string paragraph ids.

package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/parasight/internal/game"
)

// ErrNoClues rejects a hidden word that carries no clue in either shape.
var ErrNoClues = errors.New("hidden word has no clues")

// ErrNegativeParameter rejects a cost, penalty or count below zero.
var ErrNegativeParameter = errors.New("negative game parameter")

type rawHiddenWord struct {
	Word       string      `json:"word"`
	Difficulty string      `json:"difficulty"`
	Clues      []game.Clue `json:"clues"`

	// legacy shape
	Clue   string `json:"clue"`
	Clue2  string `json:"clue2"`
	Points int    `json:"points"`
}

type rawParagraph struct {
	ID          json.RawMessage `json:"id"`
	Date        string          `json:"date"`
	Title       string          `json:"title"`
	Text        string          `json:"text"`
	HiddenWords []rawHiddenWord `json:"hiddenWords"`
}

// DecodeParagraphs reads a {"paragraphs": [...]} document.
func DecodeParagraphs(r io.Reader) ([]game.Paragraph, error) {
	var doc struct {
		Paragraphs []rawParagraph `json:"paragraphs"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode paragraphs: %w", err)
	}

	out := make([]game.Paragraph, 0, len(doc.Paragraphs))
	for i, rp := range doc.Paragraphs {
		id, err := decodeID(rp.ID)
		if err != nil {
			return nil, fmt.Errorf("paragraph %d: %w", i, err)
		}
		p := game.Paragraph{ID: id, Date: rp.Date, Title: rp.Title, Text: rp.Text}
		for _, rw := range rp.HiddenWords {
			hw, err := normalizeWord(rw)
			if err != nil {
				return nil, fmt.Errorf("paragraph %s word %q: %w", id, rw.Word, err)
			}
			p.HiddenWords = append(p.HiddenWords, hw)
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("missing id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %w", err)
	}
	return n.String(), nil
}

func normalizeWord(rw rawHiddenWord) (game.HiddenWord, error) {
	hw := game.HiddenWord{Word: strings.TrimSpace(rw.Word), Difficulty: rw.Difficulty, Clues: rw.Clues}
	if len(hw.Clues) > 0 {
		return hw, nil
	}
	if rw.Clue == "" {
		return hw, ErrNoClues
	}
	hw.Clues = []game.Clue{{Clue: rw.Clue, Points: rw.Points}}
	if rw.Clue2 != "" {
		hw.Clues = append(hw.Clues, game.Clue{Clue: rw.Clue2, Points: rw.Points})
	}
	return hw, nil
}

// DecodeParameters reads a game_parameters document. Negative values are
// rejected; zero falls back to the engine defaults.
func DecodeParameters(r io.Reader) (game.Parameters, error) {
	var p game.Parameters
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return p, fmt.Errorf("decode parameters: %w", err)
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"startingScore", p.StartingScore},
		{"penalties.wrongGuess", p.Penalties.WrongGuess},
		{"penalties.revealWord", p.Penalties.RevealWord},
		{"marketplace.vowel.cost", p.Marketplace.Vowel.Cost},
		{"marketplace.consonant.cost", p.Marketplace.Consonant.Cost},
		{"initialCluesShown", p.InitialCluesShown},
		{"initialSuffixesShown", p.InitialSuffixesShown},
	} {
		if f.v < 0 {
			return p, fmt.Errorf("%w: %s is %d", ErrNegativeParameter, f.name, f.v)
		}
	}
	return p, nil
}

// DecodeSuffixes reads a {"suffixes": [...]} document. Blank endings are dropped.
func DecodeSuffixes(r io.Reader) ([]game.SuffixRule, error) {
	var doc struct {
		Suffixes []game.SuffixRule `json:"suffixes"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode suffixes: %w", err)
	}
	out := doc.Suffixes[:0]
	for _, s := range doc.Suffixes {
		s.Ending = strings.ToLower(strings.TrimSpace(s.Ending))
		if s.Ending != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
