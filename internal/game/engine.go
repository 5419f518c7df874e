// internal/game/engine.go
//
// Core game engine for a single ParaSight session.
// Responsibilities:
//   - Build the runtime word list from a paragraph, excluding words that do
//     not occur in its text or carry no clues.
//   - Validate and apply guesses; award points from the easiest clue tier
//     the player has viewed; apply wrong-guess penalties (floored at zero).
//   - Reveal words for a penalty.
//   - Track completion.
//
// Notes:
//   - A Session is single-owner and not safe for concurrent use; callers
//     serialize access (see internal/store).
//   - Marketplace and reveal scheduling live in market.go and reveal.go.
package game

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session is the complete state of one game on one paragraph.
type Session struct {
	paragraph Paragraph
	params    Parameters
	suffixes  []SuffixRule
	rng       Rand
	log       zerolog.Logger

	words       []*Word
	score       int
	maxScore    int
	shown       map[int]struct{}
	suffixShown map[int]struct{}
	ledger      *Ledger
	market      market
	chosenVowel rune
	attempts    int
}

// Option customizes a Session.
type Option func(*Session)

// WithRand injects the random source used by the reveal scheduler.
func WithRand(r Rand) Option {
	return func(s *Session) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLogger overrides the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession starts a fresh game on p. The session begins in the initial
// selection phase with score set to the configured starting score.
func NewSession(p Paragraph, params Parameters, suffixes []SuffixRule, opts ...Option) (*Session, error) {
	s := &Session{
		paragraph:   p,
		params:      params.withDefaults(),
		suffixes:    append([]SuffixRule(nil), suffixes...),
		rng:         cryptoRand{},
		log:         log.Logger,
		shown:       make(map[int]struct{}),
		suffixShown: make(map[int]struct{}),
		ledger:      NewLedger(),
		market:      newMarket(),
	}
	for _, o := range opts {
		o(s)
	}

	for _, hw := range p.HiddenWords {
		text := strings.TrimSpace(hw.Word)
		if text == "" || len(hw.Clues) == 0 {
			s.log.Warn().Str("paragraph", p.ID).Str("word", hw.Word).Msg("hidden word has no clues; excluded")
			continue
		}
		pos := Locate(p.Text, text)
		if len(pos) == 0 {
			s.log.Warn().Str("paragraph", p.ID).Str("word", text).Msg("hidden word not found in paragraph text; excluded")
			continue
		}
		w := &Word{
			Word:       text,
			Difficulty: hw.Difficulty,
			Clues:      append([]Clue(nil), hw.Clues...),
			Positions:  pos,
		}
		s.maxScore += w.BasePoints()
		s.words = append(s.words, w)
	}
	if len(s.words) == 0 {
		return nil, ErrNoWords
	}

	s.score = s.params.StartingScore
	s.ledger.Initialize(s.words)
	return s, nil
}

// Guess applies a guess attempt.
//
// Blocked attempts (selection pending, empty input, game over, or the text of
// a word the player already paid to reveal) return an error and change
// nothing. Otherwise the attempt either finds a word or costs the wrong-guess
// penalty, and in both cases the reveal scheduler advances.
func (s *Session) Guess(text string) (GuessResult, error) {
	res := GuessResult{WordIndex: -1, Score: s.score, Advance: noAdvance()}
	if !s.market.complete {
		return res, ErrSelectionPending
	}
	guess := strings.TrimSpace(text)
	if guess == "" {
		return res, ErrEmptyGuess
	}
	if s.Finished() {
		return res, ErrGameOver
	}

	idx, closed := s.match(guess)
	if closed {
		return res, ErrWordClosed
	}

	if idx >= 0 {
		w := s.words[idx]
		w.Found = true
		res.Success = true
		res.WordIndex = idx
		res.PointsEarned = w.Award()
		s.score += res.PointsEarned
		s.ledger.Consume(w.Word)
	} else {
		res.Penalty = s.deduct(s.params.Penalties.WrongGuess)
	}
	res.Advance = s.advance()
	res.GameComplete = s.Complete()
	s.guardScore()
	res.Score = s.score
	return res, nil
}

// match finds an unfound word equal to guess. closed is true when the only
// match is a word that was revealed.
func (s *Session) match(guess string) (idx int, closed bool) {
	idx = -1
	for i, w := range s.words {
		if w.Found || !strings.EqualFold(w.Word, guess) {
			continue
		}
		if w.Revealed {
			closed = true
			continue
		}
		return i, false
	}
	return idx, closed
}

// RevealWord gives up on a word: it is shown in full for a penalty equal to
// its base value (or the configured default), capped at the current score.
func (s *Session) RevealWord(i int) (RevealResult, error) {
	res := RevealResult{Score: s.score}
	if i < 0 || i >= len(s.words) {
		return res, ErrWordIndex
	}
	if !s.market.complete {
		return res, ErrSelectionPending
	}
	w := s.words[i]
	if w.Closed() {
		return res, ErrWordClosed
	}

	penalty := w.BasePoints()
	if penalty <= 0 {
		penalty = s.params.Penalties.RevealWord
	}
	w.Revealed = true
	res.Success = true
	res.PointsDeducted = s.deduct(penalty)
	s.ledger.Consume(w.Word)
	s.shown[i] = struct{}{}
	s.guardScore()
	res.Score = s.score
	return res, nil
}

// deduct removes up to amount from the score and returns what was taken.
func (s *Session) deduct(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > s.score {
		amount = s.score
	}
	s.score -= amount
	return amount
}

// guardScore resets a corrupted score. It should never fire.
func (s *Session) guardScore() {
	if s.score < 0 {
		s.log.Error().Int("score", s.score).Str("paragraph", s.paragraph.ID).Msg("score corrupted; reset to starting value")
		s.score = s.params.StartingScore
	}
}

// Complete reports whether every word has been found by guessing.
func (s *Session) Complete() bool {
	for _, w := range s.words {
		if !w.Found {
			return false
		}
	}
	return true
}

// Finished reports whether no word is left to play: each is found or revealed.
func (s *Session) Finished() bool {
	for _, w := range s.words {
		if !w.Closed() {
			return false
		}
	}
	return true
}

// State reports a coarse string representation of the session.
func (s *Session) State() string {
	switch {
	case !s.market.complete:
		return "selecting"
	case s.Complete():
		return "complete"
	case s.Finished():
		return "finished"
	}
	return "playing"
}

// ----------------------------- accessors -----------------------------------

func (s *Session) Paragraph() Paragraph { return s.paragraph }

func (s *Session) Parameters() Parameters { return s.params }

func (s *Session) Score() int { return s.score }

func (s *Session) MaxScore() int { return s.maxScore }

// Attempts counts guess attempts that reached the scheduler.
func (s *Session) Attempts() int { return s.attempts }

// LetterCounts is a snapshot of the letter ledger.
func (s *Session) LetterCounts() map[string]int { return s.ledger.Snapshot() }

// Percentage is score relative to the maximum score. It can exceed 100.
func (s *Session) Percentage() int {
	if s.maxScore <= 0 {
		return 0
	}
	return s.score * 100 / s.maxScore
}

// Len is the number of playable words.
func (s *Session) Len() int { return len(s.words) }

// Word returns a copy of word i.
func (s *Session) Word(i int) (Word, bool) {
	if i < 0 || i >= len(s.words) {
		return Word{}, false
	}
	return copyWord(s.words[i]), true
}

// Words returns copies of every word with runtime flags.
func (s *Session) Words() []Word {
	out := make([]Word, len(s.words))
	for i, w := range s.words {
		out[i] = copyWord(w)
	}
	return out
}

func copyWord(w *Word) Word {
	c := *w
	c.Clues = append([]Clue(nil), w.Clues...)
	c.Positions = append([]Position(nil), w.Positions...)
	return c
}

// ShownIndices lists words whose clue is visible, ascending.
func (s *Session) ShownIndices() []int { return sortedKeys(s.shown) }

// SuffixIndices lists words whose suffix is exposed, ascending.
func (s *Session) SuffixIndices() []int { return sortedKeys(s.suffixShown) }

func (s *Session) ClueShown(i int) bool {
	_, ok := s.shown[i]
	return ok
}

func (s *Session) SuffixShown(i int) bool {
	_, ok := s.suffixShown[i]
	return ok
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// MaskedWord is word i as the player currently sees it.
func (s *Session) MaskedWord(i int) string {
	if i < 0 || i >= len(s.words) {
		return ""
	}
	w := s.words[i]
	if w.Closed() {
		return w.Word
	}
	return Mask(w.Word, s.maskOptions(i))
}

// MaskedText is the paragraph with every occurrence of each open word masked.
// Replacements run right to left so earlier offsets stay valid.
func (s *Session) MaskedText() string {
	type span struct {
		Position
		word int
	}
	var spans []span
	for i, w := range s.words {
		if w.Closed() {
			continue
		}
		for _, p := range w.Positions {
			spans = append(spans, span{Position: p, word: i})
		}
	}
	sort.Slice(spans, func(a, b int) bool { return spans[a].Start > spans[b].Start })

	text := s.paragraph.Text
	limit := len(text)
	for _, sp := range spans {
		if sp.End > limit {
			continue // overlaps a span already masked
		}
		text = text[:sp.Start] + Mask(text[sp.Start:sp.End], s.maskOptions(sp.word)) + text[sp.End:]
		limit = sp.Start
	}
	return text
}

func (s *Session) maskOptions(i int) MaskOptions {
	o := MaskOptions{
		Vowel:      s.chosenVowel,
		Vowels:     s.market.vowels,
		Consonants: s.market.consonants,
		Locked:     !s.market.complete,
	}
	if s.SuffixShown(i) {
		o.SuffixEnding = s.suffixFor(i)
	}
	return o
}
