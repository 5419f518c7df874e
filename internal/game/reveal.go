package game

import (
	"strings"
	"unicode/utf8"
)

func noAdvance() Advance { return Advance{ClueIndex: -1, SuffixIndex: -1} }

// suffixFor returns the first configured ending, in list order, that word i
// ends with. The ending must be shorter than the word.
func (s *Session) suffixFor(i int) string {
	word := strings.ToLower(s.words[i].Word)
	for _, r := range s.suffixes {
		e := strings.ToLower(r.Ending)
		if e == "" || utf8.RuneCountInString(e) >= utf8.RuneCountInString(word) {
			continue
		}
		if strings.HasSuffix(word, e) {
			return e
		}
	}
	return ""
}

// clueCandidates are open words whose clue is still hidden.
func (s *Session) clueCandidates() []int {
	var out []int
	for i, w := range s.words {
		if w.Found {
			continue
		}
		if _, ok := s.shown[i]; ok {
			continue
		}
		out = append(out, i)
	}
	return out
}

// suffixCandidates are open words with a matching ending not yet exposed.
func (s *Session) suffixCandidates() []int {
	var out []int
	for i, w := range s.words {
		if w.Closed() {
			continue
		}
		if _, ok := s.suffixShown[i]; ok {
			continue
		}
		if s.suffixFor(i) != "" {
			out = append(out, i)
		}
	}
	return out
}

// initReveals shows the opening clues and suffixes. The two draws are
// independent: a word may get both.
func (s *Session) initReveals() {
	all := make([]int, len(s.words))
	for i := range all {
		all[i] = i
	}
	for n := 0; n < s.params.InitialCluesShown && len(all) > 0; n++ {
		var i int
		i, all = pick(s.rng, all)
		s.shown[i] = struct{}{}
	}

	cands := s.suffixCandidates()
	for n := 0; n < s.params.InitialSuffixesShown && len(cands) > 0; n++ {
		var i int
		i, cands = pick(s.rng, cands)
		s.exposeSuffix(i)
	}
	s.log.Debug().
		Ints("clues", s.ShownIndices()).
		Ints("suffixes", s.SuffixIndices()).
		Msg("initial reveals")
}

// advance runs after every guess attempt that reached the board: one more
// clue and one more suffix, each when a candidate exists.
func (s *Session) advance() Advance {
	s.attempts++
	a := noAdvance()
	if cands := s.clueCandidates(); len(cands) > 0 {
		i, _ := pick(s.rng, cands)
		s.shown[i] = struct{}{}
		a.ClueRevealed, a.ClueIndex = true, i
	}
	if cands := s.suffixCandidates(); len(cands) > 0 {
		i, _ := pick(s.rng, cands)
		s.exposeSuffix(i)
		a.SuffixRevealed, a.SuffixIndex = true, i
	}
	return a
}

func (s *Session) exposeSuffix(i int) {
	s.suffixShown[i] = struct{}{}
	s.ledger.ConsumeSuffix(s.suffixFor(i))
}

// SetActiveClue switches the clue tier displayed for word i. Viewing an
// easier tier lowers the points the word is worth for the rest of the game;
// switching back to a harder tier does not restore them.
func (s *Session) SetActiveClue(i, clue int) error {
	if i < 0 || i >= len(s.words) {
		return ErrWordIndex
	}
	w := s.words[i]
	if w.Closed() {
		return ErrWordClosed
	}
	if clue < 0 || clue >= len(w.Clues) {
		return ErrClueOutOfRange
	}
	w.ActiveClueIndex = clue
	if clue > w.LowestClueIndexSeen {
		w.LowestClueIndexSeen = clue
	}
	return nil
}
