package game

import (
	"strings"
	"unicode/utf8"
)

const (
	vowels     = "aeiou"
	consonants = "bcdfghjklmnpqrstvwxyz"
)

// market holds purchased letters and the free opening selection.
type market struct {
	vowels            LetterSet
	consonants        LetterSet
	pendingVowel      rune
	pendingConsonants []rune
	complete          bool
}

func newMarket() market {
	return market{vowels: LetterSet{}, consonants: LetterSet{}}
}

// parseLetter accepts exactly one letter from alphabet, case-insensitively.
func parseLetter(s, alphabet string) (rune, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, strings.ContainsRune(alphabet, r)
}

func (s *Session) marketResult(r rune, cost int) PurchaseResult {
	res := PurchaseResult{Cost: cost, Score: s.score}
	if r != 0 {
		res.Letter = string(r)
	}
	return res
}

// SelectVowel picks the free vowel during the opening selection.
func (s *Session) SelectVowel(letter string) (PurchaseResult, error) {
	r, ok := parseLetter(letter, vowels)
	res := s.marketResult(r, 0)
	switch {
	case s.market.complete:
		return res, ErrSelectionClosed
	case !ok:
		return res, ErrNotVowel
	case s.market.pendingVowel != 0:
		return res, ErrVowelChosen
	}
	s.market.pendingVowel = r
	res.Success = true
	return res, nil
}

// SelectConsonant adds one of the two free consonants.
func (s *Session) SelectConsonant(letter string) (PurchaseResult, error) {
	r, ok := parseLetter(letter, consonants)
	res := s.marketResult(r, 0)
	switch {
	case s.market.complete:
		return res, ErrSelectionClosed
	case !ok:
		return res, ErrNotConsonant
	case len(s.market.pendingConsonants) >= 2:
		return res, ErrConsonantsChosen
	}
	for _, c := range s.market.pendingConsonants {
		if c == r {
			return res, ErrDuplicateLetter
		}
	}
	s.market.pendingConsonants = append(s.market.pendingConsonants, r)
	res.Success = true
	return res, nil
}

// CompleteSelection commits the free letters and opens the game: the letters
// become visible everywhere, drop out of the ledger, and the opening clues
// and suffixes are revealed.
func (s *Session) CompleteSelection() error {
	if s.market.complete {
		return ErrSelectionClosed
	}
	if s.market.pendingVowel == 0 || len(s.market.pendingConsonants) != 2 {
		return ErrSelectionIncomplete
	}
	m := &s.market
	m.complete = true
	m.vowels.Add(m.pendingVowel)
	s.ledger.Clear(m.pendingVowel)
	for _, c := range m.pendingConsonants {
		m.consonants.Add(c)
		s.ledger.Clear(c)
	}
	s.chosenVowel = m.pendingVowel
	s.initReveals()
	s.log.Debug().
		Str("vowel", string(m.pendingVowel)).
		Str("consonants", string(m.pendingConsonants)).
		Msg("letter selection complete")
	return nil
}

// PurchaseVowel reveals a vowel everywhere for the configured vowel cost.
func (s *Session) PurchaseVowel(letter string) (PurchaseResult, error) {
	return s.purchase(letter, vowels, s.market.vowels, s.params.Marketplace.Vowel.Cost, ErrNotVowel)
}

// PurchaseConsonant reveals a consonant everywhere for the configured cost.
func (s *Session) PurchaseConsonant(letter string) (PurchaseResult, error) {
	return s.purchase(letter, consonants, s.market.consonants, s.params.Marketplace.Consonant.Cost, ErrNotConsonant)
}

func (s *Session) purchase(letter, alphabet string, owned LetterSet, cost int, errClass error) (PurchaseResult, error) {
	r, ok := parseLetter(letter, alphabet)
	res := s.marketResult(r, cost)
	switch {
	case !s.market.complete:
		return res, ErrSelectionPending
	case !ok:
		return res, errClass
	case owned.Has(r):
		return res, ErrAlreadyPurchased
	case s.score < cost:
		return res, ErrInsufficientScore
	}
	s.score -= cost
	owned.Add(r)
	s.ledger.Clear(r)
	s.guardScore()
	res.Success = true
	res.Score = s.score
	return res, nil
}

// ChosenVowel is the free vowel, empty until the selection completes.
func (s *Session) ChosenVowel() string {
	if s.chosenVowel == 0 {
		return ""
	}
	return string(s.chosenVowel)
}

// InitPhase is true until the opening selection completes.
func (s *Session) InitPhase() bool { return !s.market.complete }

func (s *Session) SelectionComplete() bool { return s.market.complete }

// PendingSelection returns the free letters chosen so far.
func (s *Session) PendingSelection() (vowel string, consonants []string) {
	if s.market.pendingVowel != 0 {
		vowel = string(s.market.pendingVowel)
	}
	for _, c := range s.market.pendingConsonants {
		consonants = append(consonants, string(c))
	}
	return vowel, consonants
}

func (s *Session) PurchasedVowels() []string { return s.market.vowels.Sorted() }

func (s *Session) PurchasedConsonants() []string { return s.market.consonants.Sorted() }

// BestConsonant suggests the unpurchased consonant that occurs most often in
// the open words. Ties go to the letter seen first. Returns "" during the
// opening selection or when nothing is left to buy.
func (s *Session) BestConsonant() string {
	if s.InitPhase() {
		return ""
	}
	counts := make(map[rune]int)
	var order []rune
	for _, w := range s.words {
		if w.Closed() {
			continue
		}
		for _, r := range strings.ToLower(w.Word) {
			if !strings.ContainsRune(consonants, r) || s.market.consonants.Has(r) {
				continue
			}
			if counts[r] == 0 {
				order = append(order, r)
			}
			counts[r]++
		}
	}
	var best rune
	for _, r := range order {
		if counts[r] > counts[best] {
			best = r
		}
	}
	if best == 0 {
		return ""
	}
	return string(best)
}
