package game

import (
	"strings"
	"unicode"
)

// Ledger counts, per lowercase letter, how many unrevealed occurrences remain
// across the words still in play. Entries are deleted when they reach zero.
type Ledger struct {
	remaining map[rune]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{remaining: make(map[rune]int)}
}

// Initialize resets the counts from every word that is not yet found.
func (l *Ledger) Initialize(words []*Word) {
	l.remaining = make(map[rune]int)
	for _, w := range words {
		if w.Found {
			continue
		}
		for _, r := range strings.ToLower(w.Word) {
			if unicode.IsLetter(r) {
				l.remaining[r]++
			}
		}
	}
}

// Consume subtracts the letters of a word that was found or revealed.
func (l *Ledger) Consume(word string) { l.decrement(word) }

// ConsumeSuffix subtracts the letters of a newly exposed suffix.
func (l *Ledger) ConsumeSuffix(ending string) { l.decrement(ending) }

func (l *Ledger) decrement(s string) {
	for _, r := range strings.ToLower(s) {
		n, ok := l.remaining[r]
		if !ok {
			continue
		}
		if n <= 1 {
			delete(l.remaining, r)
			continue
		}
		l.remaining[r] = n - 1
	}
}

// Clear drops a letter entirely; it is now visible everywhere.
func (l *Ledger) Clear(letter rune) {
	delete(l.remaining, unicode.ToLower(letter))
}

// Count returns the remaining count for a letter.
func (l *Ledger) Count(letter rune) int {
	return l.remaining[unicode.ToLower(letter)]
}

// Total is the sum of all remaining counts.
func (l *Ledger) Total() int {
	t := 0
	for _, n := range l.remaining {
		t += n
	}
	return t
}

// Snapshot returns a copy keyed by single-letter strings, ready for JSON.
func (l *Ledger) Snapshot() map[string]int {
	out := make(map[string]int, len(l.remaining))
	for r, n := range l.remaining {
		out[string(r)] = n
	}
	return out
}
