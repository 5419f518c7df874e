package game

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Placeholder replaces every hidden character.
const Placeholder = '_'

// LetterSet is a set of lowercase letters.
type LetterSet map[rune]struct{}

func (s LetterSet) Has(r rune) bool {
	_, ok := s[unicode.ToLower(r)]
	return ok
}

func (s LetterSet) Add(r rune) { s[unicode.ToLower(r)] = struct{}{} }

// Sorted returns the letters as sorted single-letter strings.
func (s LetterSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// MaskOptions is everything that decides which characters of a word show.
type MaskOptions struct {
	Vowel        rune // chosen vowel, 0 for none
	Vowels       LetterSet
	Consonants   LetterSet
	SuffixEnding string // non-empty only when this word's suffix is revealed
	Locked       bool   // initial selection not complete: hide everything
}

// Mask renders word with every hidden character replaced by Placeholder.
// A character shows when it matches the chosen vowel, a purchased letter,
// or lies in the trailing len(SuffixEnding) characters of the word.
func Mask(word string, o MaskOptions) string {
	total := utf8.RuneCountInString(word)
	if o.Locked {
		return strings.Repeat(string(Placeholder), total)
	}
	suffixFrom := total
	if o.SuffixEnding != "" {
		suffixFrom = total - utf8.RuneCountInString(o.SuffixEnding)
	}
	var b strings.Builder
	b.Grow(len(word))
	i := 0
	for _, r := range word {
		lr := unicode.ToLower(r)
		switch {
		case o.Vowel != 0 && lr == unicode.ToLower(o.Vowel),
			o.Vowels.Has(lr),
			o.Consonants.Has(lr),
			i >= suffixFrom:
			b.WriteRune(r)
		default:
			b.WriteRune(Placeholder)
		}
		i++
	}
	return b.String()
}
