package game

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Locate returns every whole-word, case-insensitive occurrence of word in
// text, left to right, as byte offsets. A match must not be preceded or
// followed by a letter or digit. Returns nil when there is no match.
func Locate(text, word string) []Position {
	n := len(word)
	if n == 0 || n > len(text) {
		return nil
	}
	var out []Position
	prev := rune(-1)
	for i := 0; i+n <= len(text); {
		if !isWordRune(prev) && strings.EqualFold(text[i:i+n], word) {
			next, _ := utf8.DecodeRuneInString(text[i+n:])
			if i+n == len(text) || !isWordRune(next) {
				out = append(out, Position{Start: i, End: i + n})
				prev, _ = utf8.DecodeLastRuneInString(text[:i+n])
				i += n
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		prev = r
		i += size
	}
	return out
}

func isWordRune(r rune) bool {
	return r >= 0 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
