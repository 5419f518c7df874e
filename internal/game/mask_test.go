package game

import "testing"

func TestMask(t *testing.T) {
	tests := []struct {
		name string
		word string
		opts MaskOptions
		want string
	}{
		{"locked hides everything", "quick", MaskOptions{Vowel: 'u', Locked: true, SuffixEnding: "ck"}, "_____"},
		{"nothing revealed", "quick", MaskOptions{}, "_____"},
		{"chosen vowel", "Quick", MaskOptions{Vowel: 'U'}, "_u___"},
		{"purchased letters keep case", "Quick", MaskOptions{Vowels: LetterSet{'u': {}}, Consonants: LetterSet{'q': {}}}, "Qu___"},
		{"suffix", "singing", MaskOptions{SuffixEnding: "ing"}, "____ing"},
		{"suffix and vowel", "singing", MaskOptions{Vowel: 'i', SuffixEnding: "ing"}, "_i__ing"},
		{"repeated letter", "loudly", MaskOptions{Consonants: LetterSet{'l': {}}}, "l___l_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mask(tt.word, tt.opts); got != tt.want {
				t.Errorf("Mask(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestMaskIsDeterministic(t *testing.T) {
	o := MaskOptions{Vowel: 'a', Consonants: LetterSet{'z': {}}, SuffixEnding: "y"}
	first := Mask("lazy", o)
	if second := Mask("lazy", o); first != second {
		t.Errorf("Mask not idempotent: %q then %q", first, second)
	}
	if first != "_azy" {
		t.Errorf("Mask = %q, want _azy", first)
	}
}
