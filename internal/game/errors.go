package game

import "errors"

// Rejections returned alongside a populated result. None of them leave the
// session partially mutated.
var (
	ErrSelectionPending    = errors.New("letter selection not complete")
	ErrSelectionClosed     = errors.New("letter selection already complete")
	ErrSelectionIncomplete = errors.New("select 1 vowel and 2 consonants first")
	ErrVowelChosen         = errors.New("vowel already selected")
	ErrConsonantsChosen    = errors.New("consonants already selected")
	ErrDuplicateLetter     = errors.New("letter already selected")
	ErrNotVowel            = errors.New("not a vowel")
	ErrNotConsonant        = errors.New("not a consonant")
	ErrAlreadyPurchased    = errors.New("letter already purchased")
	ErrInsufficientScore   = errors.New("not enough links")
	ErrEmptyGuess          = errors.New("empty guess")
	ErrGameOver            = errors.New("game finished")
	ErrWordIndex           = errors.New("word index out of range")
	ErrWordClosed          = errors.New("word already found or revealed")
	ErrClueOutOfRange      = errors.New("clue index out of range")
	ErrNoWords             = errors.New("paragraph has no playable hidden words")
)
