// internal/game/types.go
//
// Core type definitions for the ParaSight game engine.
// Defines:
//   - Paragraph / HiddenWord / Clue: authoring data, immutable once loaded.
//   - Word: runtime state for one hidden word in a session.
//   - Parameters / SuffixRule: externally supplied game configuration.
//   - Result types returned by engine operations.

package game

// Position is a half-open byte range [Start, End) into a paragraph's text.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Clue is one difficulty tier of a hint. Clues are ordered hardest first.
type Clue struct {
	Type   string `json:"type,omitempty"`
	Clue   string `json:"clue"`
	Points int    `json:"points"`
}

// HiddenWord is the authoring record for a word hidden in a paragraph.
type HiddenWord struct {
	Word       string `json:"word"`
	Difficulty string `json:"difficulty,omitempty"`
	Clues      []Clue `json:"clues"`
}

// Paragraph is a puzzle: a block of text plus the words hidden in it.
type Paragraph struct {
	ID          string       `json:"id"`
	Date        string       `json:"date,omitempty"`
	Title       string       `json:"title,omitempty"`
	Text        string       `json:"text"`
	HiddenWords []HiddenWord `json:"hiddenWords"`
}

// Word holds the runtime state of a single hidden word.
//
// Found and Revealed are terminal and mutually exclusive. Once either is set
// the word accepts no further clue or suffix changes.
type Word struct {
	Word                string     // as authored
	Difficulty          string     // informational
	Clues               []Clue     // never empty
	Positions           []Position // every whole-word match in the paragraph text
	Found               bool
	Revealed            bool
	ActiveClueIndex     int // clue tier currently displayed
	LowestClueIndexSeen int // easiest tier ever displayed; never decreases
}

// Closed reports whether the word has reached a terminal state.
func (w *Word) Closed() bool { return w.Found || w.Revealed }

// BasePoints is the value of the hardest clue.
func (w *Word) BasePoints() int {
	if len(w.Clues) == 0 {
		return 0
	}
	return w.Clues[0].Points
}

// Award is the value earned by guessing the word now.
func (w *Word) Award() int {
	if len(w.Clues) == 0 {
		return 0
	}
	i := w.LowestClueIndexSeen
	if i >= len(w.Clues) {
		i = len(w.Clues) - 1
	}
	return w.Clues[i].Points
}

// SuffixRule is a trailing letter pattern eligible for early reveal.
type SuffixRule struct {
	Ending      string `json:"ending"`
	RevealOrder int    `json:"reveal_order"`
}

// Cost is a marketplace price.
type Cost struct {
	Cost int `json:"cost"`
}

// Penalties configures score deductions.
type Penalties struct {
	WrongGuess int `json:"wrongGuess"`
	RevealWord int `json:"revealWord,omitempty"`
}

// Marketplace configures letter prices.
type Marketplace struct {
	Vowel     Cost `json:"vowel"`
	Consonant Cost `json:"consonant"`
}

// Parameters is the game_parameters document. Zero values fall back to
// the defaults in withDefaults.
type Parameters struct {
	StartingScore        int         `json:"startingScore,omitempty"`
	Penalties            Penalties   `json:"penalties"`
	Marketplace          Marketplace `json:"marketplace"`
	InitialCluesShown    int         `json:"initialCluesShown,omitempty"`
	InitialSuffixesShown int         `json:"initialSuffixesShown,omitempty"`
}

const (
	DefaultStartingScore        = 100
	DefaultRevealPenalty        = 5
	DefaultInitialCluesShown    = 3
	DefaultInitialSuffixesShown = 1
)

func (p Parameters) withDefaults() Parameters {
	if p.StartingScore <= 0 {
		p.StartingScore = DefaultStartingScore
	}
	if p.Penalties.RevealWord <= 0 {
		p.Penalties.RevealWord = DefaultRevealPenalty
	}
	if p.InitialCluesShown <= 0 {
		p.InitialCluesShown = DefaultInitialCluesShown
	}
	if p.InitialSuffixesShown <= 0 {
		p.InitialSuffixesShown = DefaultInitialSuffixesShown
	}
	return p
}

// GuessResult is returned by Session.Guess.
type GuessResult struct {
	Success      bool    `json:"success"`
	GameComplete bool    `json:"gameComplete"`
	PointsEarned int     `json:"pointsEarned"`
	Penalty      int     `json:"penalty,omitempty"`
	WordIndex    int     `json:"wordIndex"` // -1 unless Success
	Score        int     `json:"score"`
	Advance      Advance `json:"advance"`
}

// Advance reports what the reveal scheduler exposed after a guess attempt.
type Advance struct {
	ClueRevealed   bool `json:"clueRevealed"`
	ClueIndex      int  `json:"clueIndex"`
	SuffixRevealed bool `json:"suffixRevealed"`
	SuffixIndex    int  `json:"suffixIndex"`
}

// PurchaseResult is returned by every marketplace operation.
type PurchaseResult struct {
	Success bool   `json:"success"`
	Letter  string `json:"letter,omitempty"`
	Cost    int    `json:"cost"`
	Score   int    `json:"score"`
}

// RevealResult is returned by Session.RevealWord.
type RevealResult struct {
	Success        bool `json:"success"`
	PointsDeducted int  `json:"pointsDeducted"`
	Score          int  `json:"score"`
}
