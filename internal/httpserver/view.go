package httpserver

import "github.com/robalobadob/parasight/internal/game"

// sessionView is the client-facing projection of a game.Session. It never
// carries the text of a word that is still open, nor a clue tier easier than
// the ones the player has displayed.
type sessionView struct {
	ParagraphID string `json:"paragraphId"`
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Text        string `json:"text"`

	State      string `json:"state"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"maxScore"`
	Percentage int    `json:"percentage"`
	Attempts   int    `json:"attempts"`
	Complete   bool   `json:"complete"`
	Finished   bool   `json:"finished"`

	InitPhase           bool           `json:"initPhase"`
	SelectionComplete   bool           `json:"selectionComplete"`
	ChosenVowel         string         `json:"chosenVowel,omitempty"`
	PendingVowel        string         `json:"pendingVowel,omitempty"`
	PendingConsonants   []string       `json:"pendingConsonants"`
	PurchasedVowels     []string       `json:"purchasedVowels"`
	PurchasedConsonants []string       `json:"purchasedConsonants"`
	LetterCounts        map[string]int `json:"letterCounts"`
	BestConsonant       string         `json:"bestConsonant,omitempty"`

	Prices game.Marketplace `json:"prices"`

	ShownIndices  []int      `json:"shownIndices"`
	SuffixIndices []int      `json:"suffixIndices"`
	Words         []wordView `json:"words"`
}

type wordView struct {
	Index               int         `json:"index"`
	Length              int         `json:"length"`
	Display             string      `json:"display"`
	Word                string      `json:"word,omitempty"` // only once found or revealed
	Difficulty          string      `json:"difficulty,omitempty"`
	Found               bool        `json:"found"`
	Revealed            bool        `json:"revealed"`
	ClueShown           bool        `json:"clueShown"`
	SuffixShown         bool        `json:"suffixShown"`
	ActiveClueIndex     int         `json:"activeClueIndex"`
	LowestClueIndexSeen int         `json:"lowestClueIndexSeen"`
	Award               int         `json:"award"`
	ClueCount           int         `json:"clueCount"`
	Clues               []game.Clue `json:"clues,omitempty"` // tiers seen so far
}

func newSessionView(s *game.Session) sessionView {
	p := s.Paragraph()
	vowel, pending := s.PendingSelection()
	v := sessionView{
		ParagraphID:         p.ID,
		Title:               p.Title,
		Date:                p.Date,
		Text:                s.MaskedText(),
		State:               s.State(),
		Score:               s.Score(),
		MaxScore:            s.MaxScore(),
		Percentage:          s.Percentage(),
		Attempts:            s.Attempts(),
		Complete:            s.Complete(),
		Finished:            s.Finished(),
		InitPhase:           s.InitPhase(),
		SelectionComplete:   s.SelectionComplete(),
		ChosenVowel:         s.ChosenVowel(),
		PendingVowel:        vowel,
		PendingConsonants:   nonNil(pending),
		PurchasedVowels:     nonNil(s.PurchasedVowels()),
		PurchasedConsonants: nonNil(s.PurchasedConsonants()),
		LetterCounts:        s.LetterCounts(),
		BestConsonant:       s.BestConsonant(),
		Prices:              s.Parameters().Marketplace,
		ShownIndices:        s.ShownIndices(),
		SuffixIndices:       s.SuffixIndices(),
	}

	for i, w := range s.Words() {
		wv := wordView{
			Index:               i,
			Length:              len([]rune(w.Word)),
			Display:             s.MaskedWord(i),
			Difficulty:          w.Difficulty,
			Found:               w.Found,
			Revealed:            w.Revealed,
			ClueShown:           s.ClueShown(i),
			SuffixShown:         s.SuffixShown(i),
			ActiveClueIndex:     w.ActiveClueIndex,
			LowestClueIndexSeen: w.LowestClueIndexSeen,
			Award:               w.Award(),
			ClueCount:           len(w.Clues),
		}
		if w.Closed() {
			wv.Word = w.Word
		}
		switch {
		case w.Closed():
			wv.Clues = w.Clues
		case wv.ClueShown:
			wv.Clues = w.Clues[:seenTiers(w)]
		}
		v.Words = append(v.Words, wv)
	}
	return v
}

// seenTiers counts the clue tiers up to the easiest one displayed. Easier
// tiers stay hidden since viewing them lowers the award.
func seenTiers(w game.Word) int {
	n := w.LowestClueIndexSeen + 1
	if n > len(w.Clues) {
		n = len(w.Clues)
	}
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
