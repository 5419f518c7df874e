package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/robalobadob/parasight/internal/game"
)

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	difficultyLevels = map[string]bool{"Easy": true, "Intermediate": true, "Medium": true, "Hard": true}
	clueTypes        = map[string]bool{"Indirect": true, "Suggestive": true, "Straight": true}
)

// Validate checks a paragraph against the authoring schema and returns every
// problem found. Optional fields are only checked when present.
func Validate(p game.Paragraph) []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(p.ID) == "" {
		add("missing id")
	}
	if strings.TrimSpace(p.Text) == "" {
		add("missing text")
	}
	if p.Date != "" && !dateRegexp.MatchString(p.Date) {
		add("invalid date format %q (expected YYYY-MM-DD)", p.Date)
	}
	if len(p.HiddenWords) == 0 {
		add("no hidden words")
	}

	for i, hw := range p.HiddenWords {
		prefix := fmt.Sprintf("hiddenWords[%d]", i)
		if strings.TrimSpace(hw.Word) == "" {
			add("%s: missing word", prefix)
		}
		if hw.Difficulty != "" && !difficultyLevels[hw.Difficulty] {
			add("%s: invalid difficulty %q", prefix, hw.Difficulty)
		}
		if len(hw.Clues) == 0 {
			add("%s: no clues", prefix)
		}
		for j, c := range hw.Clues {
			cp := fmt.Sprintf("%s.clues[%d]", prefix, j)
			if c.Type != "" && !clueTypes[c.Type] {
				add("%s: invalid type %q", cp, c.Type)
			}
			if strings.TrimSpace(c.Clue) == "" {
				add("%s: empty clue", cp)
			}
			if c.Points < 0 {
				add("%s: negative points %d", cp, c.Points)
			}
		}
	}
	return errs
}
