// internal/content/load.go
//
// Loads the content bundle (paragraphs, parameters, suffix rules).
//
// Each document comes from its configured file path, or from the embedded
// defaults in package assets when the path is empty. A configured path that
// cannot be read is an error; it never silently falls back.

package content

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/parasight/assets"
	"github.com/robalobadob/parasight/internal/game"
)

// Bundle is everything needed to start sessions.
type Bundle struct {
	Paragraphs []game.Paragraph
	Parameters game.Parameters
	Suffixes   []game.SuffixRule
}

// Sources names optional override files. Empty fields use embedded defaults.
type Sources struct {
	ParagraphsFile string
	ParametersFile string
	SuffixesFile   string
}

// Load reads the bundle described by src.
func Load(src Sources) (Bundle, error) {
	var b Bundle

	err := withSource(src.ParagraphsFile, assets.Paragraphs, func(r io.Reader) (err error) {
		b.Paragraphs, err = DecodeParagraphs(r)
		return err
	})
	if err != nil {
		return b, err
	}
	err = withSource(src.ParametersFile, assets.Parameters, func(r io.Reader) (err error) {
		b.Parameters, err = DecodeParameters(r)
		return err
	})
	if err != nil {
		return b, err
	}
	err = withSource(src.SuffixesFile, assets.Suffixes, func(r io.Reader) (err error) {
		b.Suffixes, err = DecodeSuffixes(r)
		return err
	})
	if err != nil {
		return b, err
	}

	log.Info().
		Int("paragraphs", len(b.Paragraphs)).
		Int("suffixes", len(b.Suffixes)).
		Msg("content loaded")
	return b, nil
}

// Defaults loads the embedded bundle.
func Defaults() (Bundle, error) {
	return Load(Sources{})
}

func withSource(path string, fallback func() (io.ReadCloser, error), fn func(io.Reader) error) error {
	var rc io.ReadCloser
	var err error
	if path != "" {
		rc, err = os.Open(path)
	} else {
		rc, err = fallback()
	}
	if err != nil {
		if path == "" {
			return fmt.Errorf("open embedded content: %w", err)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()
	return fn(rc)
}
