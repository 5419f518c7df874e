package assets

import (
	"embed"
	"io"
)

//go:embed paras.json game_parameters.json suffixes.json
var FS embed.FS

func open(name string) (io.ReadCloser, error) {
	return FS.Open(name)
}

func Paragraphs() (io.ReadCloser, error) {
	return open("paras.json")
}

func Parameters() (io.ReadCloser, error) {
	return open("game_parameters.json")
}

func Suffixes() (io.ReadCloser, error) {
	return open("suffixes.json")
}
