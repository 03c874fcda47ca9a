package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
)

// TextParser handles plain text files. Line structure is kept as-is apart
// from line endings and trailing whitespace.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*reading.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &reading.Source{
		Title: titleFromFilename(filename, ".txt"),
		Text:  strings.TrimSpace(strings.Join(lines, "\n")),
	}, nil
}
