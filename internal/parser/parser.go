package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
)

// ErrUnsupported is returned for file extensions no parser handles.
var ErrUnsupported = errors.New("unsupported file extension")

// Parser converts raw document bytes into plain bibliography text.
//
// Every implementation produces the same layout: paragraphs separated by a
// blank line, headings on their own line and ordered list items numbered
// "N. " so the segmenter sees the numbering the author saw.
type Parser interface {
	Parse(r io.Reader, filename string) (*reading.Source, error)
}

// Options tunes individual parsers.
type Options struct {
	// PDFFallbackPdftotext retries with the pdftotext binary when the
	// built-in PDF reader fails.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename strips the directory and any of the given extensions.
func titleFromFilename(filename string, exts ...string) string {
	base := filepath.Base(filename)
	for _, ext := range exts {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// joinBlocks joins non-empty text blocks with a blank line between them.
func joinBlocks(blocks []string) string {
	kept := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
