// Package emit renders a segmented bibliography in the supported output
// formats.
package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
)

// ErrUnknownFormat is returned for output format names no writer handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer serializes a bibliography.
type Writer interface {
	Write(ctx context.Context, w io.Writer, bib reading.Bibliography) error
	ContentType() string
}

// Formats lists the accepted format names.
var Formats = []string{"ts", "json", "sqlite"}

// ForFormat returns the writer registered for name.
func ForFormat(name string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ts", "typescript":
		return TSWriter{}, nil
	case "json":
		return JSONWriter{}, nil
	case "sqlite", "sqlite3", "db":
		return SQLiteWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatForPath guesses a format from an output file name, returning ""
// when the extension is not recognized.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return "ts"
	case ".json":
		return "json"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	}
	return ""
}

// marshalIndent is json.MarshalIndent without HTML escaping, so "&" and
// "<" in titles stay readable in generated sources.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
