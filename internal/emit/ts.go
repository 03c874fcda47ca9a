package emit

import (
	"context"
	"fmt"
	"io"

	"github.com/dgallion1/readinglist/internal/reading"
)

// TSWriter emits a TypeScript module exporting readingGroups and readings.
type TSWriter struct{}

func (TSWriter) ContentType() string { return "text/typescript; charset=utf-8" }

func (TSWriter) Write(_ context.Context, w io.Writer, bib reading.Bibliography) error {
	groups, err := marshalIndent(nonNilGroups(bib.Groups))
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	readings, err := marshalIndent(nonNilReadings(bib.Readings))
	if err != nil {
		return fmt.Errorf("marshal readings: %w", err)
	}

	_, err = fmt.Fprintf(w, "import { Reading, ReadingGroup } from \"./readings\";\n\n"+
		"export const readingGroups: ReadingGroup[] = %s;\n\n"+
		"export const readings: Reading[] = %s;\n", groups, readings)
	return err
}

func nonNilGroups(g []reading.Group) []reading.Group {
	if g == nil {
		return []reading.Group{}
	}
	return g
}

func nonNilReadings(r []reading.Reading) []reading.Reading {
	if r == nil {
		return []reading.Reading{}
	}
	return r
}
