package emit

import (
	"context"
	"fmt"
	"io"

	"github.com/dgallion1/readinglist/internal/reading"
)

// JSONWriter emits {"readingGroups": [...], "readings": [...]}.
type JSONWriter struct{}

func (JSONWriter) ContentType() string { return "application/json" }

func (JSONWriter) Write(_ context.Context, w io.Writer, bib reading.Bibliography) error {
	bib.Groups = nonNilGroups(bib.Groups)
	bib.Readings = nonNilReadings(bib.Readings)
	data, err := marshalIndent(bib)
	if err != nil {
		return fmt.Errorf("marshal bibliography: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
