// Package pipeline turns uploaded documents into segmented bibliographies.
package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/readinglist/internal/parser"
	"github.com/dgallion1/readinglist/internal/reading"
	"github.com/dgallion1/readinglist/internal/segment"
	"github.com/dgallion1/readinglist/internal/stats"
)

// Warning lists the quality issues found on one reading.
type Warning struct {
	Slug   string          `json:"slug"`
	Issues []segment.Issue `json:"issues"`
}

// Result is the outcome of one conversion.
type Result struct {
	DocID        string               `json:"doc_id"`
	Title        string               `json:"title"`
	Sections     []int                `json:"sections"`
	Bibliography reading.Bibliography `json:"bibliography"`
	Warnings     []Warning            `json:"warnings"`
	Duration     time.Duration        `json:"-"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Converter runs parser -> segmenter -> quality check.
type Converter struct {
	segOpts    segment.Options
	parserOpts parser.Options
	stats      *stats.Conversions
	log        *slog.Logger
}

// NewConverter builds a converter. st may be nil when latency tracking is
// not wanted.
func NewConverter(segOpts segment.Options, parserOpts parser.Options, st *stats.Conversions, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{
		segOpts:    segOpts,
		parserOpts: parserOpts,
		stats:      st,
		log:        log,
	}
}

// Convert extracts text from r and segments it.
func (c *Converter) Convert(ctx context.Context, r io.Reader, filename string) (*Result, error) {
	src, err := c.Extract(ctx, r, filename)
	if err != nil {
		c.recordFailure()
		return nil, err
	}
	return c.Segment(ctx, src)
}

// Extract runs the parser for filename's extension.
func (c *Converter) Extract(ctx context.Context, r io.Reader, filename string) (*reading.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := parser.ForFile(filename, c.parserOpts)
	if err != nil {
		return nil, err
	}
	src, err := p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return src, nil
}

// Segment splits already extracted text into groups and readings.
func (c *Converter) Segment(ctx context.Context, src *reading.Source) (*Result, error) {
	if err := ctx.Err(); err != nil {
		c.recordFailure()
		return nil, err
	}
	start := time.Now()

	sections, bib := segment.Parse(src.Text, c.segOpts)
	res := &Result{
		DocID:        ContentHashHex([]byte(src.Text))[:16],
		Title:        src.Title,
		Sections:     segment.SectionNumbers(sections),
		Bibliography: bib,
		Warnings:     []Warning{},
		CreatedAt:    start,
	}
	for _, r := range bib.Readings {
		if issues := segment.Check(r); len(issues) > 0 {
			res.Warnings = append(res.Warnings, Warning{Slug: r.Slug, Issues: issues})
		}
	}
	res.Duration = time.Since(start)

	if c.stats != nil {
		c.stats.Record(res.Duration, len(bib.Readings))
	}

	log := c.log.With("doc_id", res.DocID, "title", res.Title)
	if len(sections) == 0 {
		log.Warn("no section headers found", "chars", len(src.Text))
	}
	log.Info("converted",
		"sections", len(sections),
		"readings", len(bib.Readings),
		"warnings", len(res.Warnings),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// Concat joins several sources into one, in order. The title is taken from
// the first source.
func Concat(sources ...*reading.Source) *reading.Source {
	out := &reading.Source{}
	texts := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == nil {
			continue
		}
		if out.Title == "" {
			out.Title = s.Title
		}
		texts = append(texts, s.Text)
	}
	out.Text = strings.Join(texts, "\n\n")
	return out
}

func (c *Converter) recordFailure() {
	if c.stats != nil {
		c.stats.RecordFailure()
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
