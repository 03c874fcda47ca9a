// Package segment splits a hand-written annotated bibliography into
// sections, numbered entries and structured readings.
//
// Nothing in this package returns an error. Irregular input degrades to
// sentinel values and processing continues.
package segment

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
)

const (
	// DefaultSummaryLineLimit is the line length above which a line is
	// treated as the start of the body once a summary line exists.
	DefaultSummaryLineLimit = 150

	// DefaultFallbackYear is used when a citation carries no "(YYYY)".
	DefaultFallbackYear = 2025
)

// Options controls segmentation. Zero values fall back to the defaults.
type Options struct {
	SummaryLineLimit int
	FallbackYear     int

	// Groups maps a section number to its descriptive metadata.
	Groups map[int]reading.Group
}

// DefaultOptions returns the defaults.
func DefaultOptions() Options {
	return Options{
		SummaryLineLimit: DefaultSummaryLineLimit,
		FallbackYear:     DefaultFallbackYear,
	}
}

func (o Options) withDefaults() Options {
	if o.SummaryLineLimit <= 0 {
		o.SummaryLineLimit = DefaultSummaryLineLimit
	}
	if o.FallbackYear <= 0 {
		o.FallbackYear = DefaultFallbackYear
	}
	return o
}

// Header: optional opening bracket, "Section", number, colon, title up to a
// closing bracket or newline.
var sectionRe = regexp.MustCompile(`(?is)(?:[<\[]\s*)?\bSection\s+(\d+):\s*(.*?)(?:[>\]]|\n|$)`)

// Entry start: a line beginning with "N." and whitespace.
var entryRe = regexp.MustCompile(`(?m)^(\d+)\.\s+`)

// LocateSections scans text for section headers. Only the first header for
// each section number is kept; a section's content runs from the end of its
// header to the start of the next kept header.
func LocateSections(text string) []reading.Section {
	text = normalizeNewlines(text)

	type header struct {
		number     int
		title      string
		start, end int
	}

	seen := make(map[int]bool)
	var headers []header
	for _, m := range sectionRe.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		headers = append(headers, header{
			number: n,
			title:  strings.TrimSpace(text[m[4]:m[5]]),
			start:  m[0],
			end:    m[1],
		})
	}

	sections := make([]reading.Section, 0, len(headers))
	for i, h := range headers {
		next := len(text)
		if i+1 < len(headers) {
			next = headers[i+1].start
		}
		content := ""
		if h.end < next {
			// Trimmed so an entry on the header's own line still starts a line.
			content = strings.TrimSpace(text[h.end:next])
		}
		sections = append(sections, reading.Section{
			Number:  h.number,
			Title:   h.title,
			Entries: LocateEntries(content),
		})
	}
	return sections
}

// LocateEntries splits section content into raw entry bodies. Text before
// the first numbered line is ignored.
func LocateEntries(content string) []string {
	content = normalizeNewlines(content)
	matches := entryRe.FindAllStringIndex(content, -1)

	entries := make([]string, 0, len(matches))
	for i, m := range matches {
		next := len(content)
		if i+1 < len(matches) {
			next = matches[i+1][0]
		}
		entries = append(entries, strings.TrimSpace(content[m[1]:next]))
	}
	return entries
}

// Parse runs the whole segmentation: sections, entries, entry parts and
// citation metadata. Groups are returned in section order, readings in
// section then entry order.
func Parse(text string, opts Options) ([]reading.Section, reading.Bibliography) {
	opts = opts.withDefaults()
	sections := LocateSections(text)

	bib := reading.Bibliography{
		Groups:   make([]reading.Group, 0, len(sections)),
		Readings: []reading.Reading{},
	}
	slugs := newSlugger()

	for _, sec := range sections {
		group := groupFor(sec, opts.Groups)
		bib.Groups = append(bib.Groups, group)

		for _, raw := range sec.Entries {
			r := BuildReading(raw, opts)
			r.GroupSlug = group.Slug
			r.SectionNumber = sec.Number
			r.Slug = slugs.unique(r.Slug)
			bib.Readings = append(bib.Readings, r)
		}
	}
	return sections, bib
}

// BuildReading turns one raw entry body into a Reading. GroupSlug and
// SectionNumber are left for the caller.
func BuildReading(raw string, opts Options) reading.Reading {
	opts = opts.withDefaults()
	e := SplitEntry(raw, opts.SummaryLineLimit)
	c := ParseCitation(e.Citation, opts.FallbackYear)

	r := reading.Reading{
		Slug:           Slugify(c.Title, slugWords),
		Title:          c.Title,
		Authors:        c.Authors,
		Year:           c.Year,
		Venue:          c.Venue,
		FullCitation:   e.Citation,
		ExternalLinks:  c.Links,
		OneLineSummary: e.Summary,
		Discussion: reading.Discussion{
			CoreIdea:         e.paragraph(0),
			QuestionAnswered: e.paragraph(1),
			WhyItMatters:     e.paragraph(2),
		},
	}
	r.NeedsLink = r.ExternalLinks.Empty()
	return r
}

// groupFor resolves a section's group metadata. Configured metadata wins;
// missing fields are filled from the section header.
func groupFor(sec reading.Section, groups map[int]reading.Group) reading.Group {
	g := groups[sec.Number]
	if g.Title == "" {
		g.Title = sec.Title
	}
	if g.Slug == "" {
		g.Slug = Slugify(sec.Title, slugWords)
	}
	if g.Slug == "" {
		g.Slug = "unknown"
	}
	if g.ThemeTags == nil {
		g.ThemeTags = []string{}
	}
	return g
}

// SectionNumbers returns the section numbers in ascending order.
func SectionNumbers(sections []reading.Section) []int {
	nums := make([]int, 0, len(sections))
	for _, s := range sections {
		nums = append(nums, s.Number)
	}
	sort.Ints(nums)
	return nums
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
