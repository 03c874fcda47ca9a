package segment

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/readinglist/internal/reading"
)

// Sentinels substituted when a citation cannot be parsed.
const (
	UnknownAuthors = "Unknown"
	UnknownTitle   = "Unknown Title"
	UnknownVenue   = "Unknown Venue"
)

// Citation is the metadata extracted from a citation block.
type Citation struct {
	Authors string
	Year    int
	Title   string
	Venue   string
	Links   reading.ExternalLinks
}

var (
	yearRe = regexp.MustCompile(`\((\d{4})\)`)
	linkRe = regexp.MustCompile(`(?:https?://|\bdoi\.org/)\S+`)
)

// ParseCitation extracts authors, year, title, venue and link from a
// citation of the form "Authors (Year). Title. Venue. URL". Without a
// parenthesized year every text field is a sentinel and the year is
// fallbackYear.
func ParseCitation(citation string, fallbackYear int) Citation {
	if fallbackYear <= 0 {
		fallbackYear = DefaultFallbackYear
	}
	c := Citation{
		Authors: UnknownAuthors,
		Year:    fallbackYear,
		Title:   UnknownTitle,
		Venue:   UnknownVenue,
		Links:   ExtractLinks(citation),
	}

	loc := yearRe.FindStringSubmatchIndex(citation)
	if loc == nil {
		return c
	}
	if year, err := strconv.Atoi(citation[loc[2]:loc[3]]); err == nil {
		c.Year = year
	}

	authors := strings.TrimSpace(citation[:loc[0]])

	rest := strings.TrimSpace(citation[loc[1]:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "."))
	title, venue, _ := strings.Cut(rest, ". ")
	title = beforeLink(title)
	venue = beforeLink(venue)

	c.Authors = orDefault(authors, UnknownAuthors)
	c.Title = orDefault(strings.TrimSpace(title), UnknownTitle)
	c.Venue = orDefault(strings.TrimSpace(venue), UnknownVenue)
	return c
}

// ExtractLinks finds the first link in a citation and classifies it: a
// doi.org link is the DOI, a link to a .pdf file is the PDF, anything else
// the generic URL.
func ExtractLinks(citation string) reading.ExternalLinks {
	raw := linkRe.FindString(citation)
	if raw == "" {
		return reading.ExternalLinks{}
	}
	link := trimLinkPunctuation(raw)
	if strings.HasPrefix(link, "doi.org/") {
		link = "https://" + link
	}

	switch {
	case strings.Contains(link, "doi.org"):
		return reading.ExternalLinks{DOI: link}
	case isPDF(link):
		return reading.ExternalLinks{PDF: link}
	default:
		return reading.ExternalLinks{URL: link}
	}
}

// trimLinkPunctuation drops sentence punctuation stuck to the end of a link.
// A closing paren is kept when it balances an opening one inside the link.
func trimLinkPunctuation(link string) string {
	for link != "" {
		last := link[len(link)-1]
		switch {
		case strings.IndexByte(".,;:", last) >= 0:
			link = link[:len(link)-1]
		case last == ')' && strings.Count(link, "(") < strings.Count(link, ")"):
			link = link[:len(link)-1]
		default:
			return link
		}
	}
	return link
}

func isPDF(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(link), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// beforeLink keeps the text ahead of the first link, minus an opening paren
// or trailing period left behind by the cut.
func beforeLink(s string) string {
	if loc := linkRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = strings.TrimRight(s, " \t(")
	return strings.TrimSpace(strings.TrimSuffix(s, "."))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
