package segment

import (
	"strings"
	"unicode/utf8"
)

// Entry is a raw entry split into its three parts.
type Entry struct {
	Citation   string   // Citation block, lines joined by single spaces
	Summary    string   // One-line summary, lines joined by single spaces
	Paragraphs []string // Non-empty body paragraphs in order
}

func (e Entry) paragraph(i int) string {
	if i < len(e.Paragraphs) {
		return e.Paragraphs[i]
	}
	return ""
}

// SplitEntry splits an entry body into citation, summary and body paragraphs.
//
// The citation block ends at the first line mentioning "http" or "doi.org";
// without such a line it is the first line alone. After leading blank lines
// the summary collects lines until a blank line, or until a line longer than
// lineLimit once at least one summary line exists. A long first line is kept
// in the summary.
func SplitEntry(text string, lineLimit int) Entry {
	if lineLimit <= 0 {
		lineLimit = DefaultSummaryLineLimit
	}
	text = strings.TrimSpace(normalizeNewlines(text))
	lines := strings.Split(text, "\n")

	cut := 0
	for i, line := range lines {
		if strings.Contains(line, "http") || strings.Contains(line, "doi.org") {
			cut = i
			break
		}
	}
	citation := joinLines(lines[:cut+1])
	rest := lines[cut+1:]

	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}

	var summary, body []string
	inSummary := true
	for _, line := range rest {
		blank := strings.TrimSpace(line) == ""
		switch {
		case inSummary && blank:
			if len(summary) > 0 {
				inSummary = false
			}
		case inSummary && len(summary) > 0 && utf8.RuneCountInString(line) > lineLimit:
			inSummary = false
			body = append(body, line)
		case inSummary:
			summary = append(summary, line)
		case blank:
			body = append(body, "")
		default:
			body = append(body, line)
		}
	}

	return Entry{
		Citation:   citation,
		Summary:    joinLines(summary),
		Paragraphs: splitParagraphs(strings.Join(body, "\n")),
	}
}

// splitParagraphs splits on blank lines and drops empty paragraphs. Lines
// inside a paragraph are joined by single spaces.
func splitParagraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		p = joinLines(strings.Split(p, "\n"))
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func joinLines(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
