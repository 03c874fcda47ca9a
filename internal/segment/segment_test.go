package segment

import (
	"strings"
	"testing"

	"github.com/dgallion1/readinglist/internal/reading"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const roundTripEntry = "1. Smith, J. (2020). A Great Paper. Journal of Things. https://doi.org/10.1/x\n\nShort summary.\n\nIdea one.\n\nQuestion one.\n\nWhy it matters."

func TestLocateSections_HeaderStyles(t *testing.T) {
	input := "< Section 1: Foundations >\n1. A (2001). T. V. http://a\n\n" +
		"<Section 2: Plasticity>\n1. B (2002). T. V. http://b\n\n" +
		"Section 3: Calibration\n1. C (2003). T. V. http://c\n"

	sections := LocateSections(input)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}

	want := []struct {
		number int
		title  string
	}{
		{1, "Foundations"},
		{2, "Plasticity"},
		{3, "Calibration"},
	}
	for i, w := range want {
		if sections[i].Number != w.number {
			t.Errorf("section[%d]: expected number %d, got %d", i, w.number, sections[i].Number)
		}
		if sections[i].Title != w.title {
			t.Errorf("section[%d]: expected title %q, got %q", i, w.title, sections[i].Title)
		}
		if len(sections[i].Entries) != 1 {
			t.Errorf("section[%d]: expected 1 entry, got %d", i, len(sections[i].Entries))
		}
	}
}

func TestLocateSections_DuplicateHeaderKeepsFirst(t *testing.T) {
	input := "Section 4: Theory of Mind\n" +
		"1. A (2001). First. Venue. http://a\n\n" +
		"<Section 4: Theory of Mind (repeated)>\n" +
		"2. B (2002). Second. Venue. http://b\n\n" +
		"Section 4: broken duplicate\n" +
		"3. C (2003). Third. Venue. http://c\n"

	sections := LocateSections(input)
	if len(sections) != 1 {
		t.Fatalf("expected exactly 1 section, got %d", len(sections))
	}
	if sections[0].Number != 4 {
		t.Errorf("expected section number 4, got %d", sections[0].Number)
	}
	if sections[0].Title != "Theory of Mind" {
		t.Errorf("expected title %q, got %q", "Theory of Mind", sections[0].Title)
	}
	// Content after the duplicates still belongs to the first header.
	if len(sections[0].Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sections[0].Entries))
	}
}

func TestLocateSections_AdjacentHeadersOnOneLine(t *testing.T) {
	input := "<Section 3: Calibration><Section 4: Mind>\n1. A (2001). T. V. http://a\n"

	sections := LocateSections(input)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "Calibration" || sections[1].Title != "Mind" {
		t.Errorf("unexpected titles %q and %q", sections[0].Title, sections[1].Title)
	}
	if len(sections[0].Entries) != 0 {
		t.Errorf("expected no entries in section 3, got %d", len(sections[0].Entries))
	}
	if len(sections[1].Entries) != 1 {
		t.Errorf("expected 1 entry in section 4, got %d", len(sections[1].Entries))
	}
}

func TestLocateSections_EntryOnHeaderLine(t *testing.T) {
	input := "<Section 1: Foundations> 1. Smith, J. (2020). A Great Paper. Journal of Things. https://doi.org/10.1/x"

	sections := LocateSections(input)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if len(sections[0].Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sections[0].Entries))
	}
	if !strings.HasPrefix(sections[0].Entries[0], "Smith, J. (2020).") {
		t.Errorf("expected entry to start with the citation, got %q", sections[0].Entries[0])
	}
}

func TestLocateSections_CaseInsensitiveAndCRLF(t *testing.T) {
	input := "SECTION 7: Risks\r\n1. A (2001). T. V. http://a\r\n"
	sections := LocateSections(input)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "Risks" {
		t.Errorf("expected title %q, got %q", "Risks", sections[0].Title)
	}
	if strings.Contains(sections[0].Entries[0], "\r") {
		t.Errorf("expected carriage returns to be normalized, got %q", sections[0].Entries[0])
	}
}

func TestLocateSections_NoHeaders(t *testing.T) {
	if got := LocateSections("1. A (2001). T. V.\n"); len(got) != 0 {
		t.Errorf("expected 0 sections, got %d", len(got))
	}
	if got := LocateSections(""); len(got) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(got))
	}
}

func TestLocateEntries(t *testing.T) {
	content := "Intro text that is not an entry.\n\n" +
		"1. First entry\nsecond line\n\n" +
		"2. Second entry\n" +
		"12. Twelfth entry"

	entries := LocateEntries(content)
	want := []string{
		"First entry\nsecond line",
		"Second entry",
		"Twelfth entry",
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLocateEntries_NumberMidLineIgnored(t *testing.T) {
	entries := LocateEntries("1. Title with 2. inside it\n")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestBuildReading_RoundTrip(t *testing.T) {
	entries := LocateEntries(roundTripEntry)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	got := BuildReading(entries[0], DefaultOptions())
	want := reading.Reading{
		Slug:           "a-great-paper",
		Title:          "A Great Paper",
		Authors:        "Smith, J.",
		Year:           2020,
		Venue:          "Journal of Things",
		FullCitation:   "Smith, J. (2020). A Great Paper. Journal of Things. https://doi.org/10.1/x",
		ExternalLinks:  reading.ExternalLinks{DOI: "https://doi.org/10.1/x"},
		OneLineSummary: "Short summary.",
		Discussion: reading.Discussion{
			CoreIdea:         "Idea one.",
			QuestionAnswered: "Question one.",
			WhyItMatters:     "Why it matters.",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reading mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_WellFormedEntryPopulatesEverything(t *testing.T) {
	input := "Section 1: Foundations\n\n" +
		"1. Goffman, E. (1955). On face-work: An analysis of ritual elements in social interaction.\n" +
		"Psychiatry, 18 (3), 213-231. https://doi.org/10.1080/00332747.1955.11023008\n" +
		"Establishes irreversibility of social actions\n" +
		"and face maintenance as core social friction\n\n" +
		"Goffman argues that everyday interaction is organized around face.\n\n" +
		"The core question is what invisible rules make interaction hang together.\n\n" +
		"For my project, this paper is the origin story of social friction.\n"

	sections, bib := Parse(input, DefaultOptions())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if len(bib.Readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(bib.Readings))
	}

	r := bib.Readings[0]
	if r.Authors != "Goffman, E." {
		t.Errorf("expected authors %q, got %q", "Goffman, E.", r.Authors)
	}
	if r.Year != 1955 {
		t.Errorf("expected year 1955, got %d", r.Year)
	}
	if r.Title != "On face-work: An analysis of ritual elements in social interaction" {
		t.Errorf("unexpected title %q", r.Title)
	}
	if r.Venue != "Psychiatry, 18 (3), 213-231" {
		t.Errorf("unexpected venue %q", r.Venue)
	}
	if r.OneLineSummary != "Establishes irreversibility of social actions and face maintenance as core social friction" {
		t.Errorf("unexpected summary %q", r.OneLineSummary)
	}
	if r.Discussion.CoreIdea == "" || r.Discussion.QuestionAnswered == "" || r.Discussion.WhyItMatters == "" {
		t.Errorf("expected all discussion fields populated, got %+v", r.Discussion)
	}
	if r.Slug != "on-face-work-an-analysis-of" {
		t.Errorf("expected slug %q, got %q", "on-face-work-an-analysis-of", r.Slug)
	}
	if r.GroupSlug != "foundations" {
		t.Errorf("expected group slug %q, got %q", "foundations", r.GroupSlug)
	}
	if r.SectionNumber != 1 {
		t.Errorf("expected section number 1, got %d", r.SectionNumber)
	}
	if r.NeedsLink {
		t.Error("expected needsLink to be false when a DOI is present")
	}
	if len(Check(r)) != 0 {
		t.Errorf("expected no issues, got %v", Check(r))
	}
}

func TestParse_GroupsFromOptions(t *testing.T) {
	input := "Section 7: Where AI Companionship Goes Wrong\n1. A (2001). T. V. http://a\n\n" +
		"Section 8: Developmental Impact\n1. B (2002). U. V. http://b\n"

	opts := DefaultOptions()
	opts.Groups = map[int]reading.Group{
		7: {Slug: "ai-risks", Subtitle: "Sycophancy", ThemeTags: []string{"Risks"}},
	}

	_, bib := Parse(input, opts)
	want := []reading.Group{
		{Slug: "ai-risks", Title: "Where AI Companionship Goes Wrong", Subtitle: "Sycophancy", ThemeTags: []string{"Risks"}},
		{Slug: "developmental-impact", Title: "Developmental Impact", ThemeTags: []string{}},
	}
	if diff := cmp.Diff(want, bib.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if bib.Readings[0].GroupSlug != "ai-risks" || bib.Readings[1].GroupSlug != "developmental-impact" {
		t.Errorf("unexpected group slugs %q, %q", bib.Readings[0].GroupSlug, bib.Readings[1].GroupSlug)
	}
}

func TestParse_DuplicateTitlesGetUniqueSlugs(t *testing.T) {
	input := "Section 1: S\n" +
		"1. A (2001). Same Title. V. http://a\n\n" +
		"2. B (2002). Same Title. V. http://b\n\n" +
		"3. C. No year here\n"

	_, bib := Parse(input, DefaultOptions())
	got := make([]string, 0, len(bib.Readings))
	for _, r := range bib.Readings {
		got = append(got, r.Slug)
	}
	want := []string{"same-title", "same-title-2", "unknown-title"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slugs mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	sections, bib := Parse("", Options{})
	if len(sections) != 0 {
		t.Errorf("expected 0 sections, got %d", len(sections))
	}
	if bib.Readings == nil || bib.Groups == nil {
		t.Error("expected non-nil groups and readings slices")
	}
}

func TestSectionNumbers_Sorted(t *testing.T) {
	sections := []reading.Section{{Number: 3}, {Number: 1}, {Number: 2}}
	got := SectionNumbers(sections)
	if diff := cmp.Diff([]int{1, 2, 3}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("numbers mismatch (-want +got):\n%s", diff)
	}
}
