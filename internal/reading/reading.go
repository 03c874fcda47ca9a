package reading

// Source is the raw bibliography text extracted from an input document.
type Source struct {
	Title string // Document title (from metadata or filename)
	Text  string // Plain text, paragraphs separated by blank lines
}

// Section is a numbered thematic grouping discovered from a header marker.
type Section struct {
	Number  int      // Section number from the header, e.g. 3 for "Section 3: ..."
	Title   string   // Header title text
	Entries []string // Raw entry bodies, numbering stripped
}

// Reading is one parsed bibliographic record. Its JSON shape matches the
// front end's Reading interface.
type Reading struct {
	Slug           string        `json:"slug"`
	GroupSlug      string        `json:"groupSlug"`
	Title          string        `json:"title"`
	Authors        string        `json:"authors"`
	Year           int           `json:"year"`
	Venue          string        `json:"venue"`
	FullCitation   string        `json:"fullCitation"`
	ExternalLinks  ExternalLinks `json:"externalLinks"`
	OneLineSummary string        `json:"oneLineSummary"`
	Discussion     Discussion    `json:"discussion"`
	NeedsLink      bool          `json:"needsLink,omitempty"`

	// Section number the reading was found under. Not serialized.
	SectionNumber int `json:"-"`
}

// ExternalLinks holds the classified link of a citation. At most one of
// DOI, PDF and URL is set by the segmenter.
type ExternalLinks struct {
	DOI string `json:"doi,omitempty"`
	PDF string `json:"pdf,omitempty"`
	URL string `json:"url,omitempty"`
}

// Empty reports whether no link is present.
func (l ExternalLinks) Empty() bool {
	return l.DOI == "" && l.PDF == "" && l.URL == ""
}

// Discussion is the three-part commentary following a citation.
type Discussion struct {
	CoreIdea         string `json:"coreIdea"`
	QuestionAnswered string `json:"questionAnswered"`
	WhyItMatters     string `json:"whyItMatters"`
}

// Group is the descriptive metadata for a section, as shown by the front end.
type Group struct {
	Slug            string   `json:"slug" yaml:"slug"`
	Title           string   `json:"title" yaml:"title"`
	Subtitle        string   `json:"subtitle" yaml:"subtitle"`
	LongDescription string   `json:"longDescription" yaml:"long_description"`
	ThemeTags       []string `json:"themeTags" yaml:"theme_tags"`
}

// Bibliography is the full output of one segmentation run.
type Bibliography struct {
	Groups   []Group   `json:"readingGroups"`
	Readings []Reading `json:"readings"`
}
