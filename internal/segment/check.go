package segment

import (
	"github.com/dgallion1/readinglist/internal/reading"
)

// Issue names a field of a reading that fell back to a degraded value.
type Issue string

const (
	IssueUnknownAuthors Issue = "unknown_authors"
	IssueUnknownTitle   Issue = "unknown_title"
	IssueUnknownVenue   Issue = "unknown_venue"
	IssueMissingLink    Issue = "missing_link"
	IssueEmptySummary   Issue = "empty_summary"
	IssueNoCoreIdea     Issue = "missing_core_idea"
	IssueNoQuestion     Issue = "missing_question_answered"
	IssueNoWhyItMatters Issue = "missing_why_it_matters"
)

// Check lists the degraded fields of a reading. It never rejects a reading;
// an empty result means every field was extracted.
func Check(r reading.Reading) []Issue {
	var issues []Issue
	if r.Authors == UnknownAuthors {
		issues = append(issues, IssueUnknownAuthors)
	}
	if r.Title == UnknownTitle {
		issues = append(issues, IssueUnknownTitle)
	}
	if r.Venue == UnknownVenue {
		issues = append(issues, IssueUnknownVenue)
	}
	if r.ExternalLinks.Empty() {
		issues = append(issues, IssueMissingLink)
	}
	if r.OneLineSummary == "" {
		issues = append(issues, IssueEmptySummary)
	}
	if r.Discussion.CoreIdea == "" {
		issues = append(issues, IssueNoCoreIdea)
	}
	if r.Discussion.QuestionAnswered == "" {
		issues = append(issues, IssueNoQuestion)
	}
	if r.Discussion.WhyItMatters == "" {
		issues = append(issues, IssueNoWhyItMatters)
	}
	return issues
}
