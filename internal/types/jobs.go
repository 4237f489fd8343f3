package types

import "time"

// RemoteType classifies a job posting's work arrangement.
type RemoteType string

// Remote type values recognized by the search and filter tools.
const (
	RemoteTypeRemote RemoteType = "remote"
	RemoteTypeHybrid RemoteType = "hybrid"
	RemoteTypeOnsite RemoteType = "onsite"
)

// ParseRemoteType maps free-form user input to a RemoteType.
// Unrecognized values return false.
func ParseRemoteType(s string) (RemoteType, bool) {
	switch RemoteType(s) {
	case RemoteTypeRemote, RemoteTypeHybrid, RemoteTypeOnsite:
		return RemoteType(s), true
	}
	return "", false
}

// JobPosting is a single job listing, either fetched from the provider or
// registered manually from pasted text. MatchScore stays nil until the
// posting has been ranked against a parsed resume.
type JobPosting struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	SalaryRange string     `json:"salary_range,omitempty"`
	RemoteType  RemoteType `json:"remote_type"`
	URL         string     `json:"url,omitempty"`
	PostedDate  *time.Time `json:"posted_date,omitempty"`
	Description string     `json:"description"`

	// Requirement lists populated by the job analysis tools.
	Requirements      []string `json:"requirements,omitempty"`
	NiceToHave        []string `json:"nice_to_have,omitempty"`
	ExtractedKeywords []string `json:"extracted_keywords,omitempty"`

	MatchScore *int `json:"match_score,omitempty"`
}

// Score returns the match score, or zero when the posting is unranked.
func (j *JobPosting) Score() int {
	if j.MatchScore == nil {
		return 0
	}
	return *j.MatchScore
}

// Preview returns the description truncated for compact listings.
func (j *JobPosting) Preview(maxLen int) string {
	if len(j.Description) <= maxLen {
		return j.Description
	}
	return j.Description[:maxLen] + "..."
}
