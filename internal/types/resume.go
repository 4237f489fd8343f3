// Package types defines the shared data structures exchanged between the
// session store, the tool catalog, and the dispatch loop.
package types

import "time"

// ContactInfo holds contact details extracted from a resume header.
type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// ResumeData is the structured result of parsing a resume file.
type ResumeData struct {
	Contact        ContactInfo `json:"contact"`
	Summary        string      `json:"summary,omitempty"`
	Skills         []string    `json:"skills"`
	Experience     []string    `json:"experience,omitempty"`
	Education      []string    `json:"education,omitempty"`
	Certifications []string    `json:"certifications,omitempty"`
	RawText        string      `json:"raw_text,omitempty"`
	FilePath       string      `json:"file_path"`
	ParsedAt       time.Time   `json:"parsed_at"`
}

// SkillMatch is the deterministic overlap between resume skills and job
// requirements. PartialMatches are detected by naive substring containment;
// this can conflate near-names (e.g. "java" inside "javascript") but the
// formula is kept as documented for compatibility.
type SkillMatch struct {
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	PartialMatches []string `json:"partial_matches"`
	MatchScore     float64  `json:"match_score"`
	TotalRequired  int      `json:"total_required"`
	TotalMatched   int      `json:"total_matched"`
}

// GapAnalysis is the generative overlay merged on top of a SkillMatch.
// Its content is produced by the LLM and is not deterministic.
type GapAnalysis struct {
	OverallFit           int      `json:"overall_fit"`
	Strengths            []string `json:"strengths"`
	Gaps                 []string `json:"gaps"`
	Recommendations      []string `json:"recommendations"`
	ExperienceLevelMatch bool     `json:"experience_level_match"`
	KeywordsToAdd        []string `json:"keywords_to_add"`
	RawAnalysis          string   `json:"raw_analysis,omitempty"`
}
