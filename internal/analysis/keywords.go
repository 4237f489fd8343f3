package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// Patterns for technical keyword extraction from job text.
var techPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][a-z]+(?:\.[a-z]+)+\b`), // dotted names: Node.js, Vue.js
	regexp.MustCompile(`\b[A-Z]{2,}\b`),                // acronyms: AWS, SQL, API
	regexp.MustCompile(`(?i)\b(?:Python|Java|JavaScript|TypeScript|C\+\+|Ruby|Go|Rust|Swift|Kotlin)\b`),
	regexp.MustCompile(`(?i)\b(?:React|Angular|Vue|Django|Flask|Spring|Express)\b`),
	regexp.MustCompile(`(?i)\b(?:AWS|Azure|GCP|Docker|Kubernetes|Jenkins)\b`),
}

// Words that introduce skill statements in prose requirement lines.
var skillIndicators = []string{"experience", "knowledge", "proficiency", "familiar", "expertise"}

var capitalizedTermRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\.[a-z]+)?\b|\b[A-Z]{2,}\b`)

// ExtractKeywords pulls technical keywords and skills from job description
// text. Deterministic; results are deduplicated case-insensitively and
// sorted.
func ExtractKeywords(text string) []string {
	seen := make(map[string]string)

	for _, pattern := range techPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			key := strings.ToLower(match)
			if _, ok := seen[key]; !ok {
				seen[key] = match
			}
		}
	}

	keywords := make([]string, 0, len(seen))
	for _, original := range seen {
		keywords = append(keywords, original)
	}
	sort.Strings(keywords)
	return keywords
}

// ExtractSkillTerms scans requirement-style lines ("experience with X",
// "knowledge of Y") for capitalized terms that are likely technologies,
// merging them with the pattern-based keywords.
func ExtractSkillTerms(text string) []string {
	seen := make(map[string]string)
	for _, kw := range ExtractKeywords(text) {
		seen[strings.ToLower(kw)] = kw
	}

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		indicated := false
		for _, word := range skillIndicators {
			if strings.Contains(lower, word) {
				indicated = true
				break
			}
		}
		if !indicated {
			continue
		}
		for _, term := range capitalizedTermRe.FindAllString(line, -1) {
			key := strings.ToLower(term)
			if _, ok := seen[key]; !ok {
				seen[key] = term
			}
		}
	}

	terms := make([]string, 0, len(seen))
	for _, original := range seen {
		terms = append(terms, original)
	}
	sort.Strings(terms)
	return terms
}
