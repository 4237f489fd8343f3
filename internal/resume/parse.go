// Package resume extracts structured data from resume files: contact
// details, section text, and a skill list. The extraction is deterministic
// (regex and header heuristics, no LLM involvement) so parse results are
// reproducible and cacheable by file path.
package resume

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/career-advisor/internal/types"
)

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
	locationRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s[A-Z][a-z]+)*),\s*([A-Z]{2})\b`)
	skillSplit = regexp.MustCompile(`[,;|\n•·]`)
)

// Section header synonyms used to split the resume body.
var sectionHeaders = map[string][]string{
	"summary":        {"summary", "profile", "objective", "about"},
	"skills":         {"skills", "technical skills", "core competencies"},
	"experience":     {"experience", "work experience", "employment", "professional experience"},
	"education":      {"education", "academic background"},
	"certifications": {"certifications", "certificates", "licenses"},
}

// ParseFile reads a resume file and extracts structured data.
// Only plain-text formats are supported; other extensions produce an
// UnsupportedFormatError.
func ParseFile(path string) (*types.ResumeData, error) {
	text, err := ExtractText(path)
	if err != nil {
		return nil, err
	}
	data := ParseText(text)
	data.FilePath = path
	return data, nil
}

// ExtractText reads the raw text of a resume file, dispatching on the file
// extension.
func ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &ExtractError{Path: path, Message: "file not found", Cause: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", &ExtractError{Path: path, Message: "failed to read file", Cause: err}
		}
		text := string(raw)
		if strings.TrimSpace(text) == "" {
			return "", &ExtractError{Path: path, Message: "no text could be extracted"}
		}
		return text, nil
	default:
		return "", &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// ParseText extracts structured resume data from raw text.
func ParseText(text string) *types.ResumeData {
	sections := splitSections(text)

	return &types.ResumeData{
		Contact:        extractContact(text),
		Summary:        strings.TrimSpace(sections["summary"]),
		Skills:         parseSkills(sections["skills"]),
		Experience:     nonEmptyLines(sections["experience"]),
		Education:      nonEmptyLines(sections["education"]),
		Certifications: nonEmptyLines(sections["certifications"]),
		RawText:        text,
		ParsedAt:       time.Now(),
	}
}

// extractContact pulls contact details out of the full text using regex
// patterns. The name heuristic takes the first non-empty line.
func extractContact(text string) types.ContactInfo {
	contact := types.ContactInfo{
		Email:    emailRe.FindString(text),
		Phone:    strings.TrimSpace(phoneRe.FindString(text)),
		LinkedIn: linkedinRe.FindString(text),
		GitHub:   githubRe.FindString(text),
		Location: locationRe.FindString(text),
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			contact.Name = strings.TrimLeft(line, "# ")
			break
		}
	}
	if contact.Name == "" {
		contact.Name = "Unknown"
	}

	return contact
}

// splitSections assigns lines to sections based on common header names.
// Lines before the first recognized header are ignored (they typically hold
// contact details handled separately).
func splitSections(text string) map[string]string {
	sections := make(map[string]string, len(sectionHeaders))
	var current string
	var content []string

	flush := func() {
		if current != "" && len(content) > 0 {
			sections[current] = strings.Join(content, "\n")
		}
		content = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if name := matchHeader(line); name != "" {
			flush()
			current = name
			continue
		}
		if current != "" {
			content = append(content, line)
		}
	}
	flush()

	return sections
}

// matchHeader returns the canonical section name when the line looks like a
// section header, or "" otherwise.
func matchHeader(line string) string {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#*- ")))
	if normalized == "" || len(normalized) > 40 {
		return ""
	}
	for name, synonyms := range sectionHeaders {
		for _, h := range synonyms {
			if normalized == h || strings.HasPrefix(normalized, h+":") {
				return name
			}
		}
	}
	return ""
}

// parseSkills tokenizes the skills section on common delimiters.
func parseSkills(skillsText string) []string {
	if skillsText == "" {
		return nil
	}

	var skills []string
	for _, token := range skillSplit.Split(skillsText, -1) {
		token = strings.TrimSpace(strings.TrimLeft(token, "-* "))
		if len(token) > 1 {
			skills = append(skills, token)
		}
	}
	return skills
}

func nonEmptyLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
