package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	text := `We need a Senior Python Developer with AWS and Docker experience.
Familiarity with Node.js and React is a plus. Must know SQL.`

	keywords := ExtractKeywords(text)

	for _, want := range []string{"Python", "AWS", "Docker", "Node.js", "React", "SQL"} {
		assert.Contains(t, keywords, want)
	}
}

func TestExtractKeywordsDeduplicates(t *testing.T) {
	keywords := ExtractKeywords("Python python PYTHON Python")

	count := 0
	for _, kw := range keywords {
		if kw == "Python" || kw == "python" || kw == "PYTHON" {
			count++
		}
	}
	assert.Equal(t, 1, count, "case-insensitive dedupe keeps one entry")
}

func TestExtractKeywordsEmptyText(t *testing.T) {
	assert.Empty(t, ExtractKeywords(""))
}

func TestExtractSkillTerms(t *testing.T) {
	text := `Requirements:
Experience with Terraform and Prometheus required.
Knowledge of GCP deployments.
We have a casual dress code.`

	terms := ExtractSkillTerms(text)

	assert.Contains(t, terms, "Terraform")
	assert.Contains(t, terms, "Prometheus")
	assert.Contains(t, terms, "GCP")
	// Lines without a skill indicator contribute nothing.
	assert.NotContains(t, terms, "We")
}
