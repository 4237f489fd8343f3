package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com | (555) 123-4567 | Austin, TX
linkedin.com/in/janedoe | github.com/janedoe

Summary
Backend engineer with eight years of experience building data platforms.

Skills
Python, SQL, AWS; Docker | Kubernetes
• Terraform

Experience
Senior Engineer, Acme Corp (2019-2024)
Built ingestion pipelines processing 2TB/day.

Education
BS Computer Science, UT Austin

Certifications
AWS Solutions Architect
`

func writeResume(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeResume(t, "resume.txt", sampleResume)

	data, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, data.FilePath)
	assert.Equal(t, "Jane Doe", data.Contact.Name)
	assert.Equal(t, "jane.doe@example.com", data.Contact.Email)
	assert.Equal(t, "(555) 123-4567", data.Contact.Phone)
	assert.Equal(t, "linkedin.com/in/janedoe", data.Contact.LinkedIn)
	assert.Equal(t, "github.com/janedoe", data.Contact.GitHub)
	assert.Equal(t, "Austin, TX", data.Contact.Location)

	assert.Contains(t, data.Summary, "Backend engineer")
	assert.ElementsMatch(t, []string{"Python", "SQL", "AWS", "Docker", "Kubernetes", "Terraform"}, data.Skills)
	assert.NotEmpty(t, data.Experience)
	assert.NotEmpty(t, data.Education)
	assert.Equal(t, []string{"AWS Solutions Architect"}, data.Certifications)
	assert.False(t, data.ParsedAt.IsZero())
}

func TestParseFileDeterministic(t *testing.T) {
	path := writeResume(t, "resume.txt", sampleResume)

	first, err := ParseFile(path)
	require.NoError(t, err)
	second, err := ParseFile(path)
	require.NoError(t, err)

	// Everything except the parse timestamp must be identical.
	second.ParsedAt = first.ParsedAt
	assert.Equal(t, first, second)
}

func TestExtractTextErrors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := ExtractText(filepath.Join(t.TempDir(), "absent.txt"))
		require.Error(t, err)
		var extractErr *ExtractError
		assert.ErrorAs(t, err, &extractErr)
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		_, err := ExtractText(writeResume(t, "resume.pdf", "binary-ish"))
		require.Error(t, err)
		var formatErr *UnsupportedFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, ".pdf", formatErr.Ext)
	})

	t.Run("Empty file", func(t *testing.T) {
		_, err := ExtractText(writeResume(t, "resume.txt", "   \n  "))
		require.Error(t, err)
		var extractErr *ExtractError
		assert.ErrorAs(t, err, &extractErr)
	})
}

func TestParseTextMarkdownHeaders(t *testing.T) {
	data := ParseText("# Jane Doe\n\n## Skills\nGo, Rust\n\n## Summary\nSystems programmer.\n")

	assert.Equal(t, "Jane Doe", data.Contact.Name)
	assert.ElementsMatch(t, []string{"Go", "Rust"}, data.Skills)
	assert.Equal(t, "Systems programmer.", data.Summary)
}

func TestParseSkillsIgnoresNoise(t *testing.T) {
	skills := parseSkills("Python,  , a\n- SQL\n* AWS")
	assert.ElementsMatch(t, []string{"Python", "SQL", "AWS"}, skills)
}
