package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		key       string
		wantError bool
		contains  string
	}{
		{name: "System prompt", filename: "agent.json", key: "system", contains: "check_resume_status"},
		{name: "Gap analysis", filename: "analysis.json", key: "gap-analysis", contains: "overall_fit"},
		{name: "Cover letter", filename: "documents.json", key: "cover-letter", contains: "{{.Company}}"},
		{name: "Missing key", filename: "agent.json", key: "nope", wantError: true},
		{name: "Missing file", filename: "missing.json", key: "system", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := Get(tt.filename, tt.key)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.Contains(prompt, tt.contains),
				"prompt should contain %q", tt.contains)
		})
	}
}

func TestMustGetPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("agent.json", "does-not-exist")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, you are applying to {{.Company}}."
	got := Format(template, map[string]string{
		"Name":    "Ada",
		"Company": "Acme",
	})
	assert.Equal(t, "Hello Ada, you are applying to Acme.", got)

	// Unknown placeholders stay in place.
	got = Format("{{.Missing}}", map[string]string{"Name": "x"})
	assert.Equal(t, "{{.Missing}}", got)
}
