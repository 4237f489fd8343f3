package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Plain JSON untouched",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "json fenced block",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "Generic fenced block",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "Fenced block with language identifier",
			input: "```javascript\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "Surrounding whitespace",
			input: "  \n```json\n{}\n```\n  ",
			want:  `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Object with prose around it",
			input: "Here is the result: {\"score\": 80} Hope that helps.",
			want:  `{"score": 80}`,
		},
		{
			name:  "Bare object",
			input: `{"score": 80}`,
			want:  `{"score": 80}`,
		},
		{
			name:  "No braces returns input",
			input: "no json here",
			want:  "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.input))
		})
	}
}
