package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/prompts"
)

// JobAnalysis is the structured breakdown of a job description.
type JobAnalysis struct {
	Requirements        []string `json:"requirements"`
	NiceToHave          []string `json:"nice_to_have"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	ExperienceLevel     string   `json:"experience_level"`
	ExtractedKeywords   []string `json:"extracted_keywords"`

	JobURL            string `json:"job_url,omitempty"`
	DescriptionLength int    `json:"description_length"`
}

// MinDescriptionLength is the shortest job description worth analyzing.
const MinDescriptionLength = 50

// AnalyzeJob extracts requirements and keywords from a job description via
// the LLM. When the LLM payload cannot be decoded, the analysis degrades to
// the deterministic keyword extraction instead of failing.
func AnalyzeJob(ctx context.Context, client llm.Client, description string) (*JobAnalysis, error) {
	template := prompts.MustGet("analysis.json", "analyze-job")
	prompt := prompts.Format(template, map[string]string{
		"Description": description,
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("job analysis generation failed: %w", err)
	}

	var result JobAnalysis
	if err := json.Unmarshal([]byte(llm.ExtractJSONObject(raw)), &result); err != nil {
		result = JobAnalysis{
			ExperienceLevel:   "Not specified",
			ExtractedKeywords: ExtractKeywords(description),
		}
	}

	result.DescriptionLength = len(description)
	return &result, nil
}
