// Package analysis compares resumes against job requirements. The skill
// overlap computation is deterministic and independently testable; the gap
// analysis overlay calls the LLM and is documented as non-deterministic.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/prompts"
	"github.com/jonathan/career-advisor/internal/schemas"
	"github.com/jonathan/career-advisor/internal/types"
)

// CalculateSkillMatch computes the deterministic overlap between resume
// skills and job requirements.
//
// Partial matches are detected by substring containment in either
// direction; the weighted score is (exact + 0.5*partial) / total * 100.
// The substring heuristic can conflate near-names ("java" matches inside
// "javascript"); this is intentional and kept for compatibility.
func CalculateSkillMatch(resumeSkills, jobRequirements []string) types.SkillMatch {
	resumeSet := normalizeSet(resumeSkills)
	jobSet := normalizeSet(jobRequirements)

	matching := make(map[string]bool)
	for skill := range jobSet {
		if resumeSet[skill] {
			matching[skill] = true
		}
	}

	partial := make(map[string]bool)
	for jobSkill := range jobSet {
		if matching[jobSkill] {
			continue
		}
		for resumeSkill := range resumeSet {
			if strings.Contains(resumeSkill, jobSkill) || strings.Contains(jobSkill, resumeSkill) {
				partial[jobSkill] = true
				break
			}
		}
	}

	missing := make(map[string]bool)
	for jobSkill := range jobSet {
		if !matching[jobSkill] && !partial[jobSkill] {
			missing[jobSkill] = true
		}
	}

	totalRequired := len(jobSet)
	score := 0.0
	if totalRequired > 0 {
		score = (float64(len(matching)) + 0.5*float64(len(partial))) / float64(totalRequired) * 100
	}

	return types.SkillMatch{
		MatchingSkills: sortedKeys(matching),
		MissingSkills:  sortedKeys(missing),
		PartialMatches: sortedKeys(partial),
		MatchScore:     round2(score),
		TotalRequired:  totalRequired,
		TotalMatched:   len(matching),
	}
}

// AnalyzeGaps runs the generative gap analysis over a resume and a job
// analysis, both as JSON payloads. The LLM output is validated against an
// embedded JSON Schema; payloads that fail validation degrade to a
// raw-analysis-only result instead of failing the comparison.
func AnalyzeGaps(ctx context.Context, client llm.Client, resumeJSON, jobJSON string) (*types.GapAnalysis, error) {
	template := prompts.MustGet("analysis.json", "gap-analysis")
	prompt := prompts.Format(template, map[string]string{
		"Resume": resumeJSON,
		"Job":    jobJSON,
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("gap analysis generation failed: %w", err)
	}

	payload := llm.ExtractJSONObject(raw)
	if err := schemas.ValidateGapAnalysis(payload); err != nil {
		return &types.GapAnalysis{RawAnalysis: raw}, nil
	}

	var result types.GapAnalysis
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return &types.GapAnalysis{RawAnalysis: raw}, nil
	}

	return &result, nil
}

// normalizeSet lowercases and trims entries, dropping blanks.
func normalizeSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		normalized := strings.ToLower(strings.TrimSpace(item))
		if normalized != "" {
			set[normalized] = true
		}
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
