package tools

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-advisor/internal/session"
	"github.com/jonathan/career-advisor/internal/types"
)

func TestAnalyzeJobDescription(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{json: `{
		"requirements": ["Python", "SQL"],
		"nice_to_have": ["Kubernetes"],
		"key_responsibilities": ["Build pipelines"],
		"experience_level": "Senior",
		"extracted_keywords": ["Python", "SQL", "Airflow"]
	}`}
	r := NewRegistry(deps)

	job := &types.JobPosting{
		ID:          "a",
		Title:       "Data Engineer",
		Company:     "Acme",
		Description: strings.Repeat("Senior data engineer building Python and SQL pipelines. ", 3),
	}
	st := stateWithJob(job)

	res := r.Execute(context.Background(), st, "analyze_job_description", map[string]any{"job_id": "a"})
	require.Equal(t, StatusSuccess, res.Status())
	assert.Equal(t, []string{"Python", "SQL"}, res["requirements"])
	assert.Equal(t, "Senior", res["experience_level"])

	// Analysis is written back onto the session's posting.
	assert.Equal(t, []string{"Python", "SQL"}, job.Requirements)
	assert.Equal(t, []string{"Kubernetes"}, job.NiceToHave)
}

func TestAnalyzeJobDescriptionTooShort(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{}
	r := NewRegistry(deps)

	res := r.Execute(context.Background(), parsedState(), "analyze_job_description", map[string]any{"job_text": "short"})
	assert.Equal(t, StatusError, res.Status())
	assert.Contains(t, res["error"], "too short")
}

func TestAnalyzeJobDescriptionMissingSource(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{}
	r := NewRegistry(deps)
	ctx := context.Background()

	res := r.Execute(ctx, parsedState(), "analyze_job_description", nil)
	assert.Equal(t, StatusError, res.Status())

	res = r.Execute(ctx, parsedState(), "analyze_job_description", map[string]any{"job_id": "nope"})
	assert.Equal(t, StatusNotFound, res.Status())
}

func TestExtractJobKeywords(t *testing.T) {
	r := NewRegistry(testDeps(t))
	st := parsedState()

	res := r.Execute(context.Background(), st, "extract_job_keywords", map[string]any{
		"job_text": "We need Python, PostgreSQL, and Kubernetes experience. AWS is a plus.",
	})
	require.Equal(t, StatusSuccess, res.Status())
	keywords := res["keywords"].([]string)
	assert.Contains(t, keywords, "Python")
	assert.Contains(t, keywords, "Kubernetes")
}

// Scenario: skills ["Python","SQL","AWS"] against requirements
// ["Python","Docker","SQL","Kubernetes"] give exactly half coverage.
func TestCompareResumeToJob(t *testing.T) {
	r := NewRegistry(testDeps(t))
	job := &types.JobPosting{
		ID:           "a",
		Title:        "Data Engineer",
		Company:      "Acme",
		Requirements: []string{"Python", "Docker", "SQL", "Kubernetes"},
	}
	st := stateWithJob(job)

	res := r.Execute(context.Background(), st, "compare_resume_to_job", map[string]any{"job_id": "a"})
	require.Equal(t, StatusSuccess, res.Status())
	assert.InDelta(t, 50.0, res["match_score"], 0.001)
	assert.ElementsMatch(t, []string{"python", "sql"}, res["matching_skills"])
	assert.ElementsMatch(t, []string{"docker", "kubernetes"}, res["missing_skills"])
}

func TestCompareResumeToJobPreconditions(t *testing.T) {
	r := NewRegistry(testDeps(t))
	ctx := context.Background()

	st := session.NewStore().Get()
	st.JobSearchResults = []*types.JobPosting{{ID: "a"}}
	res := r.Execute(ctx, st, "compare_resume_to_job", map[string]any{"job_id": "a"})
	assert.Equal(t, StatusError, res.Status())
	assert.Contains(t, res["error"], "parse_resume")

	res = r.Execute(ctx, parsedState(), "compare_resume_to_job", map[string]any{"job_id": "missing"})
	assert.Equal(t, StatusError, res.Status())
	assert.Contains(t, res["error"], "missing")
}

func TestCompareResumeToJobWithGapAnalysis(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{json: `{
		"overall_fit": 70,
		"strengths": ["Python depth"],
		"gaps": ["No Kubernetes"],
		"recommendations": ["Highlight infra work"],
		"experience_level_match": true,
		"keywords_to_add": ["Kubernetes"]
	}`}
	r := NewRegistry(deps)

	job := &types.JobPosting{ID: "a", Requirements: []string{"Python", "Kubernetes"}}
	res := r.Execute(context.Background(), stateWithJob(job), "compare_resume_to_job", map[string]any{
		"job_id":               "a",
		"include_gap_analysis": true,
	})
	require.Equal(t, StatusSuccess, res.Status())
	gaps := res["gap_analysis"].(*types.GapAnalysis)
	assert.Equal(t, 70, gaps.OverallFit)
	assert.Equal(t, []string{"Python depth"}, gaps.Strengths)
}

func TestCalculateMatchScore(t *testing.T) {
	r := NewRegistry(testDeps(t))
	job := &types.JobPosting{ID: "a", Requirements: []string{"Python", "Docker", "SQL", "Kubernetes"}}
	st := stateWithJob(job)

	res := r.Execute(context.Background(), st, "calculate_match_score", map[string]any{"job_id": "a"})
	require.Equal(t, StatusSuccess, res.Status())
	assert.InDelta(t, 50.0, res["match_score"], 0.001)
	require.NotNil(t, job.MatchScore)
	assert.Equal(t, 50, *job.MatchScore)
}

func TestOptimizeResumeSection(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{content: "Rewritten summary emphasizing data platform work."}
	r := NewRegistry(deps)

	job := &types.JobPosting{ID: "a", Title: "Data Engineer", Company: "Acme", Requirements: []string{"Python"}}
	st := stateWithJob(job)

	res := r.Execute(context.Background(), st, "optimize_resume_section", map[string]any{
		"section_type": "summary",
		"job_id":       "a",
	})
	require.Equal(t, StatusSuccess, res.Status())
	assert.Equal(t, "Backend engineer.", res["original"])
	assert.Equal(t, "Rewritten summary emphasizing data platform work.", res["optimized"])
}

func TestOptimizeResumeSectionValidation(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{content: "x"}
	r := NewRegistry(deps)
	ctx := context.Background()
	st := stateWithJob(&types.JobPosting{ID: "a"})

	res := r.Execute(ctx, st, "optimize_resume_section", map[string]any{"section_type": "hobbies", "job_id": "a"})
	assert.Equal(t, StatusError, res.Status())

	res = r.Execute(ctx, st, "optimize_resume_section", map[string]any{"section_type": "education", "job_id": "a"})
	assert.Equal(t, StatusError, res.Status(), "resume has no education section and none was provided")
}

func TestGenerateResumeBullets(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{content: "- Shipped a streaming pipeline\n- Cut query latency in half\n\n* Led the platform migration"}
	r := NewRegistry(deps)

	st := stateWithJob(&types.JobPosting{ID: "a", Title: "Data Engineer", Company: "Acme"})
	res := r.Execute(context.Background(), st, "generate_resume_bullets", map[string]any{
		"job_id":      "a",
		"num_bullets": float64(3),
	})
	require.Equal(t, StatusSuccess, res.Status())
	bullets := res["bullets"].([]string)
	require.Len(t, bullets, 3)
	assert.Equal(t, "Shipped a streaming pipeline", bullets[0])
	assert.Equal(t, "Led the platform migration", bullets[2])
}

func TestImproveATSCompatibility(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{content: "Avoid tables. Spell out acronyms."}
	r := NewRegistry(deps)
	ctx := context.Background()

	res := r.Execute(ctx, session.NewStore().Get(), "improve_ats_compatibility", nil)
	assert.Equal(t, StatusError, res.Status())

	res = r.Execute(ctx, parsedState(), "improve_ats_compatibility", nil)
	require.Equal(t, StatusSuccess, res.Status())
	assert.Equal(t, "Avoid tables. Spell out acronyms.", res["review"])
}

func TestGenerateOptimizedResume(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{content: "Tailored summary for Acme."}
	r := NewRegistry(deps)

	job := &types.JobPosting{ID: "a", Title: "Data Engineer", Company: "Acme", Requirements: []string{"Python"}}
	st := stateWithJob(job)

	res := r.Execute(context.Background(), st, "generate_optimized_resume", map[string]any{"job_id": "a"})
	require.Equal(t, StatusSuccess, res.Status())
	assert.Equal(t, "resume_a", res["document_key"])
	assert.Equal(t, "markdown", res["format"])

	path := res["path"].(string)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Jane Doe")
	assert.Contains(t, string(data), "Tailored summary for Acme.")

	assert.Equal(t, path, st.GeneratedDocuments["resume_a"])
}

func TestGenerateOptimizedResumeHTMLFallsBack(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{err: errors.New("unavailable")}
	r := NewRegistry(deps)

	job := &types.JobPosting{ID: "a", Title: "Engineer", Company: "Acme"}
	st := stateWithJob(job)

	// No template directory configured, so HTML degrades to markdown; the
	// failing summary rewrite degrades to the original summary.
	res := r.Execute(context.Background(), st, "generate_optimized_resume", map[string]any{
		"job_id": "a",
		"format": "html",
	})
	require.Equal(t, StatusSuccess, res.Status())
	assert.Equal(t, "markdown", res["format"])

	data, err := os.ReadFile(res["path"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Backend engineer.")
}

// A job id that does not resolve must fail hard with no filesystem write
// and no session mutation.
func TestGenerateOptimizedResumeUnknownJob(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{content: "x"}
	r := NewRegistry(deps)
	st := parsedState()

	res := r.Execute(context.Background(), st, "generate_optimized_resume", map[string]any{"job_id": "ghost"})
	assert.Equal(t, StatusError, res.Status())
	assert.Contains(t, res["error"], "ghost")
	assert.Empty(t, st.GeneratedDocuments)
	_, err := os.Stat(deps.Writer.OutputDir)
	assert.True(t, os.IsNotExist(err), "no output directory should be created")
}

func TestGenerateOptimizedResumeRequiresResume(t *testing.T) {
	deps := testDeps(t)
	r := NewRegistry(deps)
	st := session.NewStore().Get()
	st.JobSearchResults = []*types.JobPosting{{ID: "a"}}

	res := r.Execute(context.Background(), st, "generate_optimized_resume", map[string]any{"job_id": "a"})
	assert.Equal(t, StatusError, res.Status())
	assert.Empty(t, st.GeneratedDocuments)
}

func TestGenerateCoverLetter(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{content: "Dear Hiring Manager,\n\nI am excited to apply."}
	r := NewRegistry(deps)

	job := &types.JobPosting{ID: "a", Title: "Data Engineer", Company: "Acme", Requirements: []string{"Python", "SQL"}}
	st := stateWithJob(job)

	res := r.Execute(context.Background(), st, "generate_cover_letter", map[string]any{"job_id": "a", "tone": "enthusiastic"})
	require.Equal(t, StatusSuccess, res.Status())
	assert.Equal(t, "cover_letter_a", res["document_key"])
	assert.Equal(t, "enthusiastic", res["tone"])

	data, err := os.ReadFile(res["path"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dear Hiring Manager")
	assert.Contains(t, st.GeneratedDocuments, "cover_letter_a")
}

func TestGenerateCoverLetterLLMFailure(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &fakeLLM{err: errors.New("quota exceeded")}
	r := NewRegistry(deps)

	st := stateWithJob(&types.JobPosting{ID: "a", Title: "Engineer", Company: "Acme"})
	res := r.Execute(context.Background(), st, "generate_cover_letter", map[string]any{"job_id": "a"})
	assert.Equal(t, StatusError, res.Status())
	assert.Empty(t, st.GeneratedDocuments)
}
