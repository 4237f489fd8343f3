package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/analysis"
	"github.com/jonathan/career-advisor/internal/session"
	"github.com/jonathan/career-advisor/internal/types"
)

func analyzeJobDescriptionTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "analyze_job_description",
		Description: "Extract structured requirements, nice-to-haves, and keywords from a job description. Accepts a job id from the session list or raw text.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of a job already in the session"},
			{Name: "job_text", Type: "string", Description: "Raw job description text, when the job is not in the session"},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			job, description, errRes := resolveJobText(st, args)
			if errRes != nil {
				return errRes
			}
			if len(description) < analysis.MinDescriptionLength {
				return errorResult(fmt.Sprintf("job description too short to analyze (%d chars, need %d)", len(description), analysis.MinDescriptionLength))
			}
			if deps.LLM == nil {
				return errorResult("analysis requires an LLM client")
			}

			result, err := analysis.AnalyzeJob(ctx, deps.LLM, description)
			if err != nil {
				deps.logger().Warn("job analysis failed", zap.Error(err))
				return errorResult(err.Error())
			}

			if job != nil {
				job.Requirements = result.Requirements
				job.NiceToHave = result.NiceToHave
				job.ExtractedKeywords = result.ExtractedKeywords
				result.JobURL = job.URL
				st.AddEvent(fmt.Sprintf("Analyzed job: %s at %s", job.Title, job.Company))
			}

			fields := map[string]any{
				"requirements":         result.Requirements,
				"nice_to_have":         result.NiceToHave,
				"key_responsibilities": result.KeyResponsibilities,
				"experience_level":     result.ExperienceLevel,
				"extracted_keywords":   result.ExtractedKeywords,
				"description_length":   result.DescriptionLength,
			}
			if job != nil {
				fields["job_id"] = job.ID
			}
			return successResult(fields)
		},
	}
}

func extractJobKeywordsTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "extract_job_keywords",
		Description: "Extract technology and skill keywords from a job description using deterministic pattern matching. No LLM call involved.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of a job already in the session"},
			{Name: "job_text", Type: "string", Description: "Raw job description text, when the job is not in the session"},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			job, description, errRes := resolveJobText(st, args)
			if errRes != nil {
				return errRes
			}

			keywords := analysis.ExtractKeywords(description)
			skillTerms := analysis.ExtractSkillTerms(description)

			if job != nil && len(job.ExtractedKeywords) == 0 {
				job.ExtractedKeywords = keywords
			}

			fields := map[string]any{
				"keywords":    keywords,
				"skill_terms": skillTerms,
				"count":       len(keywords),
			}
			if job != nil {
				fields["job_id"] = job.ID
			}
			return successResult(fields)
		},
	}
}

func compareResumeToJobTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "compare_resume_to_job",
		Description: "Compare the parsed resume against one job: matching skills, missing skills, partial matches, and an optional LLM gap analysis.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of the job to compare against", Required: true},
			{Name: "include_gap_analysis", Type: "boolean", Description: "Also run the LLM gap analysis", Default: false},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			job, errRes := requireParsedResumeAndJob(st, args)
			if errRes != nil {
				return errRes
			}

			match := analysis.CalculateSkillMatch(st.ResumeParsed.Skills, jobRequirements(job))
			fields := map[string]any{
				"job_id":          job.ID,
				"match_score":     match.MatchScore,
				"matching_skills": match.MatchingSkills,
				"missing_skills":  match.MissingSkills,
				"partial_matches": match.PartialMatches,
				"total_required":  match.TotalRequired,
				"total_matched":   match.TotalMatched,
			}

			if boolArg(args, "include_gap_analysis", false) {
				if deps.LLM == nil {
					return errorResult("gap analysis requires an LLM client")
				}
				gaps, err := runGapAnalysis(ctx, deps, st.ResumeParsed, job)
				if err != nil {
					deps.logger().Warn("gap analysis failed", zap.Error(err))
					return errorResult(err.Error())
				}
				fields["gap_analysis"] = gaps
			}

			st.AddEvent(fmt.Sprintf("Compared resume to job %s (%.1f%% match)", job.ID, match.MatchScore))
			return successResult(fields)
		},
	}
}

func calculateMatchScoreTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "calculate_match_score",
		Description: "Calculate the deterministic skill match score between the parsed resume and one job. Cheaper than the full comparison.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of the job to score against", Required: true},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			job, errRes := requireParsedResumeAndJob(st, args)
			if errRes != nil {
				return errRes
			}

			match := analysis.CalculateSkillMatch(st.ResumeParsed.Skills, jobRequirements(job))
			score := int(match.MatchScore)
			job.MatchScore = &score

			return successResult(map[string]any{
				"job_id":         job.ID,
				"match_score":    match.MatchScore,
				"total_required": match.TotalRequired,
				"total_matched":  match.TotalMatched,
			})
		},
	}
}

// resolveJobText resolves the job_id/job_text argument pair shared by the
// analysis tools. Exactly one source must yield text.
func resolveJobText(st *session.State, args map[string]any) (*types.JobPosting, string, Result) {
	if id := stringArg(args, "job_id"); id != "" {
		job := st.JobByID(id)
		if job == nil {
			return nil, "", statusResult(StatusNotFound, map[string]any{"job_id": id})
		}
		return job, job.Description, nil
	}
	if text := stringArg(args, "job_text"); text != "" {
		return nil, text, nil
	}
	return nil, "", errorResult("provide either job_id or job_text")
}

func requireParsedResumeAndJob(st *session.State, args map[string]any) (*types.JobPosting, Result) {
	if !st.IsResumeParsed() {
		return nil, errorResult("no parsed resume in session: call parse_resume first")
	}
	id := stringArg(args, "job_id")
	if id == "" {
		return nil, errorResult("job_id is required")
	}
	job := st.JobByID(id)
	if job == nil {
		return nil, errorResult(fmt.Sprintf("job not found in session: %s", id))
	}
	return job, nil
}

// jobRequirements prefers the analyzed requirement list and falls back to
// deterministic skill extraction from the description.
func jobRequirements(job *types.JobPosting) []string {
	if len(job.Requirements) > 0 {
		return job.Requirements
	}
	if len(job.ExtractedKeywords) > 0 {
		return job.ExtractedKeywords
	}
	return analysis.ExtractKeywords(job.Description)
}

func runGapAnalysis(ctx context.Context, deps *Deps, parsed *types.ResumeData, job *types.JobPosting) (*types.GapAnalysis, error) {
	resumeJSON, err := json.Marshal(map[string]any{
		"name":       parsed.Contact.Name,
		"summary":    parsed.Summary,
		"skills":     parsed.Skills,
		"experience": parsed.Experience,
		"education":  parsed.Education,
	})
	if err != nil {
		return nil, err
	}
	jobJSON, err := json.Marshal(map[string]any{
		"title":        job.Title,
		"company":      job.Company,
		"requirements": jobRequirements(job),
		"description":  job.Preview(2000),
	})
	if err != nil {
		return nil, err
	}
	return analysis.AnalyzeGaps(ctx, deps.LLM, string(resumeJSON), string(jobJSON))
}
