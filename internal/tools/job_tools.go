package tools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/fetch"
	"github.com/jonathan/career-advisor/internal/jobs"
	"github.com/jonathan/career-advisor/internal/session"
	"github.com/jonathan/career-advisor/internal/types"
)

func searchJobsTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "search_jobs_by_criteria",
		Description: "Search job boards for postings matching keywords and location. Replaces the session's current job list with the new results, ranked against the resume when one has been parsed.",
		Params: []Param{
			{Name: "keywords", Type: "string", Description: "Search keywords, e.g. job title or skills", Required: true},
			{Name: "location", Type: "string", Description: "City, state, or region to search in"},
			{Name: "remote_only", Type: "boolean", Description: "Restrict the search to remote positions", Default: false},
			{Name: "limit", Type: "integer", Description: "Maximum number of results"},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			keywords := stringArg(args, "keywords")
			if keywords == "" {
				return errorResult("keywords is required")
			}
			if deps.Search == nil || !deps.Search.Configured() {
				return errorResult("job search is not configured: missing Adzuna credentials")
			}

			limit := intArg(args, "limit", deps.SearchLimit)
			params := jobs.SearchParams{
				Keywords:   keywords,
				Location:   stringArg(args, "location"),
				RemoteOnly: boolArg(args, "remote_only", false),
				Limit:      limit,
			}

			postings, err := deps.Search.Search(ctx, params)
			if err != nil {
				// The session's existing job list survives a provider
				// failure; only a completed search replaces it.
				deps.logger().Warn("job search failed", zap.String("keywords", keywords), zap.Error(err))
				return errorResult(err.Error())
			}

			recordSearch(ctx, deps, params, len(postings))

			if len(postings) == 0 {
				st.SetJobs(nil, fmt.Sprintf("Job search for %q returned nothing", keywords))
				return statusResult(StatusNoResults, map[string]any{
					"keywords": keywords,
					"count":    0,
				})
			}

			// Scores only exist relative to a resume. Without one the
			// postings keep provider order and a nil match score.
			if st.IsResumeParsed() {
				jobs.RankJobs(postings, st.ResumeParsed.Skills)
			}
			st.SetJobs(postings, fmt.Sprintf("Found %d job(s) for %q", len(postings), keywords))

			return successResult(map[string]any{
				"keywords": keywords,
				"count":    len(postings),
				"jobs":     jobSummaries(postings),
			})
		},
	}
}

func addJobPostingTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "add_job_posting",
		Description: "Register a job posting from pasted text or a URL. The posting gets a stable content-derived id and is added to the session job list.",
		Params: []Param{
			{Name: "job_text", Type: "string", Description: "Full job description text, or a URL to fetch it from", Required: true},
			{Name: "title", Type: "string", Description: "Job title, if known"},
			{Name: "company", Type: "string", Description: "Company name, if known"},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			text := stringArg(args, "job_text")
			if text == "" {
				return errorResult("job_text is required")
			}

			sourceURL := ""
			if fetch.IsURL(text) {
				sourceURL = text
				fetched, err := fetchPosting(ctx, deps, text)
				if err != nil {
					return errorResult(err.Error())
				}
				text = fetched
			}

			job := &types.JobPosting{
				ID:          contentID(text),
				Title:       stringArg(args, "title"),
				Company:     stringArg(args, "company"),
				Description: text,
				URL:         sourceURL,
			}
			if job.Title == "" {
				job.Title = "Untitled Position"
			}
			if job.Company == "" {
				job.Company = "Unknown Company"
			}

			fields := map[string]any{
				"job_id":  job.ID,
				"title":   job.Title,
				"company": job.Company,
			}
			if st.IsResumeParsed() {
				score := jobs.ScoreJob(job, st.ResumeParsed.Skills)
				job.MatchScore = &score
				fields["match_score"] = score
			}

			st.UpsertJob(job)
			fields["total_jobs"] = len(st.JobSearchResults)

			return successResult(fields)
		},
	}
}

func listAvailableJobsTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "list_available_jobs",
		Description: "List the jobs currently held in the session, ordered by match score.",
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			if len(st.JobSearchResults) == 0 {
				return statusResult(StatusNoJobs, map[string]any{
					"message": "no jobs in session: run a search or add a posting first",
				})
			}
			return successResult(map[string]any{
				"count": len(st.JobSearchResults),
				"jobs":  jobSummaries(st.JobSearchResults),
			})
		},
	}
}

func getJobDetailsTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "get_job_details",
		Description: "Get the full details of one job from the session list and mark it as the job currently under discussion.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of the job to inspect", Required: true},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			id := stringArg(args, "job_id")
			if id == "" {
				return errorResult("job_id is required")
			}
			job := st.JobByID(id)
			if job == nil {
				return statusResult(StatusNotFound, map[string]any{
					"job_id": id,
				})
			}

			st.SelectJob(id)

			fields := map[string]any{
				"job_id":      job.ID,
				"title":       job.Title,
				"company":     job.Company,
				"location":    job.Location,
				"remote_type": string(job.RemoteType),
				"description": job.Description,
				"url":         job.URL,
			}
			if job.SalaryRange != "" {
				fields["salary_range"] = job.SalaryRange
			}
			if job.MatchScore != nil {
				fields["match_score"] = *job.MatchScore
			}
			if len(job.Requirements) > 0 {
				fields["requirements"] = job.Requirements
			}
			return successResult(fields)
		},
	}
}

func filterJobsTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "filter_jobs_by_requirements",
		Description: "Narrow the session job list to postings that mention all the given requirements. The narrowing is permanent for the session; rerun the search to widen again.",
		Params: []Param{
			{Name: "requirements", Type: "array", Description: "Requirement terms every kept job must mention", Required: true},
			{Name: "remote_type", Type: "string", Description: "Optionally keep only this work arrangement: remote, hybrid, or onsite"},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			if len(st.JobSearchResults) == 0 {
				return statusResult(StatusNoJobs, map[string]any{
					"message": "no jobs in session to filter",
				})
			}

			terms := stringSliceArg(args, "requirements")
			remoteFilter, hasRemoteFilter := types.ParseRemoteType(stringArg(args, "remote_type"))
			if len(terms) == 0 && !hasRemoteFilter {
				return errorResult("requirements is required")
			}

			before := len(st.JobSearchResults)
			kept := make([]*types.JobPosting, 0, before)
			for _, job := range st.JobSearchResults {
				if hasRemoteFilter && job.RemoteType != remoteFilter {
					continue
				}
				if mentionsAll(job, terms) {
					kept = append(kept, job)
				}
			}

			st.SetJobs(kept, fmt.Sprintf("Filtered jobs %d -> %d", before, len(kept)))

			if len(kept) == 0 {
				return statusResult(StatusNoResults, map[string]any{
					"before": before,
					"count":  0,
				})
			}
			return successResult(map[string]any{
				"before": before,
				"count":  len(kept),
				"jobs":   jobSummaries(kept),
			})
		},
	}
}

// contentID derives a stable id from the posting text, so resubmitting the
// same posting replaces rather than duplicates.
func contentID(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])[:12]
}

func mentionsAll(job *types.JobPosting, terms []string) bool {
	haystack := strings.ToLower(job.Title + " " + job.Description + " " + strings.Join(job.Requirements, " "))
	for _, term := range terms {
		if !strings.Contains(haystack, strings.ToLower(strings.TrimSpace(term))) {
			return false
		}
	}
	return true
}

func fetchPosting(ctx context.Context, deps *Deps, urlStr string) (string, error) {
	result, err := fetch.URL(ctx, urlStr)
	if err != nil && result == nil {
		return "", err
	}
	if deps.UseBrowser && fetch.ShouldUseBrowser(result) {
		browsed, berr := fetch.WithBrowser(ctx, urlStr)
		if berr == nil && browsed.Text != "" {
			return browsed.Text, nil
		}
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", fmt.Errorf("fetched page had no readable content: %s", urlStr)
	}
	return result.Text, nil
}

func jobSummaries(postings []*types.JobPosting) []map[string]any {
	out := make([]map[string]any, 0, len(postings))
	for _, job := range postings {
		summary := map[string]any{
			"id":          job.ID,
			"title":       job.Title,
			"company":     job.Company,
			"location":    job.Location,
			"remote_type": string(job.RemoteType),
			"score":       job.Score(),
			"preview":     job.Preview(200),
		}
		if job.SalaryRange != "" {
			summary["salary_range"] = job.SalaryRange
		}
		out = append(out, summary)
	}
	return out
}

func recordSearch(ctx context.Context, deps *Deps, params jobs.SearchParams, count int) {
	if deps.Recorder == nil {
		return
	}
	if err := deps.Recorder.RecordSearch(ctx, params.Keywords, params.Location, count); err != nil {
		deps.logger().Debug("search history record failed", zap.Error(err))
	}
}
