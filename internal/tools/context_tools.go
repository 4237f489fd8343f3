package tools

import (
	"context"

	"github.com/jonathan/career-advisor/internal/session"
)

func checkResumeStatusTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "check_resume_status",
		Description: "Check whether a resume has been uploaded and parsed in this session. Call this before asking the user to provide a resume.",
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			fields := map[string]any{
				"has_resume": st.HasResume(),
				"is_parsed":  st.IsResumeParsed(),
			}
			if st.HasResume() {
				fields["resume_path"] = st.ResumePath
				fields["uploaded_at"] = st.ResumeUploadTime.Format("2006-01-02 15:04")
			}
			if st.IsResumeParsed() {
				fields["candidate_name"] = st.ResumeParsed.Contact.Name
				fields["skill_count"] = len(st.ResumeParsed.Skills)
			}
			return successResult(fields)
		},
	}
}

func getSessionContextTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "get_session_context",
		Description: "Get a summary of the current session: resume status, jobs found, selected job, generated documents, and recent activity.",
		Params: []Param{
			{Name: "event_count", Type: "integer", Description: "How many recent events to include", Default: 10},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			n := intArg(args, "event_count", 10)

			jobSummaries := make([]map[string]any, 0, len(st.JobSearchResults))
			for _, job := range st.JobSearchResults {
				jobSummaries = append(jobSummaries, map[string]any{
					"id":      job.ID,
					"title":   job.Title,
					"company": job.Company,
					"score":   job.Score(),
				})
			}

			documents := make(map[string]string, len(st.GeneratedDocuments))
			for key, path := range st.GeneratedDocuments {
				documents[key] = path
			}

			return successResult(map[string]any{
				"summary":       st.ContextString(),
				"has_resume":    st.HasResume(),
				"is_parsed":     st.IsResumeParsed(),
				"jobs":          jobSummaries,
				"selected_job":  st.SelectedJobID,
				"documents":     documents,
				"recent_events": st.RecentEvents(n),
			})
		},
	}
}
