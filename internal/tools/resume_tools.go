package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/resume"
	"github.com/jonathan/career-advisor/internal/session"
)

func parseResumeTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "parse_resume",
		Description: "Parse a resume file into structured data: contact info, summary, skills, experience, education. Reuses the cached parse when the same file was already processed this session.",
		Params: []Param{
			{Name: "file_path", Type: "string", Description: "Path to the resume file (.txt or .md). Omit to reuse the resume already uploaded in this session."},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			path := stringArg(args, "file_path")

			// Cached parse is reused only when the request names no file or
			// names the file already parsed.
			if st.IsResumeParsed() && (path == "" || path == st.ResumePath) {
				return statusResult(StatusCached, resumeFields(st))
			}

			if path == "" {
				if !st.HasResume() {
					return errorResult("no resume available: provide a file_path or upload a resume first")
				}
				path = st.ResumePath
			}

			parsed, err := resume.ParseFile(path)
			if err != nil {
				deps.logger().Warn("resume parse failed", zap.String("path", path), zap.Error(err))
				return errorResult(err.Error())
			}

			st.SetResume(path, parsed)
			return successResult(resumeFields(st))
		},
	}
}

func resumeFields(st *session.State) map[string]any {
	parsed := st.ResumeParsed
	fields := map[string]any{
		"file_path": st.ResumePath,
	}
	if parsed == nil {
		return fields
	}
	fields["name"] = parsed.Contact.Name
	fields["email"] = parsed.Contact.Email
	fields["skills"] = parsed.Skills
	fields["skill_count"] = len(parsed.Skills)
	fields["has_summary"] = parsed.Summary != ""
	fields["experience_entries"] = len(parsed.Experience)
	fields["education_entries"] = len(parsed.Education)
	return fields
}
