package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/analysis"
	"github.com/jonathan/career-advisor/internal/docgen"
	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/prompts"
	"github.com/jonathan/career-advisor/internal/session"
	"github.com/jonathan/career-advisor/internal/types"
)

func generateOptimizedResumeTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "generate_optimized_resume",
		Description: "Generate a complete resume document tailored to one job and save it to disk. The summary is rewritten for the job unless disabled.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of the target job", Required: true},
			{Name: "format", Type: "string", Description: "Output format: markdown or html", Default: docgen.FormatMarkdown},
			{Name: "optimize_summary", Type: "boolean", Description: "Rewrite the summary for this job", Default: true},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			job, errRes := requireParsedResumeAndJob(st, args)
			if errRes != nil {
				return errRes
			}
			if deps.Writer == nil {
				return errorResult("document generation is not configured")
			}

			format := strings.ToLower(stringArg(args, "format"))
			if format == "" {
				format = docgen.FormatMarkdown
			}
			if format != docgen.FormatMarkdown && format != docgen.FormatHTML {
				return errorResult("format must be markdown or html")
			}

			content := &docgen.ResumeContent{
				Resume: st.ResumeParsed,
				Job:    job,
			}

			if boolArg(args, "optimize_summary", true) && st.ResumeParsed.Summary != "" {
				if deps.LLM == nil {
					return errorResult("summary optimization requires an LLM client; pass optimize_summary=false to skip it")
				}
				summary, err := optimizeSummary(ctx, deps, st, job)
				if err != nil {
					deps.logger().Warn("summary optimization failed, keeping original", zap.Error(err))
				} else {
					content.Summary = summary
				}
			}

			markdown, err := docgen.RenderResumeMarkdown(content)
			if err != nil {
				return errorResult(err.Error())
			}

			rendered := markdown
			actualFormat := docgen.FormatMarkdown
			if format == docgen.FormatHTML {
				html, err := deps.Writer.RenderHTML("resume.html", st.ResumeParsed.Contact.Name, markdown)
				var tmplErr *docgen.TemplateError
				switch {
				case err == nil:
					rendered = html
					actualFormat = docgen.FormatHTML
				case errors.As(err, &tmplErr):
					deps.logger().Info("HTML template unavailable, falling back to markdown", zap.Error(err))
				default:
					return errorResult(err.Error())
				}
			}

			path, err := deps.Writer.Save(rendered, docgen.DocTypeResume, job.ID, actualFormat)
			if err != nil {
				return errorResult(err.Error())
			}

			st.RecordDocument(docgen.DocTypeResume, job.ID, path)
			recordDocument(ctx, deps, docgen.DocTypeResume, job.ID, path)

			return successResult(map[string]any{
				"job_id":       job.ID,
				"document_key": session.DocumentKey(docgen.DocTypeResume, job.ID),
				"path":         path,
				"format":       actualFormat,
			})
		},
	}
}

func generateCoverLetterTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "generate_cover_letter",
		Description: "Write a cover letter for one job, grounded in the candidate's matching skills, and save it to disk.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of the target job", Required: true},
			{Name: "tone", Type: "string", Description: "Writing tone, e.g. professional, enthusiastic, conversational", Default: "professional"},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			job, errRes := requireParsedResumeAndJob(st, args)
			if errRes != nil {
				return errRes
			}
			if deps.LLM == nil {
				return errorResult("cover letter generation requires an LLM client")
			}
			if deps.Writer == nil {
				return errorResult("document generation is not configured")
			}

			tone := stringArg(args, "tone")
			if tone == "" {
				tone = "professional"
			}

			match := analysis.CalculateSkillMatch(st.ResumeParsed.Skills, jobRequirements(job))
			qualifications := match.MatchingSkills
			if len(qualifications) == 0 {
				qualifications = st.ResumeParsed.Skills
			}

			template := prompts.MustGet("documents.json", "cover-letter")
			prompt := prompts.Format(template, map[string]string{
				"Name":           st.ResumeParsed.Contact.Name,
				"Title":          job.Title,
				"Company":        job.Company,
				"Qualifications": strings.Join(qualifications, ", "),
				"Requirements":   strings.Join(jobRequirements(job), "\n"),
				"Tone":           tone,
			})

			letter, err := deps.LLM.GenerateContent(ctx, prompt, llm.TierAdvanced)
			if err != nil {
				deps.logger().Warn("cover letter generation failed", zap.Error(err))
				return errorResult(err.Error())
			}

			path, err := deps.Writer.Save(strings.TrimSpace(letter)+"\n", docgen.DocTypeCoverLetter, job.ID, docgen.FormatMarkdown)
			if err != nil {
				return errorResult(err.Error())
			}

			st.RecordDocument(docgen.DocTypeCoverLetter, job.ID, path)
			recordDocument(ctx, deps, docgen.DocTypeCoverLetter, job.ID, path)

			return successResult(map[string]any{
				"job_id":       job.ID,
				"document_key": session.DocumentKey(docgen.DocTypeCoverLetter, job.ID),
				"path":         path,
				"tone":         tone,
			})
		},
	}
}

func optimizeSummary(ctx context.Context, deps *Deps, st *session.State, job *types.JobPosting) (string, error) {
	template := prompts.MustGet("documents.json", "optimize-summary")
	prompt := prompts.Format(template, map[string]string{
		"Summary":      st.ResumeParsed.Summary,
		"Title":        job.Title,
		"Company":      job.Company,
		"Requirements": strings.Join(jobRequirements(job), "\n"),
		"Skills":       strings.Join(st.ResumeParsed.Skills, ", "),
	})
	summary, err := deps.LLM.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("summary optimization failed: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

func recordDocument(ctx context.Context, deps *Deps, docType, jobID, path string) {
	if deps.Recorder == nil {
		return
	}
	if err := deps.Recorder.RecordDocument(ctx, docType, jobID, path); err != nil {
		deps.logger().Debug("document history record failed", zap.Error(err))
	}
}
