package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/prompts"
	"github.com/jonathan/career-advisor/internal/session"
)

// Resume sections the optimization tool accepts.
var optimizableSections = map[string]bool{
	"summary":    true,
	"skills":     true,
	"experience": true,
	"education":  true,
}

func optimizeResumeSectionTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "optimize_resume_section",
		Description: "Rewrite one resume section to target a specific job, weaving in the job's keywords and requirements.",
		Params: []Param{
			{Name: "section_type", Type: "string", Description: "Section to rewrite: summary, skills, experience, or education", Required: true},
			{Name: "job_id", Type: "string", Description: "Id of the target job", Required: true},
			{Name: "content", Type: "string", Description: "Section content to rewrite. Omit to use the parsed resume's section."},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			section := strings.ToLower(stringArg(args, "section_type"))
			if !optimizableSections[section] {
				return errorResult("section_type must be one of: summary, skills, experience, education")
			}
			job, errRes := requireParsedResumeAndJob(st, args)
			if errRes != nil {
				return errRes
			}
			if deps.LLM == nil {
				return errorResult("section optimization requires an LLM client")
			}

			content := stringArg(args, "content")
			if content == "" {
				content = sectionContent(st, section)
			}
			if content == "" {
				return errorResult(fmt.Sprintf("resume has no %s section and no content was provided", section))
			}

			template := prompts.MustGet("optimize.json", "optimize-section")
			prompt := prompts.Format(template, map[string]string{
				"SectionType":  section,
				"Content":      content,
				"Keywords":     strings.Join(jobRequirements(job), ", "),
				"Requirements": strings.Join(job.Requirements, "\n"),
			})

			optimized, err := deps.LLM.GenerateContent(ctx, prompt, llm.TierStandard)
			if err != nil {
				deps.logger().Warn("section optimization failed", zap.String("section", section), zap.Error(err))
				return errorResult(err.Error())
			}

			st.AddEvent(fmt.Sprintf("Optimized %s section for job %s", section, job.ID))
			return successResult(map[string]any{
				"section_type": section,
				"job_id":       job.ID,
				"original":     content,
				"optimized":    strings.TrimSpace(optimized),
			})
		},
	}
}

func generateResumeBulletsTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "generate_resume_bullets",
		Description: "Generate achievement-focused resume bullet points tailored to a job's requirements.",
		Params: []Param{
			{Name: "job_id", Type: "string", Description: "Id of the target job", Required: true},
			{Name: "num_bullets", Type: "integer", Description: "How many bullets to generate", Default: 3},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			job, errRes := requireParsedResumeAndJob(st, args)
			if errRes != nil {
				return errRes
			}
			if deps.LLM == nil {
				return errorResult("bullet generation requires an LLM client")
			}

			numBullets := intArg(args, "num_bullets", 3)
			if numBullets < 1 {
				numBullets = 1
			}
			if numBullets > 10 {
				numBullets = 10
			}

			template := prompts.MustGet("optimize.json", "generate-bullets")
			prompt := prompts.Format(template, map[string]string{
				"Title":        job.Title,
				"Company":      job.Company,
				"NumBullets":   strconv.Itoa(numBullets),
				"Requirements": strings.Join(jobRequirements(job), "\n"),
			})

			raw, err := deps.LLM.GenerateContent(ctx, prompt, llm.TierStandard)
			if err != nil {
				deps.logger().Warn("bullet generation failed", zap.Error(err))
				return errorResult(err.Error())
			}

			bullets := splitBullets(raw)
			return successResult(map[string]any{
				"job_id":  job.ID,
				"bullets": bullets,
				"count":   len(bullets),
			})
		},
	}
}

func improveATSCompatibilityTool(deps *Deps) *Tool {
	return &Tool{
		Name:        "improve_ats_compatibility",
		Description: "Review resume content for applicant tracking system pitfalls and suggest concrete fixes.",
		Params: []Param{
			{Name: "content", Type: "string", Description: "Resume content to review. Omit to review the parsed resume."},
		},
		Handler: func(ctx context.Context, st *session.State, args map[string]any) Result {
			content := stringArg(args, "content")
			if content == "" {
				if !st.IsResumeParsed() {
					return errorResult("no parsed resume in session: call parse_resume first or provide content")
				}
				content = st.ResumeParsed.RawText
			}
			if strings.TrimSpace(content) == "" {
				return errorResult("no resume content to review")
			}
			if deps.LLM == nil {
				return errorResult("ATS review requires an LLM client")
			}

			template := prompts.MustGet("optimize.json", "ats-review")
			prompt := prompts.Format(template, map[string]string{
				"Content": content,
			})

			review, err := deps.LLM.GenerateContent(ctx, prompt, llm.TierStandard)
			if err != nil {
				deps.logger().Warn("ATS review failed", zap.Error(err))
				return errorResult(err.Error())
			}

			st.AddEvent("Reviewed resume for ATS compatibility")
			return successResult(map[string]any{
				"review": strings.TrimSpace(review),
			})
		},
	}
}

// sectionContent extracts the named section from the parsed resume.
func sectionContent(st *session.State, section string) string {
	parsed := st.ResumeParsed
	switch section {
	case "summary":
		return parsed.Summary
	case "skills":
		return strings.Join(parsed.Skills, ", ")
	case "experience":
		return strings.Join(parsed.Experience, "\n")
	case "education":
		return strings.Join(parsed.Education, "\n")
	}
	return ""
}

// splitBullets normalizes LLM bullet output: one bullet per non-empty
// line, markers stripped.
func splitBullets(raw string) []string {
	var bullets []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}
