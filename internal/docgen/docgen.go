// Package docgen renders tailored resumes and cover letters to disk.
package docgen

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/career-advisor/internal/types"
)

// Document types written by the generation tools.
const (
	DocTypeResume      = "resume"
	DocTypeCoverLetter = "cover_letter"
)

// Output formats. HTML rendering needs a template; when the template is
// missing the writer falls back to markdown.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Writer renders documents and saves them under OutputDir.
type Writer struct {
	OutputDir   string
	TemplateDir string
}

// NewWriter creates a document writer. Directories are created lazily on
// the first save.
func NewWriter(outputDir, templateDir string) *Writer {
	return &Writer{OutputDir: outputDir, TemplateDir: templateDir}
}

// ResumeContent is the material assembled for a tailored resume.
type ResumeContent struct {
	Resume        *types.ResumeData
	Job           *types.JobPosting
	Summary       string
	Optimizations map[string]string
}

// RenderResumeMarkdown builds a tailored resume as markdown. Optimized
// section text replaces the original where present.
func RenderResumeMarkdown(content *ResumeContent) (string, error) {
	if content == nil || content.Resume == nil {
		return "", &RenderError{Message: "no resume data"}
	}
	resume := content.Resume

	var b strings.Builder
	if resume.Contact.Name != "" {
		fmt.Fprintf(&b, "# %s\n\n", resume.Contact.Name)
	}
	contactLine := contactLine(resume.Contact)
	if contactLine != "" {
		fmt.Fprintf(&b, "%s\n\n", contactLine)
	}
	if content.Job != nil {
		fmt.Fprintf(&b, "*Tailored for: %s at %s*\n\n", content.Job.Title, content.Job.Company)
	}

	summary := resume.Summary
	if content.Summary != "" {
		summary = content.Summary
	}
	if text, ok := content.Optimizations["summary"]; ok && text != "" {
		summary = text
	}
	if summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	if len(resume.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		b.WriteString(strings.Join(resume.Skills, ", "))
		b.WriteString("\n\n")
	}

	writeSection(&b, "Experience", "experience", resume.Experience, content.Optimizations)
	writeSection(&b, "Education", "education", resume.Education, content.Optimizations)
	writeSection(&b, "Certifications", "certifications", resume.Certifications, content.Optimizations)

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// writeSection renders a section as bullets. An optimized replacement from
// the optimization tools is used whole, since it arrives as prose.
func writeSection(b *strings.Builder, heading, key string, lines []string, optimizations map[string]string) {
	if optimized, ok := optimizations[key]; ok && strings.TrimSpace(optimized) != "" {
		fmt.Fprintf(b, "## %s\n\n%s\n\n", heading, strings.TrimSpace(optimized))
		return
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(line))
	}
	b.WriteString("\n")
}

func contactLine(contact types.ContactInfo) string {
	var parts []string
	for _, field := range []string{contact.Email, contact.Phone, contact.Location, contact.LinkedIn, contact.GitHub} {
		if field != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, " | ")
}

// htmlTemplateData is what resume.html templates receive.
type htmlTemplateData struct {
	Title   string
	Content template.HTML
}

// RenderHTML wraps markdown content in the named HTML template. A missing
// template directory or file returns a TemplateError so callers can fall
// back to markdown.
func (w *Writer) RenderHTML(templateName, title, markdown string) (string, error) {
	if w.TemplateDir == "" {
		return "", &TemplateError{Message: "no template directory configured"}
	}
	path := filepath.Join(w.TemplateDir, templateName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &TemplateError{Message: fmt.Sprintf("template file not found: %s", path), Cause: err}
		}
		return "", &TemplateError{Message: fmt.Sprintf("failed to read template file: %s", path), Cause: err}
	}

	tmpl, err := template.New(templateName).Parse(string(raw))
	if err != nil {
		return "", &TemplateError{Message: "failed to parse template", Cause: err}
	}

	data := htmlTemplateData{
		Title:   title,
		Content: template.HTML(markdownToHTML(markdown)),
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

// markdownToHTML does a line-oriented conversion covering the markdown the
// renderer itself emits: headings, emphasis lines, bullets, paragraphs.
func markdownToHTML(md string) string {
	var b strings.Builder
	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			closeList()
		case strings.HasPrefix(trimmed, "## "):
			closeList()
			fmt.Fprintf(&b, "<h2>%s</h2>\n", template.HTMLEscapeString(trimmed[3:]))
		case strings.HasPrefix(trimmed, "# "):
			closeList()
			fmt.Fprintf(&b, "<h1>%s</h1>\n", template.HTMLEscapeString(trimmed[2:]))
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			fmt.Fprintf(&b, "<li>%s</li>\n", template.HTMLEscapeString(trimmed[2:]))
		default:
			closeList()
			fmt.Fprintf(&b, "<p>%s</p>\n", template.HTMLEscapeString(trimmed))
		}
	}
	closeList()
	return b.String()
}

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeFilename keeps job IDs from breaking paths. Content-hash IDs are
// already clean; provider IDs occasionally carry slashes.
func sanitizeFilename(name string) string {
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "document"
	}
	return name
}

// Save writes document content under OutputDir and returns the file path.
// Format selects the extension; the HTML fallback to markdown happens in
// the caller, which passes the format that was actually rendered.
func (w *Writer) Save(content, docType, jobID, format string) (string, error) {
	ext := ".md"
	if format == FormatHTML {
		ext = ".html"
	}
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return "", &WriteError{Path: w.OutputDir, Message: "failed to create output directory", Cause: err}
	}
	filename := fmt.Sprintf("%s_%s_%s%s", sanitizeFilename(docType), sanitizeFilename(jobID), time.Now().Format("20060102_150405"), ext)
	path := filepath.Join(w.OutputDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &WriteError{Path: path, Message: "failed to write document", Cause: err}
	}
	return path, nil
}
