// Package tools defines the operation catalog the dispatch loop exposes to
// the reasoning backend: session context inspection, resume parsing, job
// search and registration, analysis, and document generation.
package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/docgen"
	"github.com/jonathan/career-advisor/internal/jobs"
	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/session"
)

// Result is the structured payload a tool returns to the dispatch loop.
// Every result carries a "status" discriminator; the remaining keys vary
// per tool.
type Result map[string]any

// Status returns the result's status discriminator.
func (r Result) Status() string {
	s, _ := r["status"].(string)
	return s
}

// Handler executes one tool invocation against the conversation state.
type Handler func(ctx context.Context, st *session.State, args map[string]any) Result

// Param describes a single tool parameter for the backend's function
// declarations.
type Param struct {
	Name        string
	Type        string // "string", "integer", "boolean", "array"
	Description string
	Required    bool
	Default     any
}

// Tool is one operation in the catalog.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Deps holds the shared collaborators tool handlers close over.
type Deps struct {
	LLM      llm.Client
	Search   *jobs.AdzunaClient
	Writer   *docgen.Writer
	Logger   *zap.Logger
	Recorder Recorder

	// SearchLimit caps search results per request; the hard ceiling in the
	// jobs package still applies.
	SearchLimit int
	UseBrowser  bool
}

// Recorder receives search and document events for optional persistence.
// A nil recorder is valid and drops everything.
type Recorder interface {
	RecordSearch(ctx context.Context, keywords, location string, resultCount int) error
	RecordDocument(ctx context.Context, docType, jobID, path string) error
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Registry is the ordered tool catalog. Order matters: context tools come
// first so the backend sees the cheap state checks before the heavier
// operations.
type Registry struct {
	tools []*Tool
	byName map[string]*Tool
}

// NewRegistry builds the full catalog wired to the given dependencies.
func NewRegistry(deps *Deps) *Registry {
	r := &Registry{byName: make(map[string]*Tool)}
	r.register(checkResumeStatusTool(deps))
	r.register(getSessionContextTool(deps))
	r.register(parseResumeTool(deps))
	r.register(searchJobsTool(deps))
	r.register(addJobPostingTool(deps))
	r.register(listAvailableJobsTool(deps))
	r.register(getJobDetailsTool(deps))
	r.register(filterJobsTool(deps))
	r.register(analyzeJobDescriptionTool(deps))
	r.register(extractJobKeywordsTool(deps))
	r.register(compareResumeToJobTool(deps))
	r.register(calculateMatchScoreTool(deps))
	r.register(optimizeResumeSectionTool(deps))
	r.register(generateResumeBulletsTool(deps))
	r.register(improveATSCompatibilityTool(deps))
	r.register(generateOptimizedResumeTool(deps))
	r.register(generateCoverLetterTool(deps))
	return r
}

func (r *Registry) register(t *Tool) {
	if _, exists := r.byName[t.Name]; exists {
		panic(fmt.Sprintf("duplicate tool name: %s", t.Name))
	}
	r.tools = append(r.tools, t)
	r.byName[t.Name] = t
}

// Tools returns the catalog in registration order.
func (r *Registry) Tools() []*Tool {
	return r.tools
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Execute runs a named tool. An unknown name returns an error result
// rather than a Go error, since the loop reports it back to the backend
// as an observation. A handler panic is contained the same way, so one
// bad invocation degrades to an error observation instead of ending the
// turn.
func (r *Registry) Execute(ctx context.Context, st *session.State, name string, args map[string]any) (res Result) {
	tool, ok := r.byName[name]
	if !ok {
		return errorResult(fmt.Sprintf("unknown tool: %s", name))
	}
	if args == nil {
		args = map[string]any{}
	}
	defer func() {
		if rec := recover(); rec != nil {
			res = errorResult(fmt.Sprintf("tool %s failed: %v", name, rec))
		}
	}()
	return tool.Handler(ctx, st, args)
}
