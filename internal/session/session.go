// Package session holds the per-conversation state carried across turns:
// the uploaded resume, the current job list, generated documents, and a
// bounded log of notable events.
//
// A Store is the conversation-scoped handle the hosting layer constructs and
// threads through the dispatch loop. It performs no locking: the concurrency
// model is one logical writer per conversation, with deployments serving
// multiple conversations giving each its own Store.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/career-advisor/internal/types"
)

// maxEvents bounds the rolling event log. Older entries are evicted
// silently.
const maxEvents = 20

// State is the mutable record for a single conversation.
type State struct {
	ResumePath       string
	ResumeParsed     *types.ResumeData
	ResumeUploadTime time.Time

	JobSearchResults []*types.JobPosting
	SelectedJobID    string

	// GeneratedDocuments maps a composite docType_jobID key to a file path.
	// Append-only within a session.
	GeneratedDocuments map[string]string

	events []string
}

// Store owns the state for one conversation, creating it lazily.
type Store struct {
	state *State
}

// NewStore returns an empty conversation-scoped store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the state instance for this conversation, creating an empty
// one on first call. Idempotent thereafter.
func (s *Store) Get() *State {
	if s.state == nil {
		s.state = &State{
			GeneratedDocuments: make(map[string]string),
		}
	}
	return s.state
}

// Clear resets all fields to empty, used on "new conversation".
func (s *Store) Clear() {
	s.state = &State{
		GeneratedDocuments: make(map[string]string),
	}
}

// HasResume reports whether a resume has been uploaded.
func (st *State) HasResume() bool {
	return st.ResumePath != ""
}

// IsResumeParsed reports whether parsed resume data is cached.
func (st *State) IsResumeParsed() bool {
	return st.ResumeParsed != nil
}

// SetResume records an uploaded resume path and, optionally, its parsed
// data. Supplying a path different from the current one invalidates any
// cached parse.
func (st *State) SetResume(path string, parsed *types.ResumeData) {
	if path != st.ResumePath {
		st.ResumeParsed = nil
	}
	st.ResumePath = path
	st.ResumeUploadTime = time.Now()
	if parsed != nil {
		st.ResumeParsed = parsed
	}
	st.AddEvent(fmt.Sprintf("Resume uploaded: %s", path))
}

// SetParsedData caches a parse result for the current resume path.
func (st *State) SetParsedData(parsed *types.ResumeData) {
	st.ResumeParsed = parsed
	st.AddEvent("Resume parsed successfully")
}

// SetJobs replaces the current job list wholesale, as after a new search.
func (st *State) SetJobs(jobs []*types.JobPosting, reason string) {
	st.JobSearchResults = jobs
	if reason != "" {
		st.AddEvent(reason)
	}
}

// UpsertJob registers a manually supplied posting. An existing posting with
// the same id is removed and the new one is inserted at the front of the
// list, so resubmission replaces rather than duplicates.
func (st *State) UpsertJob(job *types.JobPosting) {
	kept := make([]*types.JobPosting, 0, len(st.JobSearchResults)+1)
	kept = append(kept, job)
	for _, existing := range st.JobSearchResults {
		if existing.ID != job.ID {
			kept = append(kept, existing)
		}
	}
	st.JobSearchResults = kept
	st.AddEvent(fmt.Sprintf("Job added: %s at %s", job.Title, job.Company))
}

// JobByID finds a posting in the current job list.
func (st *State) JobByID(id string) *types.JobPosting {
	for _, job := range st.JobSearchResults {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// SelectJob records the job the user is focusing on. Informational only.
func (st *State) SelectJob(id string) {
	st.SelectedJobID = id
}

// RecordDocument registers a generated document under its composite key.
func (st *State) RecordDocument(docType, jobID, path string) {
	st.GeneratedDocuments[DocumentKey(docType, jobID)] = path
	st.AddEvent(fmt.Sprintf("Generated %s for job %s", docType, jobID))
}

// DocumentKey builds the composite registry key for a generated document.
func DocumentKey(docType, jobID string) string {
	return fmt.Sprintf("%s_%s", docType, jobID)
}

// AddEvent appends a short human-readable fact to the rolling event log,
// evicting the oldest entries beyond the bound.
func (st *State) AddEvent(fact string) {
	st.events = append(st.events, fmt.Sprintf("[%s] %s", time.Now().Format("15:04"), fact))
	if len(st.events) > maxEvents {
		st.events = st.events[len(st.events)-maxEvents:]
	}
}

// RecentEvents returns up to n most recent event entries, oldest first.
func (st *State) RecentEvents(n int) []string {
	if n <= 0 || len(st.events) == 0 {
		return nil
	}
	if n > len(st.events) {
		n = len(st.events)
	}
	out := make([]string, n)
	copy(out, st.events[len(st.events)-n:])
	return out
}

// EventCount reports the current size of the event log.
func (st *State) EventCount() int {
	return len(st.events)
}

// ContextString summarizes the session for the reasoning backend.
func (st *State) ContextString() string {
	var parts []string

	if st.HasResume() {
		parts = append(parts, fmt.Sprintf("resume uploaded: %s", st.ResumePath))
		if st.IsResumeParsed() {
			parts = append(parts, fmt.Sprintf("resume parsed for: %s", st.ResumeParsed.Contact.Name))
		}
	} else {
		parts = append(parts, "no resume uploaded yet")
	}

	if n := len(st.JobSearchResults); n > 0 {
		parts = append(parts, fmt.Sprintf("%d job(s) in session", n))
	}
	if st.SelectedJobID != "" {
		parts = append(parts, fmt.Sprintf("selected job: %s", st.SelectedJobID))
	}
	if n := len(st.GeneratedDocuments); n > 0 {
		parts = append(parts, fmt.Sprintf("%d document(s) generated", n))
	}

	return strings.Join(parts, " | ")
}
