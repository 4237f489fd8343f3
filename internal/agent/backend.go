// Package agent runs the per-turn dispatch loop: it asks the reasoning
// backend what to do, executes requested tools against the session, feeds
// results back, and normalizes the final answer for display.
package agent

import (
	"context"

	"github.com/jonathan/career-advisor/internal/tools"
)

// ToolCall is one operation the backend asked the loop to execute.
type ToolCall struct {
	Name string
	Args map[string]any
}

// Observation is the result of one executed tool call, fed back to the
// backend on the next round.
type Observation struct {
	Name   string
	Result tools.Result
}

// Segment is one typed block of a structured final answer. Only text
// segments carry display content.
type Segment struct {
	Type string
	Text string
}

// SegmentText marks a Segment as displayable text.
const SegmentText = "text"

// Answer is the backend's final reply for a turn, either a plain string or
// an ordered segment list.
type Answer struct {
	Text     string
	Segments []Segment
}

// Decision is the tagged result of one backend round: either tool calls to
// execute or a final answer. Exactly one side should be populated; the
// loop treats anything else as a protocol error and feeds it back.
type Decision struct {
	Calls []ToolCall
	Final *Answer
}

// Request is the loop's input to one backend round. UserInput is set only
// on the first round of a turn; Observations carry the previous round's
// tool results; Problem carries parse-error feedback when the previous
// decision could not be interpreted.
type Request struct {
	UserInput    string
	Observations []Observation
	Problem      string
}

// Backend is the reasoning capability the loop calls out to. This is the
// only boundary considered "the LLM": implementations hold their own
// conversation history across turns.
type Backend interface {
	Decide(ctx context.Context, req *Request) (*Decision, error)
}
