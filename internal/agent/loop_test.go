package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-advisor/internal/docgen"
	"github.com/jonathan/career-advisor/internal/session"
	"github.com/jonathan/career-advisor/internal/tools"
)

// scriptedBackend replays a fixed sequence of decisions and records the
// requests it saw.
type scriptedBackend struct {
	decisions []*Decision
	errs      []error
	requests  []*Request
	round     int
}

func (b *scriptedBackend) Decide(ctx context.Context, req *Request) (*Decision, error) {
	b.requests = append(b.requests, req)
	i := b.round
	b.round++
	if i < len(b.errs) && b.errs[i] != nil {
		return nil, b.errs[i]
	}
	if i < len(b.decisions) {
		return b.decisions[i], nil
	}
	return &Decision{Final: &Answer{Text: "done"}}, nil
}

func final(text string) *Decision {
	return &Decision{Final: &Answer{Text: text}}
}

func calls(names ...string) *Decision {
	d := &Decision{}
	for _, name := range names {
		d.Calls = append(d.Calls, ToolCall{Name: name})
	}
	return d
}

func newTestLoop(t *testing.T, backend Backend, opts ...Option) *Loop {
	t.Helper()
	registry := tools.NewRegistry(&tools.Deps{
		Writer:      docgen.NewWriter(t.TempDir(), ""),
		SearchLimit: 10,
	})
	return New(backend, registry, session.NewStore(), opts...)
}

func TestRunImmediateAnswer(t *testing.T) {
	backend := &scriptedBackend{decisions: []*Decision{final("Hello! How can I help?")}}
	loop := newTestLoop(t, backend)

	reply := loop.Run(context.Background(), "hi")
	assert.Equal(t, "Hello! How can I help?", reply)

	require.Len(t, backend.requests, 1)
	assert.Equal(t, "hi", backend.requests[0].UserInput)
}

func TestRunExecutesToolsAndFeedsBackResults(t *testing.T) {
	backend := &scriptedBackend{decisions: []*Decision{
		calls("check_resume_status"),
		final("You have not uploaded a resume yet."),
	}}
	loop := newTestLoop(t, backend)

	reply := loop.Run(context.Background(), "do I have a resume?")
	assert.Equal(t, "You have not uploaded a resume yet.", reply)

	require.Len(t, backend.requests, 2)
	second := backend.requests[1]
	assert.Empty(t, second.UserInput, "user input only on the first round")
	require.Len(t, second.Observations, 1)
	assert.Equal(t, "check_resume_status", second.Observations[0].Name)
	assert.Equal(t, "success", second.Observations[0].Result.Status())
	assert.Equal(t, false, second.Observations[0].Result["has_resume"])
}

func TestRunMultipleCallsExecuteInOrder(t *testing.T) {
	backend := &scriptedBackend{decisions: []*Decision{
		calls("check_resume_status", "list_available_jobs", "get_session_context"),
		final("ok"),
	}}
	loop := newTestLoop(t, backend)
	loop.Run(context.Background(), "status please")

	obs := backend.requests[1].Observations
	require.Len(t, obs, 3)
	assert.Equal(t, "check_resume_status", obs[0].Name)
	assert.Equal(t, "list_available_jobs", obs[1].Name)
	assert.Equal(t, "get_session_context", obs[2].Name)
}

func TestRunUnknownToolFedBackAsError(t *testing.T) {
	backend := &scriptedBackend{decisions: []*Decision{
		calls("summon_recruiter"),
		final("sorry, wrong tool"),
	}}
	loop := newTestLoop(t, backend)
	loop.Run(context.Background(), "hi")

	obs := backend.requests[1].Observations
	require.Len(t, obs, 1)
	assert.Equal(t, "error", obs[0].Result.Status())
	assert.Contains(t, obs[0].Result["error"], "unknown tool")
}

func TestRunRecoversFromEmptyDecision(t *testing.T) {
	backend := &scriptedBackend{decisions: []*Decision{
		{}, // neither calls nor final
		final("recovered"),
	}}
	loop := newTestLoop(t, backend)

	reply := loop.Run(context.Background(), "hi")
	assert.Equal(t, "recovered", reply)
	require.Len(t, backend.requests, 2)
	assert.NotEmpty(t, backend.requests[1].Problem)
}

func TestRunNamelessCallFedBack(t *testing.T) {
	backend := &scriptedBackend{decisions: []*Decision{
		{Calls: []ToolCall{{Name: ""}}},
		final("ok"),
	}}
	loop := newTestLoop(t, backend)
	loop.Run(context.Background(), "hi")

	obs := backend.requests[1].Observations
	require.Len(t, obs, 1)
	assert.Equal(t, "error", obs[0].Result.Status())
}

func TestRunRoundBudget(t *testing.T) {
	// Backend that never answers.
	decisions := make([]*Decision, 0, 20)
	for i := 0; i < 20; i++ {
		decisions = append(decisions, calls("check_resume_status"))
	}
	backend := &scriptedBackend{decisions: decisions}
	loop := newTestLoop(t, backend, WithMaxRounds(3))

	reply := loop.Run(context.Background(), "loop forever")
	assert.Contains(t, reply, "ran out of time")
	assert.Contains(t, reply, "check_resume_status: success")
	assert.Len(t, backend.requests, 3)
}

func TestRunWallClockBudget(t *testing.T) {
	slow := &slowBackend{delay: 50 * time.Millisecond}
	loop := newTestLoop(t, slow, WithTurnTimeout(10*time.Millisecond))

	reply := loop.Run(context.Background(), "hi")
	assert.Contains(t, reply, "wasn't able to finish")
}

type slowBackend struct {
	delay time.Duration
}

func (b *slowBackend) Decide(ctx context.Context, req *Request) (*Decision, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(b.delay):
		return calls("check_resume_status"), nil
	}
}

func TestRunBackendErrorYieldsApology(t *testing.T) {
	backend := &scriptedBackend{errs: []error{errors.New("model unavailable")}}
	loop := newTestLoop(t, backend)

	reply := loop.Run(context.Background(), "hi")
	assert.Contains(t, reply, "I'm sorry")
}

type panickyBackend struct{}

func (panickyBackend) Decide(ctx context.Context, req *Request) (*Decision, error) {
	panic("boom")
}

func TestRunPanicYieldsApology(t *testing.T) {
	loop := newTestLoop(t, panickyBackend{})
	reply := loop.Run(context.Background(), "hi")
	assert.Contains(t, reply, "I'm sorry")
}

func TestStartDeliversReply(t *testing.T) {
	backend := &scriptedBackend{decisions: []*Decision{final("async answer")}}
	loop := newTestLoop(t, backend)

	select {
	case reply := <-loop.Start(context.Background(), "hi"):
		assert.Equal(t, "async answer", reply)
	case <-time.After(time.Second):
		t.Fatal("no reply delivered")
	}
}

func TestStateSurvivesBudgetCut(t *testing.T) {
	// The first round registers a job; the budget then cuts the turn. The
	// job must remain in the session.
	decisions := []*Decision{
		{Calls: []ToolCall{{
			Name: "add_job_posting",
			Args: map[string]any{"job_text": "A detailed posting for a senior Go engineer position at a growing company."},
		}}},
		calls("check_resume_status"),
	}
	backend := &scriptedBackend{decisions: decisions}
	loop := newTestLoop(t, backend, WithMaxRounds(2))

	loop.Run(context.Background(), "add this job")
	assert.Len(t, loop.Store().Get().JobSearchResults, 1)
}
