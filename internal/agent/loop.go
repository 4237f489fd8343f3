package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/session"
	"github.com/jonathan/career-advisor/internal/tools"
)

// Turn budgets. Exceeding either ends the turn with whatever partial
// answer is available instead of hanging or failing silently.
const (
	DefaultMaxRounds   = 15
	DefaultTurnTimeout = 300 * time.Second
)

// apology is the user-facing reply when a turn fails beyond recovery.
const apology = "I'm sorry, I ran into a problem handling that. Could you rephrase or try a simpler request?"

// Loop drives one conversation: it owns the session store handle and
// executes turns sequentially, one backend round-trip at a time.
type Loop struct {
	backend  Backend
	registry *tools.Registry
	store    *session.Store
	logger   *zap.Logger

	maxRounds   int
	turnTimeout time.Duration
}

// Option configures a Loop.
type Option func(*Loop)

// WithMaxRounds overrides the per-turn round-trip bound.
func WithMaxRounds(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxRounds = n
		}
	}
}

// WithTurnTimeout overrides the per-turn wall-clock budget.
func WithTurnTimeout(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.turnTimeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// New builds a dispatch loop for one conversation.
func New(backend Backend, registry *tools.Registry, store *session.Store, opts ...Option) *Loop {
	l := &Loop{
		backend:     backend,
		registry:    registry,
		store:       store,
		logger:      zap.NewNop(),
		maxRounds:   DefaultMaxRounds,
		turnTimeout: DefaultTurnTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store exposes the conversation's session store to the hosting layer.
func (l *Loop) Store() *session.Store {
	return l.store
}

// Run processes one user utterance and returns the reply. It never
// returns an error: any failure below the turn boundary is converted into
// an apologetic reply.
func (l *Loop) Run(ctx context.Context, input string) string {
	reply, err := l.runTurn(ctx, input)
	if err != nil {
		l.logger.Error("turn failed", zap.Error(err))
		return apology
	}
	return reply
}

// Start is the suspendable equivalent of Run: the turn executes in its
// own goroutine and the reply is delivered on the returned channel. The
// same failure policy applies.
func (l *Loop) Start(ctx context.Context, input string) <-chan string {
	out := make(chan string, 1)
	go func() {
		out <- l.Run(ctx, input)
		close(out)
	}()
	return out
}

func (l *Loop) runTurn(ctx context.Context, input string) (reply string, err error) {
	// Nothing below the turn boundary may escape, panics included.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("turn panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, l.turnTimeout)
	defer cancel()

	st := l.store.Get()

	req := &Request{UserInput: input}
	var scratch []Observation

	for round := 1; round <= l.maxRounds; round++ {
		decision, err := l.backend.Decide(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return l.partialAnswer(scratch), nil
			}
			return "", fmt.Errorf("backend decision failed: %w", err)
		}

		if decision.Final != nil {
			return Normalize(decision.Final), nil
		}

		if len(decision.Calls) == 0 {
			// Malformed decision: neither calls nor an answer. Feed the
			// problem back as an observation instead of crashing the turn.
			l.logger.Warn("uninterpretable backend decision", zap.Int("round", round))
			req = &Request{Problem: "the response contained neither a tool call nor a final answer"}
			continue
		}

		observations := make([]Observation, 0, len(decision.Calls))
		for _, call := range decision.Calls {
			if ctx.Err() != nil {
				break
			}
			if call.Name == "" {
				observations = append(observations, Observation{
					Name:   "invalid",
					Result: tools.Result{"status": "error", "error": "tool call had no name"},
				})
				continue
			}
			l.logger.Debug("executing tool", zap.String("tool", call.Name), zap.Int("round", round))
			result := l.registry.Execute(ctx, st, call.Name, call.Args)
			observations = append(observations, Observation{Name: call.Name, Result: result})
		}
		scratch = append(scratch, observations...)

		if ctx.Err() != nil {
			return l.partialAnswer(scratch), nil
		}
		req = &Request{Observations: observations}
	}

	l.logger.Warn("round budget exhausted", zap.Int("max_rounds", l.maxRounds))
	return l.partialAnswer(scratch), nil
}

// partialAnswer summarizes what was accomplished before a budget cut the
// turn short. State already written by executed tools stays in place.
func (l *Loop) partialAnswer(scratch []Observation) string {
	if len(scratch) == 0 {
		return "I wasn't able to finish working on that in time. Could you try again or simplify the request?"
	}
	var b strings.Builder
	b.WriteString("I ran out of time before finishing. Here is what I completed:\n")
	for _, obs := range scratch {
		fmt.Fprintf(&b, "- %s: %s\n", obs.Name, obs.Result.Status())
	}
	b.WriteString("Please ask again to continue from here.")
	return b.String()
}
