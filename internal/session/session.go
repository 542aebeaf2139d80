// Package session orchestrates rule evaluation over one agent run.
// Events are pushed in arrival order; pattern constraints run per event,
// sequence constraints run over the whole history at finalization.
package session

import (
	"github.com/google/uuid"

	"github.com/ppiankov/proctor/internal/model"
	"github.com/ppiankov/proctor/internal/rules"
)

// Sink accepts tool-call events in arrival order. *Session implements
// it; interceptors (MCP server, SDK wrappers, transcript replay) depend
// only on this, not on any particular host runtime.
type Sink interface {
	Ingest(name string, args map[string]any) []model.Violation
}

// Session is one evaluated run: an append-only history of tool calls and
// the violations accumulated against it. Sessions share no state with
// each other, so concurrent sessions need no coordination. Within one
// session the caller serializes Ingest calls in arrival order.
type Session struct {
	id          string
	rules       *rules.RuleSet
	history     []model.ToolCall
	violations  []model.Violation // pattern violations, arrival order
	diagnostics []string
}

// New creates a session with a generated id.
func New(rs *rules.RuleSet) *Session {
	return NewWithID(rs, uuid.New().String())
}

// NewWithID creates a session with a caller-chosen id (replays pin the
// id recorded in the audit log).
func NewWithID(rs *rules.RuleSet, id string) *Session {
	return &Session{id: id, rules: rs}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Len returns the number of ingested events.
func (s *Session) Len() int { return len(s.history) }

// Ingest appends one tool call to the history and immediately evaluates
// every pattern constraint against it. It returns the violations this
// event produced (also retained for the final report). Serialization
// failures in the call's arguments are recorded as diagnostics and never
// abort the session.
func (s *Session) Ingest(name string, args map[string]any) []model.Violation {
	call := model.ToolCall{Name: name, Args: args, Seq: len(s.history)}
	s.history = append(s.history, call)

	var fresh []model.Violation
	for _, c := range s.rules.PatternConstraints() {
		v, diag := rules.EvaluatePattern(c, call)
		if diag != "" {
			s.diagnostics = append(s.diagnostics, diag)
		}
		if v != nil {
			fresh = append(fresh, *v)
		}
	}

	s.violations = append(s.violations, fresh...)
	return fresh
}

// Finalize evaluates every sequence constraint over the complete history
// and folds all violations into a Report. Sequence evaluation is
// stateless over the full history, so Finalize may be called repeatedly
// on a growing session: pattern violations are counted once (they
// accumulate at ingestion), sequence constraints are re-judged from
// scratch each call, never duplicated.
//
// A partial history is a valid input: stopping early and finalizing
// simply reports the session as it stands.
func (s *Session) Finalize() model.Report {
	all := make([]model.Violation, len(s.violations), len(s.violations)+len(s.rules.SequenceConstraints()))
	copy(all, s.violations)

	for _, c := range s.rules.SequenceConstraints() {
		if v := rules.EvaluateSequence(c, s.history); v != nil {
			all = append(all, *v)
		}
	}

	return rules.Finalize(s.rules, all, s.diagnostics)
}

// History returns a copy of the ingested events.
func (s *Session) History() []model.ToolCall {
	out := make([]model.ToolCall, len(s.history))
	copy(out, s.history)
	return out
}
