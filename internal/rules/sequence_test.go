package rules

import (
	"strings"
	"testing"

	"github.com/ppiankov/proctor/internal/model"
)

func seqConstraint(steps ...string) *Constraint {
	return &Constraint{
		ID:       "workflow",
		Type:     RequiredSequence,
		Sequence: steps,
		Penalty:  35,
	}
}

func history(names ...string) []model.ToolCall {
	calls := make([]model.ToolCall, len(names))
	for i, n := range names {
		calls[i] = model.ToolCall{Name: n, Seq: i}
	}
	return calls
}

func TestSequenceSatisfiedWithInterleavedCalls(t *testing.T) {
	c := seqConstraint("create_branch", "update_file", "create_pull_request")
	h := history("create_branch", "read_file", "update_file", "create_pull_request")

	if v := EvaluateSequence(c, h); v != nil {
		t.Errorf("interleaved unrelated calls must not break the sequence: %+v", v)
	}
}

func TestSequenceWrongOrderViolates(t *testing.T) {
	c := seqConstraint("create_branch", "update_file", "create_pull_request")
	h := history("update_file", "create_branch", "create_pull_request")

	v := EvaluateSequence(c, h)
	if v == nil {
		t.Fatal("out-of-order steps must violate")
	}
	if v.Kind != model.KindSequence {
		t.Errorf("expected kind %s, got %s", model.KindSequence, v.Kind)
	}
	// After consuming create_branch, update_file never reappears.
	if !strings.Contains(v.Message, "update_file") {
		t.Errorf("message should name the first unmet step: %s", v.Message)
	}
}

func TestSequenceEmptyHistoryViolates(t *testing.T) {
	c := seqConstraint("a", "b")

	v := EvaluateSequence(c, nil)
	if v == nil {
		t.Fatal("empty history must violate any sequence")
	}
	if !strings.Contains(v.Message, `"a"`) {
		t.Errorf("first unmet step should be the first step: %s", v.Message)
	}
}

func TestSequenceGreedyDuplicateConsumption(t *testing.T) {
	// Duplicate names are consumed by the earliest unmatched requirement:
	// the first "a" satisfies step 1, the second satisfies step 2.
	c := seqConstraint("a", "a", "b")

	if v := EvaluateSequence(c, history("a", "a", "b")); v != nil {
		t.Errorf("duplicates should satisfy repeated steps: %+v", v)
	}
	if v := EvaluateSequence(c, history("a", "b")); v == nil {
		t.Error("single occurrence cannot satisfy two required steps")
	}
}

func TestSequenceCompletedAnywhere(t *testing.T) {
	c := seqConstraint("x", "y")
	h := history("y", "x", "noise", "y", "trailing")

	// First y is consumed by nothing (x unmatched), x matches step 1,
	// second y completes the sequence.
	if v := EvaluateSequence(c, h); v != nil {
		t.Errorf("late completion must satisfy: %+v", v)
	}
}

func TestSequenceExtraTrailingCallsIgnored(t *testing.T) {
	c := seqConstraint("a", "b")
	if v := EvaluateSequence(c, history("a", "b", "c", "d", "e")); v != nil {
		t.Errorf("trailing calls must not matter: %+v", v)
	}
}
