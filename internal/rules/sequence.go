package rules

import (
	"fmt"

	"github.com/ppiankov/proctor/internal/model"
)

// EvaluateSequence runs one required_sequence constraint over a complete
// session history. Satisfaction is subsequence containment: the required
// tool names must appear in relative order, not necessarily contiguously.
//
// The scan is a greedy two-pointer walk: each history entry matching the
// next unmet step consumes it. Duplicates in history are consumed by the
// earliest unmatched requirement, which is deliberately permissive — a
// completed sequence anywhere in the history satisfies the rule, however
// much unrelated activity is interleaved.
//
// An empty history violates any (valid, length >= 2) sequence.
func EvaluateSequence(c *Constraint, history []model.ToolCall) *model.Violation {
	if c.Type != RequiredSequence {
		return nil
	}

	next := 0
	for _, call := range history {
		if next == len(c.Sequence) {
			break
		}
		if call.Name == c.Sequence[next] {
			next++
		}
	}

	if next == len(c.Sequence) {
		return nil
	}

	unmet := c.Sequence[next]
	msg := fmt.Sprintf("required sequence not completed: first unmet step %q (step %d of %d)",
		unmet, next+1, len(c.Sequence))
	if c.Message != "" {
		msg = fmt.Sprintf("%s: first unmet step %q", c.Message, unmet)
	}

	return &model.Violation{
		ConstraintID: c.ID,
		Kind:         model.KindSequence,
		Message:      msg,
		Penalty:      c.Penalty,
	}
}
