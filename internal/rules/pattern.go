package rules

import (
	"fmt"

	"github.com/ppiankov/proctor/internal/model"
)

// EvaluatePattern runs one negative_regex constraint against one tool
// call. It returns at most one violation per call regardless of how many
// times the pattern occurs, and a diagnostic string when the call's
// arguments could not be serialized (the field is treated as empty and
// evaluation continues).
//
// Patterns are matched exactly as authored: no case folding, substring
// search rather than full match.
func EvaluatePattern(c *Constraint, call model.ToolCall) (*model.Violation, string) {
	if c.Type != NegativeRegex || c.re == nil {
		return nil, ""
	}

	var diag string
	subject := ""

	switch c.TargetField {
	case TargetToolName:
		subject = call.Name
	case TargetToolArgs:
		subject, diag = serializeArgs(c, call)
	case TargetAny:
		args, d := serializeArgs(c, call)
		diag = d
		subject = call.Name + model.FieldDelimiter + args
	}

	if !c.re.MatchString(subject) {
		return nil, diag
	}

	msg := c.Message
	if msg == "" {
		msg = fmt.Sprintf("pattern %q matched %s of tool %q", c.Pattern, c.TargetField, call.Name)
	}

	return &model.Violation{
		ConstraintID: c.ID,
		Kind:         model.KindPattern,
		Message:      msg,
		Penalty:      c.Penalty,
	}, diag
}

func serializeArgs(c *Constraint, call model.ToolCall) (string, string) {
	s, err := model.CanonicalArgs(call.Args)
	if err != nil {
		return "", fmt.Sprintf("constraint %s: event %d (%s): %v; treating args as empty",
			c.ID, call.Seq, call.Name, err)
	}
	return s, ""
}
