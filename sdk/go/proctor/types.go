package proctor

import (
	"fmt"

	"github.com/ppiankov/proctor/internal/model"
)

// Call describes one tool invocation an agent intends to make.
type Call struct {
	Tool string         // tool name: "run_command", "read_file", "http"
	Args map[string]any // arguments the agent passed, nil is fine
}

// Violation is a detected breach of one constraint.
type Violation struct {
	ConstraintID string
	Kind         string
	Message      string
	Penalty      int
}

// Report is the scored verdict for a session.
type Report struct {
	TotalViolations int
	TotalPenalty    int
	FinalScore      int
	Passed          bool
	Violations      []Violation
	Diagnostics     []string
}

// ViolationError is returned by enforcing wrappers when a call trips
// one or more constraints. The inner tool function is never invoked.
type ViolationError struct {
	Call       Call
	Violations []Violation
}

func (e *ViolationError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("proctor blocked %s", e.Call.Tool)
	}
	return fmt.Sprintf("proctor blocked %s (%s): %s",
		e.Call.Tool, e.Violations[0].ConstraintID, e.Violations[0].Message)
}

// toViolations maps internal violations to SDK views.
func toViolations(vs []model.Violation) []Violation {
	if len(vs) == 0 {
		return nil
	}
	out := make([]Violation, len(vs))
	for i, v := range vs {
		out[i] = Violation{
			ConstraintID: v.ConstraintID,
			Kind:         string(v.Kind),
			Message:      v.Message,
			Penalty:      v.Penalty,
		}
	}
	return out
}

// toReport maps an internal report to an SDK Report.
func toReport(r model.Report) Report {
	return Report{
		TotalViolations: r.TotalViolations,
		TotalPenalty:    r.TotalPenalty,
		FinalScore:      r.FinalScore,
		Passed:          r.Passed,
		Violations:      toViolations(r.Violations),
		Diagnostics:     r.Diagnostics,
	}
}
