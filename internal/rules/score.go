package rules

import "github.com/ppiankov/proctor/internal/model"

// Finalize folds accumulated violations into a Report using the rule
// set's scoring parameters. The score starts at base_score, each
// violation subtracts its penalty, and the result is clamped at zero.
// Violations are reported in the order they were accumulated, so for the
// same rule set and same ordered history the Report is reproducible
// byte for byte.
func Finalize(rs *RuleSet, violations []model.Violation, diagnostics []string) model.Report {
	total := 0
	for _, v := range violations {
		total += v.Penalty
	}

	score := rs.Scoring.BaseScore - total
	if score < 0 {
		score = 0
	}

	// Copy so the report does not alias the session's accumulator.
	vs := make([]model.Violation, len(violations))
	copy(vs, violations)
	var diags []string
	if len(diagnostics) > 0 {
		diags = make([]string, len(diagnostics))
		copy(diags, diagnostics)
	}

	return model.Report{
		TotalViolations: len(vs),
		TotalPenalty:    total,
		FinalScore:      score,
		Passed:          score >= rs.Scoring.Threshold,
		Violations:      vs,
		Diagnostics:     diags,
	}
}
