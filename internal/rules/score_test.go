package rules

import (
	"encoding/json"
	"testing"

	"github.com/ppiankov/proctor/internal/model"
)

func scoring(base, threshold int) *RuleSet {
	return &RuleSet{Scoring: Scoring{BaseScore: base, Threshold: threshold}}
}

func TestFinalizePenaltyBelowThresholdFails(t *testing.T) {
	rs := scoring(100, 70)
	vs := []model.Violation{
		{ConstraintID: "a", Penalty: 20},
		{ConstraintID: "b", Penalty: 15},
	}

	r := Finalize(rs, vs, nil)
	if r.FinalScore != 65 {
		t.Errorf("expected final score 65, got %d", r.FinalScore)
	}
	if r.Passed {
		t.Error("65 < 70 must fail")
	}
	if r.TotalPenalty != 35 || r.TotalViolations != 2 {
		t.Errorf("totals wrong: %+v", r)
	}
}

func TestFinalizeClampsAtZero(t *testing.T) {
	rs := scoring(100, 70)
	r := Finalize(rs, []model.Violation{{ConstraintID: "big", Penalty: 150}}, nil)
	if r.FinalScore != 0 {
		t.Errorf("expected clamped score 0, got %d", r.FinalScore)
	}
	if r.Passed {
		t.Error("clamped score must fail a positive threshold")
	}
}

func TestFinalizeNoViolationsPasses(t *testing.T) {
	rs := scoring(100, 70)
	r := Finalize(rs, nil, nil)
	if r.FinalScore != 100 || !r.Passed || r.TotalViolations != 0 {
		t.Errorf("clean session should pass at base score: %+v", r)
	}
}

func TestFinalizeScoreWithinBounds(t *testing.T) {
	rs := scoring(80, 40)
	cases := [][]model.Violation{
		nil,
		{{Penalty: 0}},
		{{Penalty: 40}},
		{{Penalty: 80}},
		{{Penalty: 200}},
		{{Penalty: 30}, {Penalty: 30}, {Penalty: 30}},
	}
	for i, vs := range cases {
		r := Finalize(rs, vs, nil)
		if r.FinalScore < 0 || r.FinalScore > rs.Scoring.BaseScore {
			t.Errorf("case %d: score %d outside [0, %d]", i, r.FinalScore, rs.Scoring.BaseScore)
		}
	}
}

func TestFinalizeThresholdBoundaryPasses(t *testing.T) {
	rs := scoring(100, 70)
	r := Finalize(rs, []model.Violation{{Penalty: 30}}, nil)
	if !r.Passed {
		t.Error("score equal to threshold must pass")
	}
}

func TestFinalizePreservesViolationOrder(t *testing.T) {
	rs := scoring(100, 0)
	vs := []model.Violation{
		{ConstraintID: "first"},
		{ConstraintID: "second"},
		{ConstraintID: "third"},
	}
	r := Finalize(rs, vs, nil)
	for i, want := range []string{"first", "second", "third"} {
		if r.Violations[i].ConstraintID != want {
			t.Fatalf("violation %d: expected %s, got %s", i, want, r.Violations[i].ConstraintID)
		}
	}
}

func TestFinalizeDeterministicBytes(t *testing.T) {
	rs := scoring(100, 70)
	vs := []model.Violation{{ConstraintID: "a", Kind: model.KindPattern, Message: "m", Penalty: 10}}

	first, err := json.Marshal(Finalize(rs, vs, []string{"diag"}))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Finalize(rs, vs, []string{"diag"}))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("reports differ:\n%s\n%s", first, second)
	}
}

func TestFinalizeCopiesAccumulator(t *testing.T) {
	rs := scoring(100, 70)
	vs := []model.Violation{{ConstraintID: "a", Penalty: 10}}
	r := Finalize(rs, vs, nil)

	vs[0].ConstraintID = "mutated"
	if r.Violations[0].ConstraintID != "a" {
		t.Error("report must not alias the caller's slice")
	}
}
