package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/proctor/internal/rules"
	"github.com/ppiankov/proctor/internal/session"
)

// Run evaluates all cases in a scenario against the given rule set.
// Each case gets a fresh session (cases are independent).
func Run(s *Scenario, rs *rules.RuleSet) *RunResult {
	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		sess := session.New(rs)
		for _, call := range c.Calls {
			sess.Ingest(call.Tool, call.Args)
		}
		report := sess.Finalize()

		cr := CaseResult{
			Index:   i + 1,
			Name:    c.Name,
			Score:   report.FinalScore,
			Verdict: report.Passed,
		}

		if c.Expect.Passed != nil && report.Passed != *c.Expect.Passed {
			cr.Problems = append(cr.Problems,
				fmt.Sprintf("expected passed=%v, got %v", *c.Expect.Passed, report.Passed))
		}
		if c.Expect.FinalScore != nil && report.FinalScore != *c.Expect.FinalScore {
			cr.Problems = append(cr.Problems,
				fmt.Sprintf("expected final_score=%d, got %d", *c.Expect.FinalScore, report.FinalScore))
		}
		if c.Expect.Violations != nil {
			got := make([]string, len(report.Violations))
			for j, v := range report.Violations {
				got[j] = v.ConstraintID
			}
			if strings.Join(got, ",") != strings.Join(c.Expect.Violations, ",") {
				cr.Problems = append(cr.Problems,
					fmt.Sprintf("expected violations [%s], got [%s]",
						strings.Join(c.Expect.Violations, ", "), strings.Join(got, ", ")))
			}
		}

		if len(cr.Problems) == 0 {
			cr.Passed = true
			result.Passed++
		} else {
			result.Failed++
		}

		result.Cases = append(result.Cases, cr)
	}

	return result
}

// LoadAndRun loads a scenario YAML file, resolves its rule document, and
// runs all cases. A scenario's own rules path (relative to the scenario
// file) wins over rulesPath; with neither, the built-in defaults apply.
func LoadAndRun(path, rulesPath string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("scenario %s has no cases", path)
	}

	effective := rulesPath
	if s.Rules != "" {
		effective = s.Rules
		if !filepath.IsAbs(effective) {
			effective = filepath.Join(filepath.Dir(path), effective)
		}
	}

	rs, err := rules.Load(effective)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	result := Run(&s, rs)
	result.File = path

	return result, nil
}
