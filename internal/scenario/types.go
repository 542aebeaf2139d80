package scenario

// Call is one tool invocation in a scripted session.
type Call struct {
	Tool string         `yaml:"tool"`
	Args map[string]any `yaml:"args,omitempty"`
}

// Expect declares the assertions for one case. Nil fields are not
// checked, so a case can pin only the verdict, only the score, or both.
type Expect struct {
	Passed     *bool    `yaml:"passed,omitempty"`
	FinalScore *int     `yaml:"final_score,omitempty"`
	Violations []string `yaml:"violations,omitempty"` // constraint ids, in detection order
}

// Case is one scripted session within a scenario.
type Case struct {
	Name   string `yaml:"name,omitempty"`
	Calls  []Call `yaml:"calls"`
	Expect Expect `yaml:"expect"`
}

// Scenario is a named collection of engine test cases sharing one rule
// document.
type Scenario struct {
	Name  string `yaml:"name"`
	Rules string `yaml:"rules,omitempty"` // path, relative to the scenario file
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one case.
type CaseResult struct {
	Index    int      `json:"index"`
	Name     string   `json:"name,omitempty"`
	Passed   bool     `json:"passed"`
	Problems []string `json:"problems,omitempty"`
	Score    int      `json:"score"`
	Verdict  bool     `json:"verdict"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
