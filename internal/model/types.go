package model

// ToolCall is one recorded tool invocation in a session.
// Immutable once ingested; Seq is the zero-based arrival position.
type ToolCall struct {
	Name string         `json:"tool_name"`
	Args map[string]any `json:"tool_args"`
	Seq  int            `json:"seq"`
}

// ViolationKind identifies which constraint variant produced a violation.
type ViolationKind string

const (
	KindPattern  ViolationKind = "negative_regex"
	KindSequence ViolationKind = "required_sequence"
)

// Violation is a detected breach of one constraint.
type Violation struct {
	ConstraintID string        `json:"constraint_id"`
	Kind         ViolationKind `json:"kind"`
	Message      string        `json:"message"`
	Penalty      int           `json:"penalty"`
}

// Report is the final verdict for one session.
// All fields are structs or scalars (no map[string]any) so json.Marshal
// output is byte-for-byte reproducible for the same inputs.
type Report struct {
	TotalViolations int         `json:"total_violations"`
	TotalPenalty    int         `json:"total_penalty"`
	FinalScore      int         `json:"final_score"`
	Passed          bool        `json:"passed"`
	Violations      []Violation `json:"violations"`
	Diagnostics     []string    `json:"diagnostics,omitempty"`
}
