package rules

import "fmt"

// SchemaError reports a malformed or incomplete rule document.
// Load-time only; no partial RuleSet is ever returned alongside one.
type SchemaError struct {
	ConstraintID string // empty for document-level problems
	Detail       string
}

func (e *SchemaError) Error() string {
	if e.ConstraintID != "" {
		return fmt.Sprintf("rules: constraint %q: %s", e.ConstraintID, e.Detail)
	}
	return fmt.Sprintf("rules: %s", e.Detail)
}

// PatternError reports a negative_regex pattern that failed to compile,
// naming the offending constraint.
type PatternError struct {
	ConstraintID string
	Pattern      string
	Err          error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("rules: constraint %q: pattern %q does not compile: %v",
		e.ConstraintID, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }
