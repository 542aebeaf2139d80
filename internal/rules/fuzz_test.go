package rules

import "testing"

func FuzzParseRuleDocument(f *testing.F) {
	// Seed with the shipped default document
	f.Add([]byte(DefaultRulesYAML()))

	// Seed with minimal valid YAML
	f.Add([]byte(`constraints: []
scoring:
  base_score: 100
  threshold: 70
`))

	// Seed with empty
	f.Add([]byte{})

	// Seed with garbage
	f.Add([]byte(`{{{not yaml at all`))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic on any input; either a rule set or an error
		rs, err := Parse(data)
		if err == nil && rs == nil {
			t.Fatal("nil rule set without error")
		}
	})
}
