package audit

import "github.com/ppiankov/proctor/internal/model"

// ObservedCall is the flattened tool call recorded in each entry.
// Args are stored in canonical serialized form so an entry's bytes are
// reproducible.
type ObservedCall struct {
	Tool string `json:"tool"`
	Args string `json:"args"`
	Seq  int    `json:"seq"`
}

// Entry is one line in the hash-chained JSONL observation log.
// All fields are structs (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp  string       `json:"ts"`
	SessionID  string       `json:"session_id"`
	Call       ObservedCall `json:"call"`
	Violations []string     `json:"violations,omitempty"` // constraint ids flagged by this call
	Penalty    int          `json:"penalty,omitempty"`    // penalty this call added
	RulesHash  string       `json:"rules_hash"`
	PrevHash   string       `json:"prev_hash"`
}

// BuildEntry flattens an ingested call and the violations it produced
// into an Entry. Arguments that cannot be serialized are recorded as
// empty, matching how the engine evaluated them.
func BuildEntry(sessionID, rulesHash string, call model.ToolCall, fresh []model.Violation) Entry {
	args, err := model.CanonicalArgs(call.Args)
	if err != nil {
		args = ""
	}

	entry := Entry{
		SessionID: sessionID,
		Call:      ObservedCall{Tool: call.Name, Args: args, Seq: call.Seq},
		RulesHash: rulesHash,
	}
	for _, v := range fresh {
		entry.Violations = append(entry.Violations, v.ConstraintID)
		entry.Penalty += v.Penalty
	}
	return entry
}
