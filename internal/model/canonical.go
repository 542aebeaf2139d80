package model

import (
	"encoding/json"
	"fmt"
)

// CanonicalArgs serializes a tool argument mapping to a stable string.
// encoding/json sorts map keys, so the same mapping always produces the
// same bytes regardless of insertion order. Nested maps and slices are
// handled recursively by the encoder.
//
// A mapping that cannot be serialized (channels, funcs, cyclic values,
// NaN) returns an error; callers treat the field as empty and record a
// diagnostic rather than aborting the session.
func CanonicalArgs(args map[string]any) (string, error) {
	if len(args) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("serialize tool args: %w", err)
	}
	return string(data), nil
}

// FieldDelimiter separates tool name from serialized arguments when a
// constraint targets both. A single newline cannot appear in a tool name
// and is escaped inside JSON-serialized arguments, so a pattern cannot
// accidentally match across the field boundary.
const FieldDelimiter = "\n"
