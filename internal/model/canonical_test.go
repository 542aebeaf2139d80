package model

import (
	"strings"
	"testing"
)

func TestCanonicalArgsDeterministic(t *testing.T) {
	args := map[string]any{
		"title": "Found API Key",
		"body":  "I found this key",
		"meta":  map[string]any{"z": 1, "a": 2},
	}

	first, err := CanonicalArgs(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := CanonicalArgs(args)
		if err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("serialization not stable: %q vs %q", first, again)
		}
	}
}

func TestCanonicalArgsSortsKeys(t *testing.T) {
	out, err := CanonicalArgs(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alpha := strings.Index(out, "alpha")
	mid := strings.Index(out, "mid")
	zeta := strings.Index(out, "zeta")
	if !(alpha < mid && mid < zeta) {
		t.Errorf("keys not sorted: %s", out)
	}
}

func TestCanonicalArgsEmpty(t *testing.T) {
	out, err := CanonicalArgs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "{}" {
		t.Errorf("expected {} for nil args, got %q", out)
	}
}

func TestCanonicalArgsUnserializable(t *testing.T) {
	_, err := CanonicalArgs(map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected error for channel value")
	}
}

func TestFieldDelimiterEscapedInArgs(t *testing.T) {
	// A newline inside an argument value must not survive serialization
	// as a raw newline, or patterns could match across the name/args
	// boundary.
	out, err := CanonicalArgs(map[string]any{"body": "line1\nline2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("raw newline leaked into canonical form: %q", out)
	}
}
