package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/proctor/internal/rules"
	"github.com/ppiankov/proctor/internal/session"
)

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	path := writeTranscript(t, `{"tool_name":"read_file","tool_args":{"path":"a.py"}}

{"tool_name":"create_issue","tool_args":{"body":"hello"}}
`)

	entries, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (blank line skipped), got %d", len(entries))
	}
	if entries[0].ToolName != "read_file" || entries[1].ToolName != "create_issue" {
		t.Errorf("entries out of order: %+v", entries)
	}
}

func TestReadFileMalformedLineNamesNumber(t *testing.T) {
	path := writeTranscript(t, `{"tool_name":"ok"}
{not json}
`)
	_, err := ReadFile(path)
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestReadFileMissingToolName(t *testing.T) {
	path := writeTranscript(t, `{"tool_args":{"a":1}}
`)
	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected error for entry without tool_name")
	}
}

func TestReplayPreservesOrder(t *testing.T) {
	path := writeTranscript(t, `{"tool_name":"update_file"}
{"tool_name":"create_branch"}
{"tool_name":"create_pull_request"}
`)
	entries, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	doc := `
constraints:
  - id: workflow
    type: required_sequence
    sequence: [create_branch, update_file, create_pull_request]
    penalty: 35
scoring:
  base_score: 100
  threshold: 70
`
	rs, err := rules.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	s := session.New(rs)
	Replay(entries, s)
	r := s.Finalize()
	if r.Passed {
		t.Error("out-of-order transcript must fail the sequence rule")
	}
}
