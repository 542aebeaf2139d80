package audit

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/proctor/internal/model"
)

func newTestLog(t *testing.T) (*Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "observations.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open observation log: %v", err)
	}
	return l, path
}

func testEntry(sessionID, tool string, seq int) Entry {
	return Entry{
		Timestamp: time.Now().UTC().Format(TimestampFormat),
		SessionID: sessionID,
		Call:      ObservedCall{Tool: tool, Args: "{}", Seq: seq},
		RulesHash: "sha256:abc123",
	}
}

func TestSequentialWritesProduceValidChain(t *testing.T) {
	l, path := newTestLog(t)

	for i := 0; i < 5; i++ {
		if err := l.Record(testEntry("s-1", "read_file", i)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", result.Lines)
	}
}

func TestVerifyDetectsTamperedEntry(t *testing.T) {
	l, path := newTestLog(t)

	for i := 0; i < 3; i++ {
		if err := l.Record(testEntry("s-1", "read_file", i)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	// Tamper: change the tool name in line 2
	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	lines[1] = strings.Replace(lines[1], `"read_file"`, `"write_file"`, 1)
	os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected tampered chain to be invalid")
	}
	if result.ErrorLine != 3 {
		t.Fatalf("expected error at line 3, got line %d", result.ErrorLine)
	}
}

func TestReopenContinuesChain(t *testing.T) {
	l, path := newTestLog(t)
	if err := l.Record(testEntry("s-1", "a", 0)); err != nil {
		t.Fatal(err)
	}
	l.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := l2.Record(testEntry("s-1", "b", 1)); err != nil {
		t.Fatal(err)
	}
	l2.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("chain broken across reopen: %s", result.Error)
	}
	if result.Lines != 2 {
		t.Fatalf("expected 2 lines, got %d", result.Lines)
	}
}

func TestConcurrentRecordsKeepChainValid(t *testing.T) {
	l, path := newTestLog(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			_ = l.Record(testEntry("s-1", "tool", seq))
		}(i)
	}
	wg.Wait()
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain under concurrent writes: %s", result.Error)
	}
	if result.Lines != 10 {
		t.Fatalf("expected 10 lines, got %d", result.Lines)
	}
}

func TestReplayFiltersBySession(t *testing.T) {
	l, path := newTestLog(t)
	l.Record(testEntry("s-1", "a", 0))
	l.Record(testEntry("s-2", "b", 0))
	flagged := testEntry("s-1", "create_issue", 1)
	flagged.Violations = []string{"no-secret-leak"}
	flagged.Penalty = 50
	l.Record(flagged)
	l.Close()

	result, err := Replay(path, ReplayFilter{SessionID: "s-1"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Summary.Total != 2 {
		t.Fatalf("expected 2 entries for s-1, got %d", result.Summary.Total)
	}
	if result.Summary.Flagged != 1 || result.Summary.CleanCount != 1 {
		t.Errorf("summary counts wrong: %+v", result.Summary)
	}
	if result.Summary.TotalPenalty != 50 {
		t.Errorf("expected penalty 50, got %d", result.Summary.TotalPenalty)
	}
}

func TestBuildEntryFlattensViolations(t *testing.T) {
	call := model.ToolCall{
		Name: "create_issue",
		Args: map[string]any{"body": "x"},
		Seq:  4,
	}
	vs := []model.Violation{
		{ConstraintID: "a", Penalty: 10},
		{ConstraintID: "b", Penalty: 5},
	}

	e := BuildEntry("s-9", "sha256:h", call, vs)
	if e.Call.Tool != "create_issue" || e.Call.Seq != 4 {
		t.Errorf("call fields wrong: %+v", e.Call)
	}
	if len(e.Violations) != 2 || e.Penalty != 15 {
		t.Errorf("violations not flattened: %+v", e)
	}
	if !strings.Contains(e.Call.Args, `"body":"x"`) {
		t.Errorf("args not canonicalized: %q", e.Call.Args)
	}
}

func TestFormatTimelineRenders(t *testing.T) {
	result := &ReplayResult{
		SessionID: "s-1",
		Entries: []Entry{
			{
				Timestamp:  "2026-08-29T10:00:00.000Z",
				SessionID:  "s-1",
				Call:       ObservedCall{Tool: "create_issue", Args: `{"body":"x"}`, Seq: 0},
				Violations: []string{"no-secret-leak"},
				Penalty:    50,
			},
		},
		Summary: ReplaySummary{
			Total:          1,
			Flagged:        1,
			TotalPenalty:   50,
			FirstTimestamp: "2026-08-29T10:00:00.000Z",
			LastTimestamp:  "2026-08-29T10:00:00.000Z",
		},
	}

	out := FormatTimeline(result)
	if !strings.Contains(out, "no-secret-leak") || !strings.Contains(out, "create_issue") {
		t.Errorf("timeline missing fields:\n%s", out)
	}
	if !strings.Contains(out, "accumulated penalty 50") {
		t.Errorf("timeline missing summary:\n%s", out)
	}
}
