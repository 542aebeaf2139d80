// Package transcript reads recorded agent sessions: JSONL files with one
// tool call per line, the handoff format between an interceptor that
// captured the calls and the evaluation engine.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/proctor/internal/session"
)

// Entry is one recorded tool call.
type Entry struct {
	ToolName string         `json:"tool_name"`
	ToolArgs map[string]any `json:"tool_args,omitempty"`
}

// ReadFile parses a JSONL transcript. Blank lines are skipped; a
// malformed line is an error naming its line number, since a transcript
// with holes would silently change sequence evaluation.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("transcript line %d: %w", lineNum, err)
		}
		if e.ToolName == "" {
			return nil, fmt.Errorf("transcript line %d: missing tool_name", lineNum)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return entries, nil
}

// Replay pushes entries into a sink in recorded order.
func Replay(entries []Entry, sink session.Sink) {
	for _, e := range entries {
		sink.Ingest(e.ToolName, e.ToolArgs)
	}
}
