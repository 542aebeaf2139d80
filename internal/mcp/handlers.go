package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/proctor/internal/audit"
	"github.com/ppiankov/proctor/internal/model"
)

// --- Input/Output types ---

// ObserveInput defines parameters for the proctor_observe tool.
type ObserveInput struct {
	ToolName string         `json:"tool_name" jsonschema:"name of the tool the agent invoked"`
	ToolArgs map[string]any `json:"tool_args,omitempty" jsonschema:"arguments the agent passed"`
}

// ViolationItem is one violation in tool output.
type ViolationItem struct {
	ConstraintID string `json:"constraint_id"`
	Kind         string `json:"kind"`
	Message      string `json:"message"`
	Penalty      int    `json:"penalty"`
}

// ObserveOutput reports the violations one recorded call triggered.
type ObserveOutput struct {
	SessionID  string          `json:"session_id"`
	Seq        int             `json:"seq"`
	Flagged    bool            `json:"flagged"`
	Violations []ViolationItem `json:"violations,omitempty"`
}

// FinalizeInput is empty — finalization needs no parameters.
type FinalizeInput struct{}

// FinalizeOutput is the scored report for the session so far.
type FinalizeOutput struct {
	SessionID       string          `json:"session_id"`
	TotalViolations int             `json:"total_violations"`
	TotalPenalty    int             `json:"total_penalty"`
	FinalScore      int             `json:"final_score"`
	Passed          bool            `json:"passed"`
	Violations      []ViolationItem `json:"violations,omitempty"`
	Diagnostics     []string        `json:"diagnostics,omitempty"`
}

// ResetInput is empty — no parameters needed.
type ResetInput struct{}

// ResetOutput confirms the new session.
type ResetOutput struct {
	SessionID string `json:"session_id"`
	RulesHash string `json:"rules_hash"`
}

// StatusInput is empty — no parameters needed.
type StatusInput struct{}

// StatusOutput describes the session in flight.
type StatusOutput struct {
	SessionID  string `json:"session_id"`
	Events     int    `json:"events"`
	Violations int    `json:"violations_so_far"`
	RulesHash  string `json:"rules_hash"`
}

// --- Handlers ---

func (s *Server) handleObserve(ctx context.Context, req *mcpsdk.CallToolRequest, input ObserveInput) (*mcpsdk.CallToolResult, ObserveOutput, error) {
	s.mu.Lock()
	fresh := s.sess.Ingest(input.ToolName, input.ToolArgs)
	seq := s.sess.Len() - 1
	call := model.ToolCall{Name: input.ToolName, Args: input.ToolArgs, Seq: seq}
	entry := audit.BuildEntry(s.sess.ID(), s.rulesHash, call, fresh)
	sessionID := s.sess.ID()
	s.mu.Unlock()

	s.recordObservation(entry)

	out := ObserveOutput{
		SessionID:  sessionID,
		Seq:        seq,
		Flagged:    len(fresh) > 0,
		Violations: toItems(fresh),
	}
	return nil, out, nil
}

func (s *Server) handleFinalize(ctx context.Context, req *mcpsdk.CallToolRequest, input FinalizeInput) (*mcpsdk.CallToolResult, FinalizeOutput, error) {
	s.mu.Lock()
	report := s.sess.Finalize()
	sessionID := s.sess.ID()
	rulesHash := s.rulesHash
	s.mu.Unlock()

	if s.reports != nil {
		_ = s.reports.Save(sessionID, rulesHash, report)
	}

	out := FinalizeOutput{
		SessionID:       sessionID,
		TotalViolations: report.TotalViolations,
		TotalPenalty:    report.TotalPenalty,
		FinalScore:      report.FinalScore,
		Passed:          report.Passed,
		Violations:      toItems(report.Violations),
		Diagnostics:     report.Diagnostics,
	}
	result := &mcpsdk.CallToolResult{}
	if !report.Passed {
		result.IsError = true
	}
	return result, out, nil
}

func (s *Server) handleReset(ctx context.Context, req *mcpsdk.CallToolRequest, input ResetInput) (*mcpsdk.CallToolResult, ResetOutput, error) {
	s.mu.Lock()
	s.sess = s.newSession("")
	out := ResetOutput{SessionID: s.sess.ID(), RulesHash: s.rulesHash}
	s.mu.Unlock()

	return nil, out, nil
}

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	report := s.sess.Finalize()
	out := StatusOutput{
		SessionID:  s.sess.ID(),
		Events:     s.sess.Len(),
		Violations: report.TotalViolations,
		RulesHash:  s.rulesHash,
	}
	s.mu.Unlock()

	return nil, out, nil
}

func toItems(vs []model.Violation) []ViolationItem {
	if len(vs) == 0 {
		return nil
	}
	items := make([]ViolationItem, len(vs))
	for i, v := range vs {
		items[i] = ViolationItem{
			ConstraintID: v.ConstraintID,
			Kind:         string(v.Kind),
			Message:      v.Message,
			Penalty:      v.Penalty,
		}
	}
	return items
}
