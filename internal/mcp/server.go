// Package mcp exposes the proctor as an MCP stdio server. An agent host
// routes each tool invocation through proctor_observe; the proctor only
// watches and scores, it never executes anything.
package mcp

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/proctor/internal/audit"
	"github.com/ppiankov/proctor/internal/rules"
	"github.com/ppiankov/proctor/internal/session"
	"github.com/ppiankov/proctor/internal/store"
)

// Config holds MCP server configuration.
type Config struct {
	RulesPath    string
	AuditLogPath string
	StorePath    string
	SessionID    string // optional fixed id for the first session
}

// Server wraps the MCP SDK server around one proctored session at a
// time. proctor_reset starts a fresh session; a reloaded rule document
// applies from the next reset onward, never mid-session.
type Server struct {
	mcpServer *mcpsdk.Server

	mu        sync.Mutex
	rs        *rules.RuleSet
	rulesHash string
	sess      *session.Session
	auditLog  *audit.Log
	reports   *store.Store
	cfg       Config
}

// New creates an MCP server with a loaded rule document and a fresh
// session.
func New(cfg Config) (*Server, error) {
	rs, hash, err := rules.LoadWithHash(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	var auditLog *audit.Log
	if cfg.AuditLogPath != "" {
		auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open observation log: %w", err)
		}
	}

	var reports *store.Store
	if cfg.StorePath != "" {
		reports, err = store.New(cfg.StorePath)
		if err != nil {
			if auditLog != nil {
				auditLog.Close()
			}
			return nil, fmt.Errorf("failed to open report store: %w", err)
		}
	}

	s := &Server{
		rs:        rs,
		rulesHash: hash,
		auditLog:  auditLog,
		reports:   reports,
		cfg:       cfg,
	}
	s.sess = s.newSession(cfg.SessionID)

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "proctor",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the observation log and report store if configured.
func (s *Server) Close() error {
	var first error
	if s.auditLog != nil {
		if err := s.auditLog.Close(); err != nil {
			first = err
		}
	}
	if s.reports != nil {
		if err := s.reports.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReloadRules re-reads the rule document from disk. The swapped rule set
// takes effect for sessions created after the reload; the session in
// flight keeps the rules it started with so its report stays coherent.
func (s *Server) ReloadRules() error {
	rs, hash, err := rules.LoadWithHash(s.cfg.RulesPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rs = rs
	s.rulesHash = hash
	s.mu.Unlock()
	return nil
}

func (s *Server) newSession(id string) *session.Session {
	if id != "" {
		return session.NewWithID(s.rs, id)
	}
	return session.New(s.rs)
}

func (s *Server) recordObservation(entry audit.Entry) {
	if s.auditLog != nil {
		_ = s.auditLog.Record(entry)
	}
}

// registerTools adds all proctor tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "proctor_observe",
		Description: "Record one agent tool call for evaluation. Returns any violations the call triggered; the call itself is never executed by the proctor.",
	}, s.handleObserve)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "proctor_finalize",
		Description: "Evaluate sequence rules over the full session history and return the scored report. May be called repeatedly as the session grows.",
	}, s.handleFinalize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "proctor_reset",
		Description: "Discard the current session and start a new one under the latest loaded rules.",
	}, s.handleReset)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "proctor_status",
		Description: "Report the current session id, event count, and violations so far.",
	}, s.handleStatus)
}
