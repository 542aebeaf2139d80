package proctor

import (
	"fmt"
	"sync"

	"github.com/ppiankov/proctor/internal/audit"
	"github.com/ppiankov/proctor/internal/model"
	"github.com/ppiankov/proctor/internal/rules"
	"github.com/ppiankov/proctor/internal/session"
)

// Client holds one evaluated session for in-process observation.
// Thread-safe for concurrent tool calls; events are ordered by
// whichever goroutine takes the lock first.
type Client struct {
	cfg       clientConfig
	rs        *rules.RuleSet
	rulesHash string
	sess      *session.Session
	auditLog  *audit.Log
	mu        sync.Mutex
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	rs, hash, err := rules.LoadWithHash(cfg.rulesPath)
	if err != nil {
		return nil, fmt.Errorf("proctor: failed to load rules: %w", err)
	}

	var auditLog *audit.Log
	if cfg.auditPath != "" {
		auditLog, err = audit.Open(cfg.auditPath)
		if err != nil {
			return nil, fmt.Errorf("proctor: failed to open audit log: %w", err)
		}
	}

	c := &Client{cfg: cfg, rs: rs, rulesHash: hash, auditLog: auditLog}
	c.sess = c.newSession(cfg.sessionID)
	return c, nil
}

func (c *Client) newSession(id string) *session.Session {
	if id != "" {
		return session.NewWithID(c.rs, id)
	}
	return session.New(c.rs)
}

// SessionID returns the identifier of the session in flight.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.ID()
}

// Observe records one call into the session and returns the violations
// it triggered. Recording never fails: audit write errors are dropped
// so a full disk cannot take the host agent down with it.
func (c *Client) Observe(call Call) []Violation {
	c.mu.Lock()
	raw := c.sess.Ingest(call.Tool, call.Args)
	seq := c.sess.Len() - 1
	entry := audit.BuildEntry(c.sess.ID(), c.rulesHash,
		model.ToolCall{Name: call.Tool, Args: call.Args, Seq: seq}, raw)
	c.mu.Unlock()

	if c.auditLog != nil {
		_ = c.auditLog.Record(entry)
	}
	return toViolations(raw)
}

// Finalize scores the session as it stands. It may be called repeatedly
// on a growing session; violations are never double-counted.
func (c *Client) Finalize() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return toReport(c.sess.Finalize())
}

// Reset discards the current session and starts a fresh one against the
// same rule set. Returns the new session id.
func (c *Client) Reset() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = c.newSession("")
	return c.sess.ID()
}

// Close flushes and closes the audit log, if one was configured.
func (c *Client) Close() error {
	if c.auditLog != nil {
		return c.auditLog.Close()
	}
	return nil
}
