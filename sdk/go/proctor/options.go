package proctor

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	rulesPath string
	auditPath string
	sessionID string
	enforce   bool
}

// WithRules sets the path to a rule-set YAML file. Without it the
// built-in default rule set is used.
func WithRules(path string) Option {
	return func(c *clientConfig) { c.rulesPath = path }
}

// WithAuditLog records every observed call to a hash-chained JSONL log
// at the given path.
func WithAuditLog(path string) Option {
	return func(c *clientConfig) { c.auditPath = path }
}

// WithSessionID pins the session identifier instead of generating one.
func WithSessionID(id string) Option {
	return func(c *clientConfig) { c.sessionID = id }
}

// WithEnforce makes wrapped tool functions and the HTTP middleware block
// calls that trip a pattern constraint. Without it the client only
// observes and scores.
func WithEnforce() Option {
	return func(c *clientConfig) { c.enforce = true }
}

// WrapOption configures a single Wrap call.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	enforce bool
}

// WrapEnforced blocks flagged calls for this wrapper even when the
// client itself is observe-only.
func WrapEnforced() WrapOption {
	return func(w *wrapConfig) { w.enforce = true }
}
