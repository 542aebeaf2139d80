package proctor

import "context"

// ToolFunc is the function signature that Wrap observes.
// The caller provides a Call describing the intended invocation.
type ToolFunc func(ctx context.Context, call Call) (any, error)

// Wrap returns a new ToolFunc that records every invocation into the
// session before calling fn. When enforcement is on (WithEnforce on the
// client or WrapEnforced on this wrap) and the call trips a pattern
// constraint, it returns a *ViolationError without calling fn.
func (c *Client) Wrap(fn ToolFunc, opts ...WrapOption) ToolFunc {
	wcfg := wrapConfig{enforce: c.cfg.enforce}
	for _, o := range opts {
		o(&wcfg)
	}

	return func(ctx context.Context, call Call) (any, error) {
		fresh := c.Observe(call)
		if wcfg.enforce && len(fresh) > 0 {
			return nil, &ViolationError{Call: call, Violations: fresh}
		}
		return fn(ctx, call)
	}
}
