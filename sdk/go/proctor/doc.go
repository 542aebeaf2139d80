// Package proctor provides in-process session evaluation for Go agent
// frameworks. It wraps tool functions, records every invocation into an
// evaluated session, checks each call against the loaded rule set, and
// produces a scored report when the session is finalized. With enforcement
// on, a call that trips a constraint is blocked before it executes.
//
// Usage:
//
//	p, err := proctor.New(proctor.WithRules("rules.yaml"))
//	wrapped := p.Wrap(myTool)
//	result, err := wrapped(ctx, proctor.Call{
//	    Tool: "run_command",
//	    Args: map[string]any{"command": "ls -la"},
//	})
//	report := p.Finalize()
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/ppiankov/proctor/sdk/go/proctor.
package proctor
