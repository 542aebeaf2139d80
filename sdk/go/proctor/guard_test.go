package proctor

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestWrapRecordsCleanCall(t *testing.T) {
	c := newTestClient(t)
	inner := func(ctx context.Context, call Call) (any, error) {
		return "ok", nil
	}
	wrapped := c.Wrap(inner)

	result, err := wrapped(context.Background(), Call{
		Tool: "run_command",
		Args: map[string]any{"command": "echo hello"},
	})
	if err != nil {
		t.Fatalf("expected clean call to pass, got error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result \"ok\", got %v", result)
	}

	report := c.Finalize()
	if report.TotalViolations != 0 {
		t.Errorf("expected no violations, got %d", report.TotalViolations)
	}
}

func TestWrapEnforcedBlocksFlagged(t *testing.T) {
	c := newTestClient(t)
	called := false
	inner := func(ctx context.Context, call Call) (any, error) {
		called = true
		return nil, nil
	}
	wrapped := c.Wrap(inner, WrapEnforced())

	_, err := wrapped(context.Background(), Call{
		Tool: "run_command",
		Args: map[string]any{"command": "rm -rf /"},
	})

	ve := requireViolationError(t, err)
	if ve.Violations[0].ConstraintID != "no-destructive-rm" {
		t.Errorf("expected no-destructive-rm, got %s", ve.Violations[0].ConstraintID)
	}
	if called {
		t.Error("inner function should not be called on a blocked call")
	}
}

func TestWrapObserveOnlyNeverBlocks(t *testing.T) {
	c := newTestClient(t)
	inner := func(ctx context.Context, call Call) (any, error) {
		return "ran", nil
	}
	wrapped := c.Wrap(inner)

	result, err := wrapped(context.Background(), Call{
		Tool: "run_command",
		Args: map[string]any{"command": "rm -rf /"},
	})
	if err != nil {
		t.Fatalf("observe-only wrap should not block: %v", err)
	}
	if result != "ran" {
		t.Errorf("expected inner result, got %v", result)
	}

	report := c.Finalize()
	if report.TotalViolations != 1 {
		t.Errorf("expected the flagged call recorded, got %d violations", report.TotalViolations)
	}
}

func TestWrapClientEnforceApplies(t *testing.T) {
	c := newTestClient(t, WithEnforce())
	inner := func(ctx context.Context, call Call) (any, error) {
		t.Fatal("inner should not be called")
		return nil, nil
	}
	wrapped := c.Wrap(inner)

	_, err := wrapped(context.Background(), Call{
		Tool: "run_command",
		Args: map[string]any{"command": "rm -rf /"},
	})
	requireViolationError(t, err)
}

func TestWrapBlockedCallStillRecorded(t *testing.T) {
	c := newTestClient(t)
	wrapped := c.Wrap(func(ctx context.Context, call Call) (any, error) {
		return nil, nil
	}, WrapEnforced())

	wrapped(context.Background(), Call{
		Tool: "run_command",
		Args: map[string]any{"command": "rm -rf /"},
	})

	report := c.Finalize()
	if report.TotalViolations != 1 {
		t.Errorf("expected blocked call in the report, got %d violations", report.TotalViolations)
	}
	if report.FinalScore != 40 {
		t.Errorf("expected score 40, got %d", report.FinalScore)
	}
}

func TestWrapConcurrentSafe(t *testing.T) {
	c := newTestClient(t)
	wrapped := c.Wrap(func(ctx context.Context, call Call) (any, error) {
		return "ok", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			wrapped(context.Background(), Call{
				Tool: "run_command",
				Args: map[string]any{"command": fmt.Sprintf("echo test-%d", n)},
			})
		}(i)
	}
	wg.Wait()

	report := c.Finalize()
	if report.TotalViolations != 0 {
		t.Errorf("expected no violations, got %d", report.TotalViolations)
	}
}
