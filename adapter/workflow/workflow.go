// Package workflow adapts workflow-kind tools by delegating to an external
// runner addressed by the workflow's resource id (spec.md §4.3). The
// runner backend is pluggable; adapter/workflow/temporal provides one
// grounded on Temporal.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"toolhub/spec"
)

// Runner starts (or signals/awaits) a workflow run identified by id and
// returns its result.
type Runner interface {
	Run(ctx context.Context, id string, args json.RawMessage) (json.RawMessage, error)
}

// Adapter invokes workflow-kind tools via a pluggable Runner.
type Adapter struct {
	runner Runner
}

// New builds a workflow Adapter backed by runner.
func New(runner Runner) *Adapter {
	return &Adapter{runner: runner}
}

// Kind implements adapter.Adapter.
func (a *Adapter) Kind() spec.Kind { return spec.KindWorkflow }

// Invoke runs s.ResourceID through the configured Runner.
func (a *Adapter) Invoke(ctx context.Context, s *spec.ToolSpec, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
	if a.runner == nil {
		return nil, spec.NewToolError(spec.ErrUpstreamError, "workflow adapter: no runner configured")
	}
	out, err := a.runner.Run(ctx, s.ResourceID, args)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return spec.Failure(spec.NewToolError(spec.ErrUpstreamError, fmt.Sprintf("workflow %q failed: %v", s.Name, err))), nil
	}
	return spec.Success(out), nil
}
