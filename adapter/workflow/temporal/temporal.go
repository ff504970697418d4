// Package temporal implements workflow.Runner by starting (or attaching
// to) a Temporal workflow execution identified by the tool's resource id
// (SPEC_FULL.md §4.12).
package temporal

import (
	"context"
	"encoding/json"
	"fmt"

	"go.temporal.io/sdk/client"
)

// Runner dispatches workflow-kind invocations to a Temporal task queue.
// WorkflowType is the registered Temporal workflow function name that
// every workflow-kind tool shares; the caller's args, decoded as a JSON
// object, are the workflow's only input.
type Runner struct {
	Client       client.Client
	TaskQueue    string
	WorkflowType string
}

// New builds a Runner over an already-connected Temporal client.
func New(c client.Client, taskQueue, workflowType string) *Runner {
	return &Runner{Client: c, TaskQueue: taskQueue, WorkflowType: workflowType}
}

// Run starts a workflow execution whose workflow ID is id (the tool's
// resource id, used unchanged), then blocks for its result.
func (r *Runner) Run(ctx context.Context, id string, args json.RawMessage) (json.RawMessage, error) {
	opts := client.StartWorkflowOptions{
		ID:        id,
		TaskQueue: r.TaskQueue,
	}
	var input map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &input); err != nil {
			return nil, fmt.Errorf("temporal: decode args: %w", err)
		}
	}
	run, err := r.Client.ExecuteWorkflow(ctx, opts, r.WorkflowType, input)
	if err != nil {
		return nil, fmt.Errorf("temporal: start workflow %q: %w", id, err)
	}
	var result map[string]any
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("temporal: workflow %q: %w", id, err)
	}
	return json.Marshal(result)
}
