// Package code adapts code-kind tools: each is a standalone executable
// entry point invoked as a short-lived subprocess. Arguments are written
// as JSON to stdin; the subprocess's stdout is the JSON result (spec.md
// §4.3, §4.2 "code loader").
package code

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"toolhub/discovery"
	"toolhub/spec"
)

// Adapter invokes code-kind tools.
type Adapter struct {
	// Interpreter, when set, is prepended to the entry path (e.g. "node"
	// for .js entries); empty means the entry path is itself executable.
	Interpreter string
}

// New builds a code Adapter.
func New(interpreter string) *Adapter {
	return &Adapter{Interpreter: interpreter}
}

// Kind implements adapter.Adapter.
func (a *Adapter) Kind() spec.Kind { return spec.KindCode }

// Invoke runs the tool's entry point as a subprocess, passing args on
// stdin and reading a single JSON result from stdout.
func (a *Adapter) Invoke(ctx context.Context, s *spec.ToolSpec, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
	binding, ok := s.Impl.(*discovery.CodeBinding)
	if !ok || binding == nil {
		return nil, spec.NewToolError(spec.ErrUpstreamError, fmt.Sprintf("code tool %q has no entry binding", s.Name))
	}

	var cmd *exec.Cmd
	if a.Interpreter != "" {
		cmdArgs := append([]string{binding.EntryPath}, binding.Args...)
		cmd = exec.CommandContext(ctx, a.Interpreter, cmdArgs...)
	} else {
		cmd = exec.CommandContext(ctx, binding.EntryPath, binding.Args...)
	}
	cmd.Stdin = bytes.NewReader(args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return spec.Failure(spec.NewToolError(spec.ErrUpstreamError, fmt.Sprintf("code tool %q exited with error: %v: %s", s.Name, err, stderr.String()))), nil
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		out = []byte(`{}`)
	}
	if !json.Valid(out) {
		wrapped, err := json.Marshal(map[string]string{"output": string(out)})
		if err != nil {
			return nil, err
		}
		out = wrapped
	}
	return spec.Success(out), nil
}
