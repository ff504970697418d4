// Package skill adapts skill-kind tools. A skill with a handler program
// runs it exactly like a code tool's entry point; an instruction-only
// skill (no handler) returns its SKILL.md body verbatim (spec.md §4.3).
package skill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"toolhub/discovery"
	"toolhub/spec"
)

// Adapter invokes skill-kind tools.
type Adapter struct {
	Interpreter string
}

// New builds a skill Adapter.
func New(interpreter string) *Adapter {
	return &Adapter{Interpreter: interpreter}
}

// Kind implements adapter.Adapter.
func (a *Adapter) Kind() spec.Kind { return spec.KindSkill }

// Invoke runs the skill's handler if one is bound, otherwise returns its
// instructions.
func (a *Adapter) Invoke(ctx context.Context, s *spec.ToolSpec, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
	def, ok := s.Impl.(*discovery.SkillDefinition)
	if !ok || def == nil {
		return nil, spec.NewToolError(spec.ErrUpstreamError, fmt.Sprintf("skill %q has no definition", s.Name))
	}

	if def.HandlerPath == "" {
		payload, err := json.Marshal(map[string]string{"result": def.Instructions})
		if err != nil {
			return nil, err
		}
		result := spec.Success(payload)
		result.AddEvidence(spec.Evidence{Type: spec.EvidenceText, Summary: "instruction-only skill: " + s.Name})
		return result, nil
	}

	var cmd *exec.Cmd
	if a.Interpreter != "" {
		cmdArgs := append([]string{def.HandlerPath}, def.HandlerArgs...)
		cmd = exec.CommandContext(ctx, a.Interpreter, cmdArgs...)
	} else {
		cmd = exec.CommandContext(ctx, def.HandlerPath, def.HandlerArgs...)
	}
	cmd.Stdin = bytes.NewReader(args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return spec.Failure(spec.NewToolError(spec.ErrUpstreamError, fmt.Sprintf("skill %q handler failed: %v: %s", s.Name, err, stderr.String()))), nil
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
