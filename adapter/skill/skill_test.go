package skill

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"toolhub/discovery"
	"toolhub/spec"
)

func TestInvokeInstructionOnlySkillReturnsInstructions(t *testing.T) {
	a := New("")
	def := &discovery.SkillDefinition{Instructions: "Do the thing carefully."}
	s := &spec.ToolSpec{Name: "ns/careful", Kind: spec.KindSkill, Impl: def}

	result, err := a.Invoke(context.Background(), s, json.RawMessage(`{}`), nil)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.JSONEq(t, `{"result":"Do the thing carefully."}`, string(result.Result))
	require.Len(t, result.Evidence, 1)
}

func TestInvokeHandlerSkillRunsSubprocess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handler.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\ncat\n"), 0o755))
	def := &discovery.SkillDefinition{Instructions: "unused", HandlerPath: path}
	a := New("")
	s := &spec.ToolSpec{Name: "ns/withhandler", Kind: spec.KindSkill, Impl: def}

	result, err := a.Invoke(context.Background(), s, json.RawMessage(`{"ok":true}`), nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(result.Result))
}
