package coretools

import (
	"testing"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

func TestWriteReadRoundtrip(t *testing.T) {
	cfg := &Config{SandboxRoot: t.TempDir()}
	fs := NewFS(cfg)

	_, err := fs.WriteText("notes/todo.txt", "buy milk")
	require.NoError(t, err)

	content, evidence, err := fs.ReadText("notes/todo.txt")
	require.NoError(t, err)
	require.Equal(t, "buy milk", content)
	require.Len(t, evidence, 1)
}

func TestReadTextRejectsOversizedFile(t *testing.T) {
	cfg := &Config{SandboxRoot: t.TempDir(), MaxReadBytes: 4}
	fs := NewFS(cfg)
	_, err := fs.WriteText("big.txt", "way too much content")
	require.NoError(t, err)

	_, _, err = fs.ReadText("big.txt")
	require.Error(t, err)
	require.Equal(t, spec.ErrFileTooLarge, spec.KindOf(err))
}

func TestListDirAndSearchText(t *testing.T) {
	cfg := &Config{SandboxRoot: t.TempDir()}
	fs := NewFS(cfg)
	_, err := fs.WriteText("a.txt", "needle here")
	require.NoError(t, err)
	_, err = fs.WriteText("sub/b.txt", "nothing")
	require.NoError(t, err)

	entries, _, err := fs.ListDir(".")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	matches, _, err := fs.SearchText(".", "needle")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 1, matches[0].Line)
}

func TestSHA256AndDeletePath(t *testing.T) {
	cfg := &Config{SandboxRoot: t.TempDir()}
	fs := NewFS(cfg)
	_, err := fs.WriteText("f.txt", "abc")
	require.NoError(t, err)

	hash, err := fs.SHA256("f.txt")
	require.NoError(t, err)
	require.Len(t, hash, 64)

	_, err = fs.DeletePath("f.txt")
	require.NoError(t, err)
	_, _, err = fs.ReadText("f.txt")
	require.Error(t, err)
}

func TestDeletePathOutsideSandboxRejected(t *testing.T) {
	cfg := &Config{SandboxRoot: t.TempDir()}
	fs := NewFS(cfg)
	_, err := fs.DeletePath("../escape")
	require.Error(t, err)
	require.Equal(t, spec.ErrPathOutsideSandbox, spec.KindOf(err))
}
