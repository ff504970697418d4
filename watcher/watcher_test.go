package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"toolhub/registry"
	"toolhub/spec"
)

func newSpec(name string) *spec.ToolSpec {
	return &spec.ToolSpec{
		Name:         name,
		Version:      "1.0.0",
		Kind:         spec.KindCode,
		Description:  "watcher test tool",
		InputSchema:  []byte(`{"type":"object"}`),
		OutputSchema: []byte(`{"type":"object"}`),
		Capabilities: spec.NewCapabilitySet(nil),
	}
}

func TestWatcherTriggersRefreshOnFileChange(t *testing.T) {
	dir := t.TempDir()
	reg := registry.New()

	var scanCount int32
	scan := func(onError func(dir string, err error)) []*spec.ToolSpec {
		atomic.AddInt32(&scanCount, 1)
		return []*spec.ToolSpec{newSpec("ns/a")}
	}

	w, err := New(reg, scan, nil, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddRoot(dir))
	w.Start()
	t.Cleanup(w.Stop)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		return reg.Has("ns/a")
	}, time.Second, 10*time.Millisecond)
	require.GreaterOrEqual(t, atomic.LoadInt32(&scanCount), int32(1))
}

func TestWatcherDebouncesRapidChanges(t *testing.T) {
	dir := t.TempDir()
	reg := registry.New()

	var scanCount int32
	scan := func(onError func(dir string, err error)) []*spec.ToolSpec {
		atomic.AddInt32(&scanCount, 1)
		return []*spec.ToolSpec{newSpec("ns/a")}
	}

	w, err := New(reg, scan, nil, 100*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddRoot(dir))
	w.Start()
	t.Cleanup(w.Stop)

	path := filepath.Join(dir, "new.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return reg.Has("ns/a")
	}, 2*time.Second, 10*time.Millisecond)
	require.LessOrEqual(t, atomic.LoadInt32(&scanCount), int32(2))
}
