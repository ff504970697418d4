// Package discovery scans configured filesystem roots for tool directories
// and converts each into a *spec.ToolSpec, per spec.md §4.2. Discovery never
// aborts a scan on a single directory's error: failures are reported to the
// caller's onError callback and the directory is skipped.
package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"toolhub/spec"
)

// Root is one configured scan root. CoreTools, when true, is the sentinel
// "merge bundled core tools" root and is handled by the caller (the coretools
// package registers its own specs directly); the scanner skips it.
type Root struct {
	Path      string
	Namespace string
	CoreTools bool
}

// Config controls a single Scan invocation.
type Config struct {
	Roots         []Root
	DefaultNS     string
	OnError       func(dir string, err error)
}

func (c Config) onError(dir string, err error) {
	if c.OnError != nil {
		c.OnError(dir, err)
	}
}

// Scan enumerates every root's immediate child directories and loads each
// into zero or more ToolSpecs. Missing roots and per-directory load errors
// are reported via cfg.OnError and otherwise ignored.
func Scan(cfg Config) []*spec.ToolSpec {
	var out []*spec.ToolSpec
	for _, root := range cfg.Roots {
		if root.CoreTools {
			continue
		}
		entries, err := os.ReadDir(root.Path)
		if err != nil {
			cfg.onError(root.Path, fmt.Errorf("read root %q: %w", root.Path, err))
			continue
		}
		ns := root.Namespace
		if ns == "" {
			ns = cfg.DefaultNS
		}
		if ns == "" {
			ns = "dir"
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root.Path, entry.Name())
			tools, err := loadDir(dir, entry.Name(), ns)
			if err != nil {
				cfg.onError(dir, err)
				continue
			}
			out = append(out, tools...)
		}
	}
	return out
}

// loadDir loads every ToolSpec contributed by a single tool directory.
func loadDir(dir, dirname, namespace string) ([]*spec.ToolSpec, error) {
	m, err := readManifest(dir)
	if err != nil {
		return nil, err
	}

	kind, err := resolveKind(dir, m)
	if err != nil {
		return nil, err
	}
	if !m.enabled() {
		return nil, nil
	}

	baseName := m.Name
	if baseName == "" {
		baseName = namespace + "/" + dirname
	}

	switch kind {
	case spec.KindRPC:
		lt, err := loadRPC(dir, m, baseName)
		if err != nil {
			return nil, err
		}
		return []*spec.ToolSpec{lt}, nil
	case spec.KindCode:
		lt, err := loadCode(dir, m, baseName)
		if err != nil {
			return nil, err
		}
		return []*spec.ToolSpec{lt}, nil
	case spec.KindWorkflow:
		lt, err := loadWorkflow(dir, m, baseName)
		if err != nil {
			return nil, err
		}
		return []*spec.ToolSpec{lt}, nil
	case spec.KindSkill:
		return loadSkill(dir, m, baseName)
	default:
		return nil, fmt.Errorf("discovery: unrecognized kind %q in %q", kind, dir)
	}
}

// readManifest reads tool.json if present. A missing file is not an error;
// the returned manifest's zero Kind signals the caller to infer one.
func readManifest(dir string) (*manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "tool.json"))
	if os.IsNotExist(err) {
		return &manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tool.json: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse tool.json: %w", err)
	}
	return &m, nil
}

// resolveKind returns the manifest's declared kind, or infers one from the
// conventional marker files when the manifest is silent.
func resolveKind(dir string, m *manifest) (spec.Kind, error) {
	if m.Kind != "" {
		k := spec.Kind(m.Kind)
		switch k {
		case spec.KindRPC, spec.KindCode, spec.KindWorkflow, spec.KindSkill:
			return k, nil
		default:
			return "", fmt.Errorf("discovery: %q declares unrecognized kind %q", dir, m.Kind)
		}
	}
	if exists(filepath.Join(dir, "mcp.json")) {
		return spec.KindRPC, nil
	}
	if exists(filepath.Join(dir, "workflow.json")) {
		return spec.KindWorkflow, nil
	}
	if exists(filepath.Join(dir, "SKILL.md")) {
		return spec.KindSkill, nil
	}
	if entry := findJSEntry(dir); entry != "" {
		return spec.KindCode, nil
	}
	return "", fmt.Errorf("discovery: %q has no tool.json and no recognizable entry file", dir)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// findJSEntry looks for the conventional code entry file, index.js then
// index.mjs, and returns "" when neither exists. A manifest entryPoint is
// not consulted here; loadCode checks it before falling back to this.
func findJSEntry(dir string) string {
	for _, candidate := range []string{"index.js", "index.mjs"} {
		p := filepath.Join(dir, candidate)
		if exists(p) {
			return p
		}
	}
	return ""
}

func defaultSchema() json.RawMessage {
	return json.RawMessage(`{"type":"object"}`)
}

func schemaOrDefault(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return defaultSchema()
	}
	return raw
}

func capsFromManifest(m *manifest) map[spec.Capability]struct{} {
	caps := make([]spec.Capability, 0, len(m.Capabilities))
	for _, c := range m.Capabilities {
		caps = append(caps, spec.Capability(c))
	}
	return spec.NewCapabilitySet(caps)
}

func costHintsFromManifest(m *manifest) *spec.CostHints {
	if m.CostHints == nil {
		return nil
	}
	return &spec.CostHints{
		LatencyP50: durationMs(m.CostHints.LatencyP50Ms),
		LatencyP95: durationMs(m.CostHints.LatencyP95Ms),
		IsAsync:    m.CostHints.IsAsync,
	}
}

func versionOrDefault(v string) string {
	if strings.TrimSpace(v) == "" {
		return "1.0.0"
	}
	return v
}
