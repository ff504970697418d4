package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"toolhub/spec"
)

// loadCode resolves the tool's entry point (manifest-specified or the
// conventional index.js/index.mjs) and builds a ToolSpec whose Impl carries
// the CodeBinding consumed by adapter/code.
func loadCode(dir string, m *manifest, name string) (*spec.ToolSpec, error) {
	entry := m.EntryPoint
	if entry == "" {
		entry = findJSEntry(dir)
	} else if !filepath.IsAbs(entry) {
		entry = filepath.Join(dir, entry)
	}
	if entry == "" {
		return nil, fmt.Errorf("discovery: %q has no resolvable entry point", dir)
	}
	if _, err := os.Stat(entry); err != nil {
		return nil, fmt.Errorf("discovery: entry point %q: %w", entry, err)
	}

	s := &spec.ToolSpec{
		Name:         name,
		Version:      versionOrDefault(m.Version),
		Kind:         spec.KindCode,
		Description:  m.Description,
		Tags:         spec.NewTagSet(m.Tags),
		Capabilities: capsFromManifest(m),
		CostHints:    costHintsFromManifest(m),
		InputSchema:  schemaOrDefault(m.InputSchema),
		OutputSchema: schemaOrDefault(m.OutputSchema),
		Impl:         &CodeBinding{EntryPath: entry},
	}
	return s, nil
}
