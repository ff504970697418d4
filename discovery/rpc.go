package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"toolhub/spec"
)

// loadRPC parses mcp.json and builds a ToolSpec whose Impl carries the
// stdio/url connection descriptor consumed by adapter/rpc.
func loadRPC(dir string, m *manifest, name string) (*spec.ToolSpec, error) {
	data, err := os.ReadFile(filepath.Join(dir, "mcp.json"))
	if err != nil {
		return nil, fmt.Errorf("read mcp.json: %w", err)
	}
	var mm mcpManifest
	if err := json.Unmarshal(data, &mm); err != nil {
		return nil, fmt.Errorf("parse mcp.json: %w", err)
	}
	if mm.Command == "" && mm.URL == "" {
		return nil, fmt.Errorf("mcp.json: exactly one of command or url is required")
	}
	if mm.Command != "" && mm.URL != "" {
		return nil, fmt.Errorf("mcp.json: command and url are mutually exclusive")
	}

	s := &spec.ToolSpec{
		Name:         name,
		Version:      versionOrDefault(m.Version),
		Kind:         spec.KindRPC,
		Description:  m.Description,
		Tags:         spec.NewTagSet(m.Tags),
		Capabilities: capsFromManifest(m),
		CostHints:    costHintsFromManifest(m),
		InputSchema:  schemaOrDefault(m.InputSchema),
		OutputSchema: schemaOrDefault(m.OutputSchema),
		Endpoint:     mm.URL,
		Impl: &RPCConn{
			Command: mm.Command,
			Args:    mm.Args,
			Env:     mm.Env,
			URL:     mm.URL,
		},
	}
	return s, nil
}
