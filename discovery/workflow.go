package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"toolhub/spec"
)

// loadWorkflow parses workflow.json and requires a non-empty nodes array.
func loadWorkflow(dir string, m *manifest, name string) (*spec.ToolSpec, error) {
	data, err := os.ReadFile(filepath.Join(dir, "workflow.json"))
	if err != nil {
		return nil, fmt.Errorf("read workflow.json: %w", err)
	}
	var wf workflowManifest
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow.json: %w", err)
	}
	if !wf.hasNodes() {
		return nil, fmt.Errorf("workflow.json: nodes must be a non-empty array")
	}

	s := &spec.ToolSpec{
		Name:         name,
		Version:      versionOrDefault(m.Version),
		Kind:         spec.KindWorkflow,
		Description:  m.Description,
		Tags:         spec.NewTagSet(m.Tags),
		Capabilities: capsFromManifest(m),
		CostHints:    costHintsFromManifest(m),
		InputSchema:  schemaOrDefault(m.InputSchema),
		OutputSchema: schemaOrDefault(m.OutputSchema),
		ResourceID:   name,
		Impl:         &WorkflowDefinition{Raw: data},
	}
	return s, nil
}
