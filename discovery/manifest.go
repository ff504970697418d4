package discovery

import "encoding/json"

// manifest mirrors the optional tool.json file documented in spec.md §6.
// All fields are optional; absence triggers the kind-inference and
// default-naming rules in loadDir and resolveKind.
type manifest struct {
	Kind         string          `json:"kind"`
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Tags         []string        `json:"tags"`
	Capabilities []string        `json:"capabilities"`
	CostHints    *costHints      `json:"costHints"`
	EntryPoint   string          `json:"entryPoint"`
	InputSchema  json.RawMessage `json:"inputSchema"`
	OutputSchema json.RawMessage `json:"outputSchema"`
	Enabled      *bool           `json:"enabled"`
	Programs     map[string]string `json:"programs"`
}

type costHints struct {
	LatencyP50Ms float64 `json:"latencyP50Ms"`
	LatencyP95Ms float64 `json:"latencyP95Ms"`
	IsAsync      bool    `json:"isAsync"`
}

// mcpManifest is the mcp.json contract for RPC tools: exactly one of
// {command, args?, env?} or {url}.
type mcpManifest struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
	URL     string            `json:"url"`
}

// workflowManifest is the workflow.json contract: any JSON object carrying
// a non-empty nodes array. The rest of the document is opaque to discovery
// and is handed to the workflow runner verbatim.
type workflowManifest struct {
	Nodes json.RawMessage `json:"nodes"`
	Raw   json.RawMessage `json:"-"`
}

func (m *workflowManifest) hasNodes() bool {
	if len(m.Nodes) == 0 {
		return false
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(m.Nodes, &arr); err != nil {
		return false
	}
	return len(arr) > 0
}

func (m *manifest) enabled() bool {
	return m.Enabled == nil || *m.Enabled
}
