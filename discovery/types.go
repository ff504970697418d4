package discovery

import "encoding/json"

// RPCConn describes how to reach an RPC tool's server: exactly one of
// Command (stdio, spawned per listTools/callTool session) or URL is set.
type RPCConn struct {
	Command string
	Args    []string
	Env     map[string]string
	URL     string
}

// CodeBinding locates the executable entry point backing a code tool. The
// adapter invokes it as a short-lived subprocess, writing the call's JSON
// arguments to stdin and reading a single JSON result from stdout.
type CodeBinding struct {
	EntryPath string
	Args      []string
}

// SkillFile is one bundled file discovered alongside SKILL.md, classified
// by extension.
type SkillFile struct {
	Path string
	Kind SkillFileKind
}

// SkillFileKind classifies a bundled skill file.
type SkillFileKind string

const (
	SkillFileInstructions SkillFileKind = "instructions"
	SkillFileCode         SkillFileKind = "code"
	SkillFileData         SkillFileKind = "data"
)

// SkillDefinition is the parsed SKILL.md plus its bundled files. A skill
// with no HandlerPath is instruction-only: invoking it returns Instructions
// verbatim.
type SkillDefinition struct {
	Instructions string
	ProgramKey   string
	HandlerPath  string
	HandlerArgs  []string
	Files        []SkillFile
}

// WorkflowDefinition is the parsed workflow.json, handed to the workflow
// runner verbatim.
type WorkflowDefinition struct {
	Raw json.RawMessage
}
