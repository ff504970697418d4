// Package spec defines the canonical tool description and the value types
// that flow through the invocation pipeline: capabilities, intents, exec
// contexts, results, evidence, and events. Every other package in toolhub
// builds on these types; none of them depend back on registry, discovery,
// or runtime.
package spec

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Kind enumerates the four tool shapes plus the bundled core tools.
type Kind string

const (
	KindRPC      Kind = "rpc"
	KindCode     Kind = "code"
	KindWorkflow Kind = "workflow"
	KindSkill    Kind = "skill"
	KindCore     Kind = "core"
)

// Capability names a permission label attached to a ToolSpec and checked
// against a caller's granted set by the policy engine.
type Capability string

const (
	CapReadWeb           Capability = "read:web"
	CapReadFS            Capability = "read:fs"
	CapWriteFS           Capability = "write:fs"
	CapReadDB            Capability = "read:db"
	CapWriteDB           Capability = "write:db"
	CapNetwork           Capability = "network"
	CapGPU               Capability = "gpu"
	CapWorkflow          Capability = "workflow"
	CapDangerDestructive Capability = "danger:destructive"
)

// CostHints carries optional scheduling hints a caller can use to rank
// candidate tools before invoking one of them (see registry.Search).
type CostHints struct {
	LatencyP50 time.Duration
	LatencyP95 time.Duration
	IsAsync    bool
}

// ToolSpec is the canonical, immutable-after-registration description of a
// tool. Adapters consume the Impl/Endpoint/ResourceId fields opaquely —
// only the adapter matching Kind knows how to interpret them.
type ToolSpec struct {
	Name        string
	Version     string
	Kind        Kind
	Description string
	Tags        map[string]struct{}

	InputSchema  json.RawMessage
	OutputSchema json.RawMessage

	Capabilities map[Capability]struct{}
	CostHints    *CostHints

	// Endpoint is the remote URL for RPC tools.
	Endpoint string
	// ResourceID is the workflow identifier for workflow tools.
	ResourceID string
	// Impl is an in-process handle (code tools) or skill definition (skill
	// tools). It is opaque to the registry and consumed only by the
	// matching adapter.
	Impl any

	// compiledInput/compiledOutput are lazily built by CompileSchemas and cached
	// so repeated invocations don't recompile the same schema.
	compiledInput  *jsonschema.Schema
	compiledOutput *jsonschema.Schema
}

// TagList returns the spec's tags as a sorted slice.
func (s *ToolSpec) TagList() []string {
	out := make([]string, 0, len(s.Tags))
	for t := range s.Tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasCapability reports whether the spec declares cap.
func (s *ToolSpec) HasCapability(cap Capability) bool {
	_, ok := s.Capabilities[cap]
	return ok
}

// HasTag reports whether the spec carries tag.
func (s *ToolSpec) HasTag(tag string) bool {
	_, ok := s.Tags[tag]
	return ok
}

// NewTagSet builds a tag set from a slice, ignoring empty strings.
func NewTagSet(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

// NewCapabilitySet builds a capability set from a slice.
func NewCapabilitySet(caps []Capability) map[Capability]struct{} {
	out := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		out[c] = struct{}{}
	}
	return out
}

// ToolIntent is untrusted input the agent supplies when asking to invoke a
// tool.
type ToolIntent struct {
	Tool           string
	Args           json.RawMessage
	Purpose        string
	IdempotencyKey string
}

// Budget bounds a single invocation.
type Budget struct {
	TimeoutMs int
}

// ExecContext is trusted input supplied by the host process, never by the
// agent directly.
type ExecContext struct {
	RequestID   string
	TaskID      string
	Permissions map[Capability]struct{}
	Budget      *Budget
	TraceID     string
	UserID      string
	DryRun      bool

	// AllowDestructive must be explicitly set for danger:destructive tools
	// to run even when the capability itself is granted (spec.md §4.6).
	AllowDestructive bool
}

// HasPermission reports whether ctx grants cap.
func (c *ExecContext) HasPermission(cap Capability) bool {
	if c == nil {
		return false
	}
	_, ok := c.Permissions[cap]
	return ok
}
