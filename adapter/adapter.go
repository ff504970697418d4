// Package adapter defines the interface the runtime's invocation pipeline
// calls through, common to every tool kind (spec.md §4.3). Kind-specific
// implementations live in the rpc, code, skill, workflow, and core
// subpackages.
package adapter

import (
	"context"
	"encoding/json"

	"toolhub/spec"
)

// Adapter invokes a single tool and returns its result. Implementations
// never return a raw Go error from Invoke for a *handled* upstream failure
// — they wrap it in a *spec.ToolError so the runtime can tag the result
// without guessing; Invoke's error return is reserved for failures the
// runtime itself must classify (e.g. context cancellation).
type Adapter interface {
	// Kind reports which spec.Kind this adapter handles.
	Kind() spec.Kind
	// Invoke calls s with args and returns its outcome. s.Impl/s.Endpoint/
	// s.ResourceID carry whatever kind-specific binding discovery attached;
	// Invoke is the only code that interprets them.
	Invoke(ctx context.Context, s *spec.ToolSpec, args json.RawMessage, ec *spec.ExecContext) (*spec.ToolResult, error)
}

// ToolInfo is one entry in a ListTools response, used by adapters that can
// feed the pull-mode discovery service (currently only RPC).
type ToolInfo struct {
	Name         string
	Description  string
	InputSchema  json.RawMessage
	OutputSchema json.RawMessage
}

// Lister is implemented by adapters that can enumerate the tools available
// on their upstream without the filesystem scanner's involvement.
type Lister interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
}

// Registry dispatches Invoke calls to the adapter registered for a spec's
// Kind. It is the runtime's single point of contact with every adapter.
type Registry struct {
	byKind map[spec.Kind]Adapter
}

// NewRegistry builds an adapter Registry from adapters, keyed by their
// declared Kind. A later adapter for the same Kind overwrites an earlier
// one.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{byKind: make(map[spec.Kind]Adapter, len(adapters))}
	for _, a := range adapters {
		r.byKind[a.Kind()] = a
	}
	return r
}

// For returns the adapter registered for kind, if any.
func (r *Registry) For(kind spec.Kind) (Adapter, bool) {
	a, ok := r.byKind[kind]
	return a, ok
}
