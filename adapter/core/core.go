// Package core adapts the bundled core tools (fs/http/util — see
// coretools), dispatching by spec.Name to a registered Handler (spec.md
// §4.3, §4.5).
package core

import (
	"context"
	"encoding/json"
	"sync"

	"toolhub/spec"
)

// Handler implements one core tool's behaviour.
type Handler func(ctx context.Context, args json.RawMessage, ec *spec.ExecContext) (*spec.ToolResult, error)

// Adapter dispatches core-kind invocations to registered Handlers by name.
type Adapter struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// New builds an empty core Adapter.
func New() *Adapter {
	return &Adapter{handlers: make(map[string]Handler)}
}

// Register binds name to handler. Re-registering a name replaces it.
func (a *Adapter) Register(name string, handler Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[name] = handler
}

// Kind implements adapter.Adapter.
func (a *Adapter) Kind() spec.Kind { return spec.KindCore }

// Invoke dispatches to the handler registered for s.Name.
func (a *Adapter) Invoke(ctx context.Context, s *spec.ToolSpec, args json.RawMessage, ec *spec.ExecContext) (*spec.ToolResult, error) {
	a.mu.RLock()
	h, ok := a.handlers[s.Name]
	a.mu.RUnlock()
	if !ok {
		return nil, spec.NewToolError(spec.ErrToolNotFound, "no core handler registered for "+s.Name)
	}
	return h(ctx, args, ec)
}
