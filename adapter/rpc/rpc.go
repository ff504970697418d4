package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"toolhub/adapter"
	"toolhub/spec"
)

const listToolsCacheTTL = 30 * time.Second

// Adapter invokes RPC-kind tools through a pluggable Client. Tool names are
// exported with the adapter's namespace prefix and stripped back off before
// the wire call (spec.md §4.3).
type Adapter struct {
	namespace string
	client    Client

	mu        sync.Mutex
	cached    []adapter.ToolInfo
	cachedAt  time.Time
}

// New builds an Adapter exporting client's tools under namespace.
func New(namespace string, client Client) *Adapter {
	return &Adapter{namespace: namespace, client: client}
}

// Kind implements adapter.Adapter.
func (a *Adapter) Kind() spec.Kind { return spec.KindRPC }

// SetClient replaces the client, invalidating the listTools cache.
func (a *Adapter) SetClient(client Client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.client = client
	a.cached = nil
	a.cachedAt = time.Time{}
}

// ListTools implements adapter.Lister, caching results for 30s.
func (a *Adapter) ListTools(ctx context.Context) ([]adapter.ToolInfo, error) {
	a.mu.Lock()
	if a.cached != nil && time.Since(a.cachedAt) < listToolsCacheTTL {
		cached := a.cached
		a.mu.Unlock()
		return cached, nil
	}
	client := a.client
	a.mu.Unlock()

	tools, err := client.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]adapter.ToolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, adapter.ToolInfo{
			Name:         a.namespace + "/" + t.Name,
			Description:  t.Description,
			InputSchema:  t.InputSchema,
			OutputSchema: t.OutputSchema,
		})
	}
	a.mu.Lock()
	a.cached = out
	a.cachedAt = time.Now()
	a.mu.Unlock()
	return out, nil
}

// Invoke strips the adapter's namespace prefix from s.Name, calls through
// to the client, and normalises the response.
func (a *Adapter) Invoke(ctx context.Context, s *spec.ToolSpec, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
	a.mu.Lock()
	client := a.client
	a.mu.Unlock()

	wireName := strings.TrimPrefix(s.Name, a.namespace+"/")
	res, err := client.CallTool(ctx, wireName, args)
	if err != nil {
		return nil, err
	}
	if res.IsError {
		return spec.Failure(spec.NewToolError(spec.ErrUpstreamError, joinText(res.Content))), nil
	}

	payload, err := normalizeContent(res.Content)
	if err != nil {
		return nil, err
	}
	result := spec.Success(payload)
	result.Raw = payload
	return result, nil
}

// normalizeContent prefers a structured data part over text; multiple text
// parts are joined by newline; text that parses as JSON is returned as-is,
// otherwise wrapped as {"output": text}.
func normalizeContent(parts []ContentPart) (json.RawMessage, error) {
	for _, p := range parts {
		if len(p.Data) > 0 {
			return p.Data, nil
		}
	}
	var texts []string
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	joined := strings.Join(texts, "\n")
	if joined == "" {
		return json.RawMessage(`{}`), nil
	}
	if json.Valid([]byte(joined)) {
		return json.RawMessage(joined), nil
	}
	wrapped, err := json.Marshal(map[string]string{"output": joined})
	if err != nil {
		return nil, err
	}
	return wrapped, nil
}

func joinText(parts []ContentPart) string {
	var texts []string
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	if len(texts) == 0 {
		return "upstream tool returned an error"
	}
	return strings.Join(texts, "\n")
}
