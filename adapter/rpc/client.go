// Package rpc adapts tools reached over an MCP-style RPC transport, per
// spec.md §4.3. The adapter itself is transport-agnostic: it holds a
// pluggable RpcClient and normalises whatever that client returns into a
// spec.ToolResult.
package rpc

import (
	"context"
	"encoding/json"
)

// ToolInfo describes one tool as advertised by an RPC server's listTools
// response.
type ToolInfo struct {
	Name         string
	Description  string
	InputSchema  json.RawMessage
	OutputSchema json.RawMessage
}

// ContentPart is one element of a CallResult's content array. Exactly one
// of Data or Text is populated; Data (structured content) is preferred by
// the adapter when present.
type ContentPart struct {
	Type string
	Text string
	Data json.RawMessage
}

// CallResult is the raw response to a callTool request, before the
// adapter's normalisation into a ToolResult.
type CallResult struct {
	Content []ContentPart
	IsError bool
}

// Client is implemented by transport-specific RPC clients (stdio, HTTP,
// gRPC — see adapter/rpc/grpcclient). The adapter owns no transport logic
// of its own.
type Client interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
	CallTool(ctx context.Context, name string, arguments json.RawMessage) (CallResult, error)
	Close() error
}
