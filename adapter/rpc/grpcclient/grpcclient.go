// Package grpcclient implements rpc.Client over a gRPC connection, for RPC
// tools whose upstream speaks gRPC rather than MCP's JSON-RPC/stdio
// transport (SPEC_FULL.md §4.12). It uses a JSON codec registered on the
// ClientConn so no protoc-generated stubs are required: requests and
// responses are the same shapes rpc.Client already works with, carried
// over gRPC's HTTP/2 transport instead of stdio framing.
package grpcclient

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"

	"toolhub/adapter/rpc"
)

const jsonCodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals gRPC messages as JSON instead of protobuf wire format.
// Any Go value is accepted; this mirrors grpc-go's documented pattern for
// plugging in a non-protobuf payload format.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error  { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                        { return jsonCodecName }

// listToolsRequest/Response and callToolRequest/Response are the JSON
// envelopes exchanged over the "/toolhub.rpc.v1.ToolService/ListTools" and
// ".../CallTool" methods.
type listToolsRequest struct{}

type listToolsResponse struct {
	Tools []rpc.ToolInfo `json:"tools"`
}

type callToolRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type callToolResponse struct {
	Content []rpc.ContentPart `json:"content"`
	IsError bool              `json:"isError"`
}

// Client implements rpc.Client over a gRPC ClientConn.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to target (host:port) using the JSON codec and returns a
// Client. Use grpc.WithTransportCredentials(insecure.NewCredentials()) by
// default; callers needing TLS should dial themselves and use New.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("grpcclient: dial %q: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

// New wraps an already-established ClientConn.
func New(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// ListTools calls the ToolService.ListTools RPC.
func (c *Client) ListTools(ctx context.Context) ([]rpc.ToolInfo, error) {
	var resp listToolsResponse
	if err := c.conn.Invoke(ctx, "/toolhub.rpc.v1.ToolService/ListTools", &listToolsRequest{}, &resp); err != nil {
		return nil, err
	}
	return resp.Tools, nil
}

// CallTool calls the ToolService.CallTool RPC.
func (c *Client) CallTool(ctx context.Context, name string, arguments json.RawMessage) (rpc.CallResult, error) {
	req := &callToolRequest{Name: name, Arguments: arguments}
	var resp callToolResponse
	if err := c.conn.Invoke(ctx, "/toolhub.rpc.v1.ToolService/CallTool", req, &resp); err != nil {
		return rpc.CallResult{}, err
	}
	return rpc.CallResult{Content: resp.Content, IsError: resp.IsError}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
