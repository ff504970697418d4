package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

type fakeClient struct {
	lastName string
	result   CallResult
	err      error
}

func (f *fakeClient) ListTools(ctx context.Context) ([]ToolInfo, error) {
	return []ToolInfo{{Name: "search"}}, nil
}

func (f *fakeClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (CallResult, error) {
	f.lastName = name
	return f.result, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestAdapterInvokeStripsNamespaceAndPrefersData(t *testing.T) {
	fc := &fakeClient{result: CallResult{Content: []ContentPart{
		{Type: "text", Text: "ignored when data present"},
		{Type: "data", Data: json.RawMessage(`{"hits":3}`)},
	}}}
	a := New("web", fc)
	s := &spec.ToolSpec{Name: "web/search", Kind: spec.KindRPC}

	result, err := a.Invoke(context.Background(), s, json.RawMessage(`{}`), nil)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.JSONEq(t, `{"hits":3}`, string(result.Result))
	require.Equal(t, "search", fc.lastName)
}

func TestAdapterInvokeJoinsTextAndParsesJSON(t *testing.T) {
	fc := &fakeClient{result: CallResult{Content: []ContentPart{
		{Type: "text", Text: `{"a":1}`},
	}}}
	a := New("web", fc)
	s := &spec.ToolSpec{Name: "web/search", Kind: spec.KindRPC}

	result, err := a.Invoke(context.Background(), s, json.RawMessage(`{}`), nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(result.Result))
}

func TestAdapterInvokeWrapsPlainText(t *testing.T) {
	fc := &fakeClient{result: CallResult{Content: []ContentPart{{Type: "text", Text: "plain output"}}}}
	a := New("web", fc)
	s := &spec.ToolSpec{Name: "web/search", Kind: spec.KindRPC}

	result, err := a.Invoke(context.Background(), s, json.RawMessage(`{}`), nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"output":"plain output"}`, string(result.Result))
}

func TestAdapterInvokeIsErrorBecomesUpstreamError(t *testing.T) {
	fc := &fakeClient{result: CallResult{IsError: true, Content: []ContentPart{{Type: "text", Text: "boom"}}}}
	a := New("web", fc)
	s := &spec.ToolSpec{Name: "web/search", Kind: spec.KindRPC}

	result, err := a.Invoke(context.Background(), s, json.RawMessage(`{}`), nil)
	require.NoError(t, err)
	require.False(t, result.OK)
	require.Equal(t, spec.ErrUpstreamError, result.Error.Kind)
}

func TestListToolsCachesUntilClientReplaced(t *testing.T) {
	fc := &fakeClient{}
	a := New("web", fc)

	first, err := a.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, "web/search", first[0].Name)

	// Still cached: calling ListTools again must not need the client at all.
	a.client = nil
	cached, err := a.ListTools(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, cached)

	// SetClient invalidates the cache; a nil client surfaces on next call.
	a.SetClient(nil)
	require.Panics(t, func() { _, _ = a.ListTools(context.Background()) })
}
