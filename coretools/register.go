package coretools

import (
	"context"
	"encoding/json"

	"toolhub/adapter/core"
	"toolhub/spec"
)

// Register binds every bundled core tool onto a, the shared
// adapter/core.Adapter, under the names the registry's bundled specs (see
// Specs) declare.
func Register(a *core.Adapter, cfg *Config) {
	httpTools := NewHTTP(cfg)
	fsTools := NewFS(cfg)
	utilTools := NewUtil()

	a.Register(NameFetchText, func(ctx context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in fetchArgs
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		text, evidence, err := httpTools.FetchText(ctx, in.URL)
		return wrap(map[string]any{"text": text}, evidence, err)
	})

	a.Register(NameFetchJSON, func(ctx context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in fetchArgs
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		data, evidence, err := httpTools.FetchJSON(ctx, in.URL)
		if err != nil {
			return spec.Failure(spec.AsToolError(err)), nil
		}
		result := spec.Success(data)
		result.Evidence = evidence
		return result, nil
	})

	a.Register(NameHead, func(ctx context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in fetchArgs
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		status, headers, err := httpTools.Head(ctx, in.URL)
		return wrap(map[string]any{"status": status, "headers": headers}, nil, err)
	})

	a.Register(NameDownloadFile, func(ctx context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			URL       string `json:"url"`
			Dest      string `json:"dest"`
			Overwrite bool   `json:"overwrite"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		path, hash, err := httpTools.DownloadFile(ctx, in.URL, in.Dest, in.Overwrite)
		return wrap(map[string]any{"path": path, "sha256": hash}, nil, err)
	})

	a.Register(NameReadText, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		content, evidence, err := fsTools.ReadText(in.Path)
		return wrap(map[string]any{"content": content}, evidence, err)
	})

	a.Register(NameWriteText, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		evidence, err := fsTools.WriteText(in.Path, in.Content)
		return wrap(map[string]any{"ok": err == nil}, evidence, err)
	})

	a.Register(NameListDir, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		entries, evidence, err := fsTools.ListDir(in.Path)
		return wrap(map[string]any{"entries": entries}, evidence, err)
	})

	a.Register(NameSearchText, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Path   string `json:"path"`
			Substr string `json:"substr"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		matches, evidence, err := fsTools.SearchText(in.Path, in.Substr)
		return wrap(map[string]any{"matches": matches}, evidence, err)
	})

	a.Register(NameSHA256File, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		hash, err := fsTools.SHA256(in.Path)
		return wrap(map[string]any{"sha256": hash}, nil, err)
	})

	a.Register(NameDeletePath, func(_ context.Context, args json.RawMessage, ec *spec.ExecContext) (*spec.ToolResult, error) {
		if ec == nil || !ec.AllowDestructive {
			return spec.Failure(spec.NewToolError(spec.ErrPolicyDenied, "deletePath requires danger:destructive opt-in")), nil
		}
		var in struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		evidence, err := fsTools.DeletePath(in.Path)
		return wrap(map[string]any{"ok": err == nil}, evidence, err)
	})

	a.Register(NameJSONSelect, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Data       json.RawMessage `json:"data"`
			Expression string          `json:"expression"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		out, err := utilTools.JSONSelect(in.Data, in.Expression)
		if err != nil {
			return spec.Failure(spec.AsToolError(err)), nil
		}
		return spec.Success(out), nil
	})

	a.Register(NameTruncate, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Text   string `json:"text"`
			MaxLen int    `json:"maxLen"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		return wrap(map[string]any{"text": utilTools.Truncate(in.Text, in.MaxLen)}, nil, nil)
	})

	a.Register(NameHashText, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		return wrap(map[string]any{"sha256": utilTools.HashText(in.Text)}, nil, nil)
	})

	a.Register(NameTimeNow, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Zone   string `json:"zone"`
			Layout string `json:"layout"`
		}
		_ = json.Unmarshal(args, &in)
		formatted, err := utilTools.TimeNow(in.Zone, in.Layout)
		return wrap(map[string]any{"now": formatted}, nil, err)
	})

	a.Register(NameTemplateRender, func(_ context.Context, args json.RawMessage, _ *spec.ExecContext) (*spec.ToolResult, error) {
		var in struct {
			Template string         `json:"template"`
			Data     map[string]any `json:"data"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, badArgs(err)
		}
		rendered, err := utilTools.TemplateRender(in.Template, in.Data)
		return wrap(map[string]any{"text": rendered}, nil, err)
	})
}

func badArgs(err error) error {
	return spec.NewToolError(spec.ErrInputSchemaInvalid, err.Error())
}

// wrap builds a ToolResult from a handler's (value, evidence, error)
// triple, converting err into a failed result rather than propagating it
// — core handlers only return a Go error for failures the runtime itself
// must classify (see adapter.Adapter's contract).
func wrap(value map[string]any, evidence []spec.Evidence, err error) (*spec.ToolResult, error) {
	if err != nil {
		return spec.Failure(spec.AsToolError(err)), nil
	}
	data, marshalErr := json.Marshal(value)
	if marshalErr != nil {
		return nil, marshalErr
	}
	result := spec.Success(data)
	result.Evidence = evidence
	return result, nil
}
