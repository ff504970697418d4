package coretools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"toolhub/spec"
)

// HTTP implements the fetchText/fetchJson/head/downloadFile core tools.
type HTTP struct {
	cfg    *Config
	client *http.Client
}

// NewHTTP builds an HTTP tool set bound to cfg.
func NewHTTP(cfg *Config) *HTTP {
	return &HTTP{cfg: cfg, client: &http.Client{Timeout: cfg.timeout()}}
}

type fetchArgs struct {
	URL string `json:"url"`
}

// FetchText fetches url and returns its body as text, enforcing the
// configured size cap.
func (h *HTTP) FetchText(ctx context.Context, url string) (string, []spec.Evidence, error) {
	body, _, err := h.get(ctx, url)
	if err != nil {
		return "", nil, err
	}
	return string(body), []spec.Evidence{{Type: spec.EvidenceURL, Ref: url}}, nil
}

// FetchJSON fetches url and decodes its body as JSON.
func (h *HTTP) FetchJSON(ctx context.Context, url string) (json.RawMessage, []spec.Evidence, error) {
	body, _, err := h.get(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if !json.Valid(body) {
		return nil, nil, spec.NewToolError(spec.ErrUpstreamError, "response body is not valid JSON: "+url)
	}
	return json.RawMessage(body), []spec.Evidence{{Type: spec.EvidenceURL, Ref: url}}, nil
}

// Head issues a HEAD request and returns the response status and headers.
func (h *HTTP) Head(ctx context.Context, rawURL string) (int, map[string]string, error) {
	u, err := validateURL(ctx, rawURL, h.cfg)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return 0, nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	req.Header.Set("User-Agent", h.cfg.userAgent())
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, mapHTTPErr(ctx, err)
	}
	defer resp.Body.Close()
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return resp.StatusCode, headers, nil
}

// DownloadFile streams url's body to dest (sandbox-resolved), hashing it
// with SHA-256 as it writes. It refuses to overwrite an existing file
// unless overwrite is true.
func (h *HTTP) DownloadFile(ctx context.Context, rawURL, dest string, overwrite bool) (string, string, error) {
	resolved, err := ResolveSandboxedPath(dest, h.cfg.SandboxRoot)
	if err != nil {
		return "", "", err
	}
	if !overwrite {
		if _, statErr := os.Stat(resolved); statErr == nil {
			return "", "", spec.NewToolError(spec.ErrUpstreamError, "destination exists and overwrite is false: "+dest)
		}
	}

	u, err := validateURL(ctx, rawURL, h.cfg)
	if err != nil {
		return "", "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", "", spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	req.Header.Set("User-Agent", h.cfg.userAgent())
	resp, err := h.client.Do(req)
	if err != nil {
		return "", "", mapHTTPErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.ContentLength > 0 && resp.ContentLength > h.cfg.maxDownloadBytes() {
		return "", "", spec.NewToolError(spec.ErrHTTPTooLarge, fmt.Sprintf("content-length %d exceeds cap %d", resp.ContentLength, h.cfg.maxDownloadBytes()))
	}

	out, err := os.Create(resolved)
	if err != nil {
		return "", "", spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	defer out.Close()

	hasher := sha256.New()
	limited := io.LimitReader(resp.Body, h.cfg.maxDownloadBytes()+1)
	n, err := io.Copy(io.MultiWriter(out, hasher), limited)
	if err != nil {
		return "", "", mapHTTPErr(ctx, err)
	}
	if n > h.cfg.maxDownloadBytes() {
		_ = os.Remove(resolved)
		return "", "", spec.NewToolError(spec.ErrHTTPTooLarge, "response body exceeded download size cap")
	}
	return resolved, hex.EncodeToString(hasher.Sum(nil)), nil
}

// get performs the shared fetchText/fetchJson GET-and-size-cap flow.
func (h *HTTP) get(ctx context.Context, rawURL string) ([]byte, *http.Response, error) {
	u, err := validateURL(ctx, rawURL, h.cfg)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	req.Header.Set("User-Agent", h.cfg.userAgent())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, nil, mapHTTPErr(ctx, err)
	}
	defer resp.Body.Close()

	maxBytes := h.cfg.maxHTTPBytes()
	if resp.ContentLength > 0 && resp.ContentLength > maxBytes {
		return nil, nil, spec.NewToolError(spec.ErrHTTPTooLarge, fmt.Sprintf("content-length %d exceeds cap %d", resp.ContentLength, maxBytes))
	}

	limited := io.LimitReader(resp.Body, maxBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, nil, mapHTTPErr(ctx, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, nil, spec.NewToolError(spec.ErrHTTPTooLarge, "response body exceeded size cap")
	}
	return body, resp, nil
}

func mapHTTPErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return spec.NewToolError(spec.ErrHTTPTimeout, ctx.Err().Error())
	}
	return spec.NewToolError(spec.ErrUpstreamError, err.Error())
}
