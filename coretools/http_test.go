package coretools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

func testConfig(t *testing.T, allowedHost string) *Config {
	t.Helper()
	return &Config{
		SandboxRoot:   t.TempDir(),
		AllowedHosts:  []string{allowedHost},
		MaxHTTPBytes:  1024,
		BlockedCIDRs:  []string{"0.0.0.0/32"}, // neutralize default loopback block for httptest
	}
}

func TestFetchTextSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	cfg := testConfig(t, u.Hostname())
	h := NewHTTP(cfg)

	text, evidence, err := h.FetchText(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
	require.Len(t, evidence, 1)
}

func TestFetchTextRejectsOversizedContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(10_000))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Repeat("x", 10_000)))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	cfg := testConfig(t, u.Hostname())
	h := NewHTTP(cfg)

	_, _, err := h.FetchText(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, spec.ErrHTTPTooLarge, spec.KindOf(err))
}

func TestFetchTextRejectsOversizedStreamingBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No Content-Length header set (chunked), so the cap must be
		// enforced while streaming.
		flusher, _ := w.(http.Flusher)
		for i := 0; i < 20; i++ {
			w.Write([]byte(strings.Repeat("y", 100)))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	cfg := testConfig(t, u.Hostname())
	h := NewHTTP(cfg)

	_, _, err := h.FetchText(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, spec.ErrHTTPTooLarge, spec.KindOf(err))
}

func TestDownloadFileRefusesOverwriteByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	cfg := testConfig(t, u.Hostname())
	cfg.MaxDownloadBytes = 1024
	h := NewHTTP(cfg)

	_, _, err := h.DownloadFile(context.Background(), srv.URL, "out.bin", false)
	require.NoError(t, err)

	_, _, err = h.DownloadFile(context.Background(), srv.URL, "out.bin", false)
	require.Error(t, err)

	path, hash, err := h.DownloadFile(context.Background(), srv.URL, "out.bin", true)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	require.Len(t, hash, 64)
}
