package coretools

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"toolhub/spec"
)

// FS implements the readText/writeText/listDir/searchText/sha256/
// deletePath core tools, each resolving its path argument through the
// sandbox before touching the filesystem.
type FS struct {
	cfg *Config
}

// NewFS builds an FS tool set bound to cfg.
func NewFS(cfg *Config) *FS {
	return &FS{cfg: cfg}
}

// ReadText reads path (sandbox-resolved), rejecting files over the
// configured size cap.
func (f *FS) ReadText(path string) (string, []spec.Evidence, error) {
	resolved, err := ResolveSandboxedPath(path, f.cfg.SandboxRoot)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	if info.Size() > f.cfg.maxReadBytes() {
		return "", nil, spec.NewToolError(spec.ErrFileTooLarge, fmt.Sprintf("%s is %d bytes, exceeds cap %d", path, info.Size(), f.cfg.maxReadBytes()))
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	return string(data), []spec.Evidence{{Type: spec.EvidenceFile, Ref: resolved}}, nil
}

// WriteText writes content to path (sandbox-resolved), creating parent
// directories as needed.
func (f *FS) WriteText(path, content string) ([]spec.Evidence, error) {
	resolved, err := ResolveSandboxedPath(path, f.cfg.SandboxRoot)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	return []spec.Evidence{{Type: spec.EvidenceFile, Ref: resolved, Summary: fmt.Sprintf("wrote %d bytes", len(content))}}, nil
}

// DirEntry describes one entry returned by ListDir.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// ListDir lists the immediate contents of path (sandbox-resolved).
func (f *FS) ListDir(path string) ([]DirEntry, []spec.Evidence, error) {
	resolved, err := ResolveSandboxedPath(path, f.cfg.SandboxRoot)
	if err != nil {
		return nil, nil, err
	}
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		var size int64
		if err == nil {
			size = info.Size()
		}
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir(), Size: size})
	}
	return out, []spec.Evidence{{Type: spec.EvidenceFile, Ref: resolved}}, nil
}

// SearchMatch is one line matched by SearchText.
type SearchMatch struct {
	Path string
	Line int
	Text string
}

// SearchText recursively greps for substr under root (sandbox-resolved).
func (f *FS) SearchText(root, substr string) ([]SearchMatch, []spec.Evidence, error) {
	resolved, err := ResolveSandboxedPath(root, f.cfg.SandboxRoot)
	if err != nil {
		return nil, nil, err
	}
	var matches []SearchMatch
	walkErr := filepath.WalkDir(resolved, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		for i, line := range strings.Split(string(data), "\n") {
			if strings.Contains(line, substr) {
				matches = append(matches, SearchMatch{Path: path, Line: i + 1, Text: line})
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, nil, spec.NewToolError(spec.ErrUpstreamError, walkErr.Error())
	}
	return matches, []spec.Evidence{{Type: spec.EvidenceFile, Ref: resolved}}, nil
}

// SHA256 hashes the file at path (sandbox-resolved).
func (f *FS) SHA256(path string) (string, error) {
	resolved, err := ResolveSandboxedPath(path, f.cfg.SandboxRoot)
	if err != nil {
		return "", err
	}
	file, err := os.Open(resolved)
	if err != nil {
		return "", spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	defer file.Close()
	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DeletePath removes path (sandbox-resolved). Callers must have been
// granted danger:destructive; that check happens in the policy engine
// before this handler runs.
func (f *FS) DeletePath(path string) ([]spec.Evidence, error) {
	resolved, err := ResolveSandboxedPath(path, f.cfg.SandboxRoot)
	if err != nil {
		return nil, err
	}
	if err := os.RemoveAll(resolved); err != nil {
		return nil, spec.NewToolError(spec.ErrUpstreamError, err.Error())
	}
	return []spec.Evidence{{Type: spec.EvidenceFile, Ref: resolved, Summary: "deleted"}}, nil
}
