// Package config loads the YAML runtime configuration spec.md §6 defines:
// scan roots, the bundled-coreTools sentinel, core-tool sandbox/SSRF
// limits, adapter settings, and watch behavior. It is "an external
// loader, not the core" — nothing else in this module depends on it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"toolhub/coretools"
)

// RootConfig is one entry in the roots list. A plain string path decodes
// into Path with Namespace/CoreTools left zero; "coreTools" decodes into
// CoreTools=true; {path, namespace} and {path: "coreTools", config}
// decode through UnmarshalYAML below.
type RootConfig struct {
	Path      string
	Namespace string
	CoreTools bool
}

const coreToolsSentinel = "coreTools"

// UnmarshalYAML accepts either a bare scalar ("./tools" or "coreTools")
// or a mapping {path, namespace}.
func (r *RootConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s == coreToolsSentinel {
			r.CoreTools = true
			return nil
		}
		r.Path = s
		return nil
	}
	var m struct {
		Path      string `yaml:"path"`
		Namespace string `yaml:"namespace"`
	}
	if err := value.Decode(&m); err != nil {
		return err
	}
	if m.Path == coreToolsSentinel {
		r.CoreTools = true
		r.Namespace = m.Namespace
		return nil
	}
	r.Path = m.Path
	r.Namespace = m.Namespace
	return nil
}

// CoreToolsConfig mirrors spec.md §6's coreTools section, in YAML's
// wire units (bytes as ints, timeouts in milliseconds) — ToCoreToolsConfig
// converts to coretools.Config's Go-native units.
type CoreToolsConfig struct {
	SandboxRoot                   string   `yaml:"sandboxRoot"`
	AllowedHosts                  []string `yaml:"allowedHosts"`
	BlockedCIDRs                  []string `yaml:"blockedCidrs"`
	MaxReadBytes                  int64    `yaml:"maxReadBytes"`
	MaxHTTPBytes                  int64    `yaml:"maxHttpBytes"`
	MaxDownloadBytes              int64    `yaml:"maxDownloadBytes"`
	DefaultTimeoutMs              int64    `yaml:"defaultTimeoutMs"`
	HTTPUserAgent                 string   `yaml:"httpUserAgent"`
	EnableAutoWriteLargeResponses bool     `yaml:"enableAutoWriteLargeResponses"`
}

// ToCoreToolsConfig converts to the coretools package's native Config,
// resolving SandboxRoot against baseDir if it is relative.
func (c CoreToolsConfig) ToCoreToolsConfig(baseDir string) coretools.Config {
	timeout := time.Duration(c.DefaultTimeoutMs) * time.Millisecond
	return coretools.Config{
		SandboxRoot:                   resolvePath(baseDir, c.SandboxRoot),
		AllowedHosts:                  c.AllowedHosts,
		BlockedCIDRs:                  c.BlockedCIDRs,
		MaxReadBytes:                  c.MaxReadBytes,
		MaxHTTPBytes:                  c.MaxHTTPBytes,
		MaxDownloadBytes:              c.MaxDownloadBytes,
		DefaultTimeout:                timeout,
		HTTPUserAgent:                 c.HTTPUserAgent,
		EnableAutoWriteLargeResponses: c.EnableAutoWriteLargeResponses,
	}
}

// RPCAdapterConfig configures the RPC adapter's defaults (per-server
// overrides live in each tool directory's mcp.json).
type RPCAdapterConfig struct {
	DefaultTimeoutMs int64 `yaml:"defaultTimeoutMs"`
}

// CodeAdapterConfig configures the code adapter.
type CodeAdapterConfig struct {
	DefaultTimeoutMs int64 `yaml:"defaultTimeoutMs"`
}

// WorkflowAdapterConfig configures the workflow adapter.
type WorkflowAdapterConfig struct {
	RunnerURL string `yaml:"runnerUrl"`
}

// SkillAdapterConfig configures the skill adapter.
type SkillAdapterConfig struct {
	DefaultTimeoutMs int64 `yaml:"defaultTimeoutMs"`
}

// AdaptersConfig mirrors spec.md §6's adapters section.
type AdaptersConfig struct {
	RPC      *RPCAdapterConfig      `yaml:"rpc"`
	Code     *CodeAdapterConfig     `yaml:"code"`
	Workflow *WorkflowAdapterConfig `yaml:"workflow"`
	Skill    *SkillAdapterConfig    `yaml:"skill"`
}

// WatchConfig mirrors spec.md §6's watch section.
type WatchConfig struct {
	DebounceMs int64 `yaml:"debounceMs"`
	Persistent bool  `yaml:"persistent"`
}

// Debounce returns DebounceMs as a time.Duration, defaulting to
// watcher.DefaultDebounce's value (200ms) when unset.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMs <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// RuntimeOptions is the top-level shape of the YAML config file spec.md
// §6 describes.
type RuntimeOptions struct {
	Roots     []RootConfig `yaml:"roots"`
	Namespace string       `yaml:"namespace"`
	// Extensions is a set of Include glob patterns (goa-ai's matchGlob
	// idiom — see discovery.FilterByInclude) applied to every scanned
	// tool's Name; an empty list includes everything.
	Extensions []string        `yaml:"extensions"`
	Debug      bool            `yaml:"debug"`
	CoreTools  CoreToolsConfig `yaml:"coreTools"`
	Adapters   AdaptersConfig  `yaml:"adapters"`
	Watch      WatchConfig     `yaml:"watch"`

	// dir is the directory the config file lives in; relative paths in
	// Roots and CoreTools.SandboxRoot resolve against it.
	dir string
}

// Load reads and parses the YAML runtime configuration at path.
func Load(path string) (*RuntimeOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	var opts RuntimeOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %q: %w", path, err)
	}
	opts.dir = filepath.Dir(abs)
	opts.resolveRootPaths()
	return &opts, nil
}

func (o *RuntimeOptions) resolveRootPaths() {
	for i, r := range o.Roots {
		if !r.CoreTools {
			o.Roots[i].Path = resolvePath(o.dir, r.Path)
		}
	}
}

// Dir returns the directory the config file was loaded from, against
// which every relative path in the document resolves.
func (o *RuntimeOptions) Dir() string {
	return o.dir
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
