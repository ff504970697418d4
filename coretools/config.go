// Package coretools implements the bundled core tools shared across every
// toolhub deployment: sandboxed filesystem access, SSRF-guarded HTTP
// fetches, and small utility transforms (spec.md §4.5). Every handler is
// registered on an adapter/core.Adapter under a name like "core/fs.readText".
package coretools

import "time"

// Config carries the shared settings every core tool consults.
type Config struct {
	SandboxRoot                   string
	AllowedHosts                  []string
	BlockedCIDRs                  []string
	MaxReadBytes                  int64
	MaxHTTPBytes                  int64
	MaxDownloadBytes              int64
	DefaultTimeout                time.Duration
	HTTPUserAgent                 string
	EnableAutoWriteLargeResponses bool
}

// defaultBlockedCIDRs is used when Config.BlockedCIDRs is empty: loopback,
// link-local, RFC1918 private ranges, and the common cloud metadata
// endpoints.
var defaultBlockedCIDRs = []string{
	"127.0.0.0/8",
	"::1/128",
	"169.254.0.0/16",
	"fe80::/10",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
}

func (c *Config) blockedCIDRs() []string {
	if len(c.BlockedCIDRs) > 0 {
		return c.BlockedCIDRs
	}
	return defaultBlockedCIDRs
}

func (c *Config) timeout() time.Duration {
	if c.DefaultTimeout > 0 {
		return c.DefaultTimeout
	}
	return 30 * time.Second
}

func (c *Config) userAgent() string {
	if c.HTTPUserAgent != "" {
		return c.HTTPUserAgent
	}
	return "toolhub/1.0"
}

func (c *Config) maxReadBytes() int64 {
	if c.MaxReadBytes > 0 {
		return c.MaxReadBytes
	}
	return 10 << 20
}

func (c *Config) maxHTTPBytes() int64 {
	if c.MaxHTTPBytes > 0 {
		return c.MaxHTTPBytes
	}
	return 10 << 20
}

func (c *Config) maxDownloadBytes() int64 {
	if c.MaxDownloadBytes > 0 {
		return c.MaxDownloadBytes
	}
	return 100 << 20
}
