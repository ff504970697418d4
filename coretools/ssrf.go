package coretools

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"toolhub/spec"
)

// validateURL parses rawURL, enforces an http/https scheme, resolves the
// host, and checks every resolved address against the blocked CIDR list
// and the host against the allowed-hosts glob list (spec.md §4.5).
func validateURL(ctx context.Context, rawURL string, cfg *Config) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, spec.NewToolError(spec.ErrHTTPDisallowedHost, "invalid URL: "+rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, spec.NewToolError(spec.ErrHTTPDisallowedHost, "scheme must be http or https: "+u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, spec.NewToolError(spec.ErrHTTPDisallowedHost, "URL has no host: "+rawURL)
	}
	if !hostAllowed(host, cfg.AllowedHosts) {
		return nil, spec.NewToolError(spec.ErrHTTPDisallowedHost, "host not in allowedHosts: "+host)
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, spec.NewToolError(spec.ErrHTTPDisallowedHost, "DNS resolution failed for "+host)
	}
	blocked := parsedCIDRs(cfg.blockedCIDRs())
	for _, addr := range addrs {
		for _, block := range blocked {
			if block.Contains(addr.IP) {
				return nil, spec.NewToolError(spec.ErrHTTPDisallowedHost, fmt.Sprintf("%s resolves to blocked address %s", host, addr.IP))
			}
		}
	}
	return u, nil
}

func parsedCIDRs(cidrs []string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err == nil {
			out = append(out, n)
		}
	}
	return out
}

// hostAllowed reports whether host matches an entry in allowed, either
// exactly or via a "*.suffix" glob. An empty allowed list denies every
// host (allowlists are opt-in, not default-open).
func hostAllowed(host string, allowed []string) bool {
	if len(allowed) == 0 {
		return false
	}
	host = strings.ToLower(host)
	for _, a := range allowed {
		a = strings.ToLower(a)
		if strings.HasPrefix(a, "*.") {
			suffix := a[1:] // ".suffix"
			if strings.HasSuffix(host, suffix) {
				return true
			}
			continue
		}
		if host == a {
			return true
		}
	}
	return false
}
