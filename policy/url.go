package policy

import (
	"net/url"
	"strings"
)

// hostAllowed reports whether rawURL's host exactly matches, or is a
// subdomain of, one of the allowed domains. A malformed URL is treated as
// not allowed rather than erroring the whole check.
func hostAllowed(rawURL string, allowed []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, domain := range allowed {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
