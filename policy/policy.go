// Package policy implements the two-layer authorization check every tool
// invocation passes through before it reaches an adapter: a capability
// gate (does the caller hold every permission the tool declares) and a
// set of parameter-level checks selected by whichever capabilities the
// tool declares (filesystem paths, outbound URLs, SQL-like statements).
package policy

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"toolhub/spec"
)

// Decision is the outcome of evaluating a tool invocation against an
// Engine's configured rules.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(format string, args ...any) Decision {
	return Decision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// Options configures an Engine. All fields are optional; a zero Options
// still applies the default SQL deny list to read:db/write:db tools and
// rejects ".." in write:fs path parameters, besides the capability gate.
type Options struct {
	// SandboxPaths, when non-empty, restricts write:fs path parameters to
	// literal prefixes of one of these directories.
	SandboxPaths []string

	// AllowedDomains, when non-empty, restricts network/read:web URL
	// parameters to hosts equal to, or a subdomain of, one of these.
	AllowedDomains []string
	// DenyURLPatterns and AllowURLPatterns are evaluated in that order:
	// a URL matching any deny pattern is rejected outright; if allow
	// patterns are configured, the URL must also match one of them.
	DenyURLPatterns  []string
	AllowURLPatterns []string

	// SQLDenyPatterns overrides the default deny list for read:db/write:db
	// parameters (DROP/TRUNCATE/bare DELETE FROM) when non-empty.
	SQLDenyPatterns []string
}

var defaultSQLDenyPatterns = []string{
	`(?i)\bDROP\s+\w+\b`,
	`(?i)\bTRUNCATE\s+\w+\b`,
	`(?i)\bDELETE\s+FROM\s+\w+\s*;?\s*$`, // bare DELETE FROM with no WHERE clause
}

// Engine evaluates ExecContext/ToolSpec/args triples against the rules
// built from an Options value.
type Engine struct {
	sandboxPaths   []string
	allowedDomains []string
	denyURL        []*regexp.Regexp
	allowURL       []*regexp.Regexp
	denySQL        []*regexp.Regexp
}

// New compiles opts into an Engine. It panics if a configured regex
// pattern fails to compile — these are operator-supplied config values,
// not caller input, so a bad pattern is a startup error.
func New(opts Options) *Engine {
	e := &Engine{
		sandboxPaths:   append([]string(nil), opts.SandboxPaths...),
		allowedDomains: append([]string(nil), opts.AllowedDomains...),
		denyURL:        compileAll(opts.DenyURLPatterns),
		allowURL:       compileAll(opts.AllowURLPatterns),
	}
	sqlDeny := opts.SQLDenyPatterns
	if len(sqlDeny) == 0 {
		sqlDeny = defaultSQLDenyPatterns
	}
	e.denySQL = compileAll(sqlDeny)
	return e
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Decide evaluates a single invocation. It never mutates s or ctx.
func (e *Engine) Decide(ctx *spec.ExecContext, s *spec.ToolSpec, args json.RawMessage) Decision {
	if d := e.checkCapabilities(ctx, s); !d.Allowed {
		return d
	}
	if s.HasCapability(spec.CapWriteFS) {
		if d := e.checkFSPaths(args); !d.Allowed {
			return d
		}
	}
	if s.HasCapability(spec.CapNetwork) || s.HasCapability(spec.CapReadWeb) {
		if d := e.checkURLs(args); !d.Allowed {
			return d
		}
	}
	if s.HasCapability(spec.CapReadDB) || s.HasCapability(spec.CapWriteDB) {
		if d := e.checkSQL(args); !d.Allowed {
			return d
		}
	}
	return allow()
}

func (e *Engine) checkCapabilities(ctx *spec.ExecContext, s *spec.ToolSpec) Decision {
	var missing []string
	for cap := range s.Capabilities {
		if !ctx.HasPermission(cap) {
			missing = append(missing, string(cap))
			continue
		}
		if cap == spec.CapDangerDestructive && !ctx.AllowDestructive {
			missing = append(missing, string(cap)+" (requires AllowDestructive)")
		}
	}
	if len(missing) == 0 {
		return allow()
	}
	sort.Strings(missing)
	return deny("missing capabilities: %s", strings.Join(missing, ", "))
}

func (e *Engine) checkFSPaths(args json.RawMessage) Decision {
	for _, p := range extractStringsByKey(args, fsKeyHints) {
		if strings.Contains(filepathComponents(p), "..") {
			return deny("path parameter %q contains a parent-directory reference", p)
		}
		if len(e.sandboxPaths) > 0 && !anyPrefix(p, e.sandboxPaths) {
			return deny("path parameter %q is outside the configured sandbox paths", p)
		}
	}
	return allow()
}

func (e *Engine) checkURLs(args json.RawMessage) Decision {
	for _, u := range extractStringsByKey(args, urlKeyHints) {
		for _, re := range e.denyURL {
			if re.MatchString(u) {
				return deny("url parameter %q matches a denied pattern", u)
			}
		}
		if len(e.allowURL) > 0 && !anyMatch(u, e.allowURL) {
			return deny("url parameter %q does not match any allowed pattern", u)
		}
		if len(e.allowedDomains) > 0 && !hostAllowed(u, e.allowedDomains) {
			return deny("url parameter %q is not in an allowed domain", u)
		}
	}
	return allow()
}

func (e *Engine) checkSQL(args json.RawMessage) Decision {
	for _, stmt := range extractStringsByKey(args, sqlKeyHints) {
		for _, re := range e.denySQL {
			if re.MatchString(stmt) {
				return deny("sql parameter matches a denied statement pattern: %s", re.String())
			}
		}
	}
	return allow()
}

func anyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func anyMatch(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// filepathComponents normalizes separators so both "/" and "\" style
// traversal segments are caught uniformly.
func filepathComponents(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
