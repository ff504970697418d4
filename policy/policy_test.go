package policy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

func ctxWith(caps ...spec.Capability) *spec.ExecContext {
	perms := make(map[spec.Capability]struct{}, len(caps))
	for _, c := range caps {
		perms[c] = struct{}{}
	}
	return &spec.ExecContext{Permissions: perms}
}

func specWith(caps ...spec.Capability) *spec.ToolSpec {
	set := make(map[spec.Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return &spec.ToolSpec{Name: "t", Capabilities: set}
}

func TestDecideDeniesMissingCapability(t *testing.T) {
	e := New(Options{})
	d := e.Decide(ctxWith(), specWith(spec.CapReadFS), json.RawMessage(`{}`))
	require.False(t, d.Allowed)
	require.Contains(t, d.Reason, "read:fs")
}

func TestDecideDeniesDestructiveWithoutOptIn(t *testing.T) {
	e := New(Options{})
	ctx := ctxWith(spec.CapDangerDestructive)
	ctx.AllowDestructive = false
	d := e.Decide(ctx, specWith(spec.CapDangerDestructive), json.RawMessage(`{}`))
	require.False(t, d.Allowed)
}

func TestDecideAllowsDestructiveWithOptIn(t *testing.T) {
	e := New(Options{})
	ctx := ctxWith(spec.CapDangerDestructive)
	ctx.AllowDestructive = true
	d := e.Decide(ctx, specWith(spec.CapDangerDestructive), json.RawMessage(`{}`))
	require.True(t, d.Allowed)
}

func TestCheckFSPathsRejectsTraversal(t *testing.T) {
	e := New(Options{})
	ctx := ctxWith(spec.CapWriteFS)
	args := json.RawMessage(`{"filePath": "../etc/passwd"}`)
	d := e.Decide(ctx, specWith(spec.CapWriteFS), args)
	require.False(t, d.Allowed)
}

func TestCheckFSPathsEnforcesSandboxPrefix(t *testing.T) {
	e := New(Options{SandboxPaths: []string{"/data/allowed"}})
	ctx := ctxWith(spec.CapWriteFS)
	ok := e.Decide(ctx, specWith(spec.CapWriteFS), json.RawMessage(`{"path": "/data/allowed/x.txt"}`))
	require.True(t, ok.Allowed)

	bad := e.Decide(ctx, specWith(spec.CapWriteFS), json.RawMessage(`{"path": "/etc/shadow"}`))
	require.False(t, bad.Allowed)
}

func TestCheckFSPathsRecursesIntoNestedObjectsOnly(t *testing.T) {
	e := New(Options{})
	ctx := ctxWith(spec.CapWriteFS)
	args := json.RawMessage(`{"options": {"dir": "../nope"}}`)
	d := e.Decide(ctx, specWith(spec.CapWriteFS), args)
	require.False(t, d.Allowed)
}

func TestCheckURLsDenyThenAllow(t *testing.T) {
	e := New(Options{
		DenyURLPatterns:  []string{`(?i)internal\.corp`},
		AllowURLPatterns: []string{`^https://`},
	})
	ctx := ctxWith(spec.CapReadWeb)

	denied := e.Decide(ctx, specWith(spec.CapReadWeb), json.RawMessage(`{"url":"https://internal.corp/secret"}`))
	require.False(t, denied.Allowed)

	notAllowed := e.Decide(ctx, specWith(spec.CapReadWeb), json.RawMessage(`{"url":"ftp://example.com"}`))
	require.False(t, notAllowed.Allowed)

	ok := e.Decide(ctx, specWith(spec.CapReadWeb), json.RawMessage(`{"url":"https://example.com"}`))
	require.True(t, ok.Allowed)
}

func TestCheckURLsEnforcesAllowedDomains(t *testing.T) {
	e := New(Options{AllowedDomains: []string{"example.com"}})
	ctx := ctxWith(spec.CapNetwork)

	ok := e.Decide(ctx, specWith(spec.CapNetwork), json.RawMessage(`{"endpoint":"https://api.example.com/v1"}`))
	require.True(t, ok.Allowed)

	bad := e.Decide(ctx, specWith(spec.CapNetwork), json.RawMessage(`{"endpoint":"https://evil.net"}`))
	require.False(t, bad.Allowed)
}

func TestCheckSQLRejectsDefaultDenyPatterns(t *testing.T) {
	e := New(Options{})
	ctx := ctxWith(spec.CapWriteDB)

	drop := e.Decide(ctx, specWith(spec.CapWriteDB), json.RawMessage(`{"statement":"DROP TABLE users"}`))
	require.False(t, drop.Allowed)

	bareDelete := e.Decide(ctx, specWith(spec.CapWriteDB), json.RawMessage(`{"query":"DELETE FROM users"}`))
	require.False(t, bareDelete.Allowed)

	scoped := e.Decide(ctx, specWith(spec.CapWriteDB), json.RawMessage(`{"query":"DELETE FROM users WHERE id = 1"}`))
	require.True(t, scoped.Allowed)
}

func TestCheckSQLDefaultDenyCoversNonTableDropsAndTruncates(t *testing.T) {
	e := New(Options{})
	ctx := ctxWith(spec.CapWriteDB)

	dropIndex := e.Decide(ctx, specWith(spec.CapWriteDB), json.RawMessage(`{"statement":"DROP INDEX users_email_idx"}`))
	require.False(t, dropIndex.Allowed)

	dropUser := e.Decide(ctx, specWith(spec.CapWriteDB), json.RawMessage(`{"statement":"DROP USER analyst"}`))
	require.False(t, dropUser.Allowed)

	truncate := e.Decide(ctx, specWith(spec.CapWriteDB), json.RawMessage(`{"statement":"TRUNCATE audit_log"}`))
	require.False(t, truncate.Allowed)
}

func TestDecideAllowsWhenNoCapabilitiesDeclared(t *testing.T) {
	e := New(Options{})
	d := e.Decide(ctxWith(), specWith(), json.RawMessage(`{}`))
	require.True(t, d.Allowed)
}
