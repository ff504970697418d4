package coretools

import (
	"encoding/json"

	"toolhub/spec"
)

// Core tool names are namespaced core/{fs,http,util}.<name>, exactly as
// spec.md §8's end-to-end scenarios invoke them (e.g. "core/fs.readText",
// "core/http.fetchText", "core/util.time.now"). These constants are the
// single source of truth for those names: Specs and Register both build
// off them so the two can never drift apart.
const (
	NameFetchText    = "core/http.fetchText"
	NameFetchJSON    = "core/http.fetchJson"
	NameHead         = "core/http.head"
	NameDownloadFile = "core/http.downloadFile"

	NameReadText   = "core/fs.readText"
	NameWriteText  = "core/fs.writeText"
	NameListDir    = "core/fs.listDir"
	NameSearchText = "core/fs.searchText"
	NameSHA256File = "core/fs.sha256"
	NameDeletePath = "core/fs.deletePath"

	NameJSONSelect     = "core/util.json.select"
	NameTruncate       = "core/util.truncate"
	NameHashText       = "core/util.hashText"
	NameTimeNow        = "core/util.time.now"
	NameTemplateRender = "core/util.templateRender"
)

// Specs returns the ToolSpec for every bundled core tool, the set merged
// into the registry wherever a config root names the "coreTools" sentinel
// (spec.md §4.2, §6). Every core spec's Impl is left nil: the core
// adapter dispatches by Name alone (see Register).
func Specs() []*spec.ToolSpec {
	mk := func(name, description string, caps ...spec.Capability) *spec.ToolSpec {
		return &spec.ToolSpec{
			Name:         name,
			Version:      "1.0.0",
			Kind:         spec.KindCore,
			Description:  description,
			Capabilities: spec.NewCapabilitySet(caps),
			InputSchema:  permissiveSchema,
			OutputSchema: permissiveSchema,
		}
	}
	return []*spec.ToolSpec{
		mk(NameFetchText, "Fetch a URL and return its body as text.", spec.CapReadWeb, spec.CapNetwork),
		mk(NameFetchJSON, "Fetch a URL and decode its body as JSON.", spec.CapReadWeb, spec.CapNetwork),
		mk(NameHead, "Issue an HTTP HEAD request.", spec.CapReadWeb, spec.CapNetwork),
		mk(NameDownloadFile, "Download a URL to a sandboxed destination path.", spec.CapReadWeb, spec.CapNetwork, spec.CapWriteFS),
		mk(NameReadText, "Read a sandboxed text file.", spec.CapReadFS),
		mk(NameWriteText, "Write a sandboxed text file.", spec.CapWriteFS),
		mk(NameListDir, "List a sandboxed directory's contents.", spec.CapReadFS),
		mk(NameSearchText, "Recursively search sandboxed files for a substring.", spec.CapReadFS),
		mk(NameSHA256File, "Hash a sandboxed file with SHA-256.", spec.CapReadFS),
		mk(NameDeletePath, "Delete a sandboxed path.", spec.CapWriteFS, spec.CapDangerDestructive),
		mk(NameJSONSelect, "Evaluate a JMESPath expression against JSON data."),
		mk(NameTruncate, "Truncate text to a maximum length."),
		mk(NameHashText, "Hash a string with SHA-256."),
		mk(NameTimeNow, "Return the current time in a given zone and format."),
		mk(NameTemplateRender, "Render a Go text/template against JSON-like data."),
	}
}

var permissiveSchema = json.RawMessage(`{"type":"object"}`)
