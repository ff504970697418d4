package spec

import (
	"encoding/json"
	"time"
)

// EvidenceType enumerates the kinds of auditable facts an invocation can
// record.
type EvidenceType string

const (
	EvidenceTool   EvidenceType = "tool"
	EvidenceFile   EvidenceType = "file"
	EvidenceURL    EvidenceType = "url"
	EvidenceText   EvidenceType = "text"
	EvidenceMetric EvidenceType = "metric"
)

// Evidence is an auditable fact captured during an invocation. Evidence is
// append-only within a single invocation (spec.md §3 invariant d).
type Evidence struct {
	Type      EvidenceType
	Ref       string
	Summary   string
	CreatedAt time.Time
}

// RetryHint is an additive, optional field on ToolResult that lets an
// adapter or the runtime tell the calling agent framework how to recover
// from a failure without resorting to an opaque retry. It never replaces
// the closed ErrorKind set — it is extra context for user-actionable
// failures (missing/invalid arguments) layered on top of it.
type RetryHint struct {
	Reason             RetryReason
	MissingFields      []string
	ClarifyingQuestion string
	ExampleInput       map[string]any
	RestrictToTool     string
}

// RetryReason classifies why a RetryHint was attached.
type RetryReason string

const (
	RetryReasonInvalidArguments RetryReason = "invalid_arguments"
	RetryReasonMissingFields    RetryReason = "missing_fields"
	RetryReasonTimeout          RetryReason = "timeout"
	RetryReasonToolUnavailable  RetryReason = "tool_unavailable"
)

// ToolResult is the outcome of a single invocation. Exactly one is produced
// per invocation, successful or not — the core never throws to its caller.
type ToolResult struct {
	OK       bool
	Result   json.RawMessage
	Evidence []Evidence
	Error    *ToolError
	Raw      json.RawMessage

	// RetryHint is an additive extension (see SPEC_FULL.md §4.13); absent
	// on results the closed spec vocabulary already fully explains.
	RetryHint *RetryHint
}

// RetryHintFor derives the RetryHint a ToolError of the given kind implies,
// or nil when the kind carries no user-actionable recovery path beyond the
// ErrorKind itself. Adapters may attach a richer hint of their own; this is
// the default the runtime falls back to (see SPEC_FULL.md §4.13).
func RetryHintFor(err *ToolError) *RetryHint {
	if err == nil {
		return nil
	}
	switch err.Kind {
	case ErrInputSchemaInvalid:
		return &RetryHint{
			Reason:             RetryReasonInvalidArguments,
			ClarifyingQuestion: "The arguments did not match the tool's input schema: " + err.Message,
		}
	case ErrTimeout, ErrHTTPTimeout:
		return &RetryHint{Reason: RetryReasonTimeout}
	case ErrToolNotFound:
		return &RetryHint{Reason: RetryReasonToolUnavailable}
	default:
		return nil
	}
}

// AddEvidence appends ev to the result's evidence trail.
func (r *ToolResult) AddEvidence(ev Evidence) {
	r.Evidence = append(r.Evidence, ev)
}

// Failure builds a ToolResult for a failed invocation.
func Failure(err *ToolError) *ToolResult {
	return &ToolResult{OK: false, Error: err}
}

// Success builds a ToolResult for a successful invocation.
func Success(result json.RawMessage) *ToolResult {
	return &ToolResult{OK: true, Result: result}
}
