package streaming

import (
	"encoding/json"
	"testing"

	"toolhub/spec"
)

// Append itself is not exercised here (opening a real stream requires a
// live Redis), but the JSON-encoding step ahead of the publish call is
// pure and worth pinning: it must accept every Event variant the event
// log produces.
func TestAppendMarshalsEveryEventType(t *testing.T) {
	for _, et := range []spec.EventType{
		spec.EventToolCalled, spec.EventToolResult, spec.EventPolicyDenied,
		spec.EventRetry, spec.EventTimeout, spec.EventBudgetExceeded,
		spec.EventJobSubmitted, spec.EventJobCompleted, spec.EventJobFailed,
	} {
		ev := spec.Event{Type: et, ToolName: "t", Fields: map[string]any{"x": 1}}
		if _, err := json.Marshal(ev); err != nil {
			t.Fatalf("marshal %s: %v", et, err)
		}
	}
}
