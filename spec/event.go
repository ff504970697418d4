package spec

import "time"

// EventType discriminates the Event variants flowing through the
// observability event log.
type EventType string

const (
	EventToolCalled     EventType = "TOOL_CALLED"
	EventToolResult     EventType = "TOOL_RESULT"
	EventPolicyDenied   EventType = "POLICY_DENIED"
	EventRetry          EventType = "RETRY"
	EventTimeout        EventType = "TIMEOUT"
	EventBudgetExceeded EventType = "BUDGET_EXCEEDED"
	EventJobSubmitted   EventType = "JOB_SUBMITTED"
	EventJobCompleted   EventType = "JOB_COMPLETED"
	EventJobFailed      EventType = "JOB_FAILED"
)

// Event is a tagged variant carrying the fields common to every event plus
// a Fields bag for variant-specific data. Concrete invocations always
// follow the ordering in spec.md §5: TOOL_CALLED → (RETRY*) → exactly one
// terminal event.
type Event struct {
	// Seq is the event log's monotonically increasing sequence number,
	// assigned when the event is appended — it is never set by callers.
	Seq uint64

	Type      EventType
	RequestID string
	TaskID    string
	ToolName  string
	Timestamp time.Time

	// Fields carries variant-specific data (e.g. policy denial reasons,
	// retry attempt numbers, result payloads) as opaque JSON so the event
	// log stays decoupled from every adapter's result shape.
	Fields map[string]any
}
