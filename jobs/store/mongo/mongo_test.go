package mongo

import (
	"testing"
	"time"

	"toolhub/spec"
)

func TestDocRoundTripPreservesJobFields(t *testing.T) {
	job := &spec.Job{
		JobID:     "j1",
		ToolName:  "demo",
		RequestID: "req-1",
		TaskID:    "task-1",
		Status:    spec.JobCompleted,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Result:    []byte(`{"ok":true}`),
		Metadata:  map[string]any{"attempt": 1},
	}

	d := toDoc(job)
	got := fromDoc(d)

	if got.JobID != job.JobID || got.Status != job.Status || got.ToolName != job.ToolName {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if string(got.Result) != string(job.Result) {
		t.Fatalf("result mismatch: got %s want %s", got.Result, job.Result)
	}
}
