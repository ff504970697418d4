package observability

import (
	"testing"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

func TestEventLogAppendAssignsMonotonicSeq(t *testing.T) {
	l := NewEventLog(10)
	l.Append(spec.Event{Type: spec.EventToolCalled, ToolName: "a"})
	l.Append(spec.Event{Type: spec.EventToolResult, ToolName: "a"})

	all := l.Query(Query{})
	require.Len(t, all, 2)
	require.Equal(t, uint64(1), all[0].Seq)
	require.Equal(t, uint64(2), all[1].Seq)
}

func TestEventLogDropsOldestWhenFull(t *testing.T) {
	l := NewEventLog(3)
	for i := 0; i < 5; i++ {
		l.Append(spec.Event{Type: spec.EventToolCalled, ToolName: "t"})
	}
	all := l.Query(Query{})
	require.Len(t, all, 3)
	require.Equal(t, uint64(3), all[0].Seq)
	require.Equal(t, uint64(5), all[2].Seq)
}

func TestEventLogQueryFilters(t *testing.T) {
	l := NewEventLog(10)
	l.Append(spec.Event{Type: spec.EventToolCalled, ToolName: "a", RequestID: "r1"})
	l.Append(spec.Event{Type: spec.EventToolResult, ToolName: "a", RequestID: "r1"})
	l.Append(spec.Event{Type: spec.EventToolResult, ToolName: "b", RequestID: "r2"})

	results := l.Query(Query{ToolName: "a"})
	require.Len(t, results, 2)

	results = l.Query(Query{Type: spec.EventToolResult})
	require.Len(t, results, 2)

	results = l.Query(Query{RequestID: "r2"})
	require.Len(t, results, 1)

	results = l.Query(Query{Since: 1})
	require.Len(t, results, 2)

	results = l.Query(Query{Limit: 1})
	require.Len(t, results, 1)
	require.Equal(t, uint64(3), results[0].Seq)
}

func TestEventLogSubscribeReceivesMatchingEvents(t *testing.T) {
	l := NewEventLog(10)
	ch, cancel := l.Subscribe(spec.EventPolicyDenied)
	defer cancel()

	l.Append(spec.Event{Type: spec.EventToolCalled})
	l.Append(spec.Event{Type: spec.EventPolicyDenied, ToolName: "x"})

	select {
	case ev := <-ch:
		require.Equal(t, "x", ev.ToolName)
	default:
		t.Fatal("expected a subscribed event to be delivered")
	}
}
