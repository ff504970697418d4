// Package runtime orchestrates the invocation pipeline spec.md §4.4
// describes: registry lookup, input-schema validation, policy
// enforcement, budgeted execution through an adapter, output-schema
// validation, and observability emission — producing exactly one
// ToolResult per call.
package runtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"toolhub/adapter"
	"toolhub/budget"
	"toolhub/policy"
	"toolhub/registry"
	"toolhub/spec"
)

// EventSink receives every event the runtime emits, in order, for one
// invocation: TOOL_CALLED, zero or more RETRY, then POLICY_DENIED, TIMEOUT
// or BUDGET_EXCEEDED where one applies, and finally exactly one
// TOOL_RESULT. Implemented by the observability package's event log.
type EventSink interface {
	Append(ev spec.Event)
}

// MetricsSink receives the standard recordings spec.md §4.8 names.
// Implemented by the observability package's metrics registry.
type MetricsSink interface {
	IncInvocation(toolName string, ok bool)
	ObserveLatency(toolName string, d time.Duration)
	IncRetry(toolName string)
	IncPolicyDenied(toolName, reason string)
}

// Span is the minimal tracing surface the runtime needs from a tracer
// implementation; the spans observability.OtelTracer returns satisfy it.
type Span interface {
	SetAttribute(key string, value any)
	SetError(err error)
	End()
}

// Tracer starts spans for invocations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

type noopSpan struct{}

func (noopSpan) SetAttribute(string, any) {}
func (noopSpan) SetError(error)            {}
func (noopSpan) End()                      {}

type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

// BudgetConfigFor resolves the budget.Config to use for a given tool.
// The runtime asks for one per invocation rather than hardcoding a single
// global Config, so callers can supply per-tool overrides while still
// sharing one budget.Manager. New installs one that returns the zero
// Config for every tool.
type BudgetConfigFor func(toolName string) budget.Config

// Runtime wires a registry, policy engine, budget manager, and adapter
// registry into a single invokeTool entry point.
type Runtime struct {
	Registry    *registry.Registry
	Policy      *policy.Engine
	Budget      *budget.Manager
	Adapters    *adapter.Registry
	Events      EventSink
	Metrics     MetricsSink
	Tracer      Tracer
	BudgetFor   BudgetConfigFor
	MaxRetries  int
}

// New builds a Runtime. Events, Metrics, and Tracer may be nil — they
// default to no-ops so the runtime is usable standalone in tests.
func New(reg *registry.Registry, pol *policy.Engine, bud *budget.Manager, adapters *adapter.Registry) *Runtime {
	return &Runtime{
		Registry: reg,
		Policy:   pol,
		Budget:   bud,
		Adapters: adapters,
		Tracer:   noopTracer{},
		BudgetFor: func(string) budget.Config { return budget.Config{} },
	}
}

func (rt *Runtime) tracer() Tracer {
	if rt.Tracer != nil {
		return rt.Tracer
	}
	return noopTracer{}
}

func (rt *Runtime) emit(ev spec.Event) {
	if rt.Events != nil {
		rt.Events.Append(ev)
	}
}

func (rt *Runtime) metrics() MetricsSink {
	return rt.Metrics
}

// InvokeTool runs the full pipeline for name against args under ctx,
// exactly as spec.md §4.4 enumerates it. It never panics and never
// returns a raw adapter error — every failure path resolves to a
// *spec.ToolResult carrying a *spec.ToolError of one of the closed
// ErrorKind values.
func (rt *Runtime) InvokeTool(ctx context.Context, name string, args json.RawMessage, ec *spec.ExecContext) *spec.ToolResult {
	start := time.Now()
	reqID := requestID(ec)
	rt.emit(spec.Event{Type: spec.EventToolCalled, RequestID: reqID, TaskID: taskID(ec), ToolName: name, Timestamp: time.Now()})

	s, ok := rt.Registry.Get(name)
	if !ok {
		return rt.terminal(reqID, ec, name, start, spec.Failure(spec.NewToolError(spec.ErrToolNotFound, "no tool registered with name "+name)))
	}

	if err := s.CompileSchemas(); err != nil {
		return rt.terminal(reqID, ec, name, start, spec.Failure(spec.NewToolError(spec.ErrInputSchemaInvalid, err.Error())))
	}
	if err := s.ValidateInput(args); err != nil {
		return rt.terminal(reqID, ec, name, start, spec.Failure(spec.NewToolError(spec.ErrInputSchemaInvalid, err.Error())))
	}

	spanCtx, span := rt.tracer().StartSpan(ctx, "tool."+name)
	defer span.End()
	span.SetAttribute("tool.name", name)

	if rt.Policy != nil {
		decision := rt.Policy.Decide(ec, s, args)
		if !decision.Allowed {
			span.SetError(spec.NewToolError(spec.ErrPolicyDenied, decision.Reason))
			if m := rt.metrics(); m != nil {
				m.IncPolicyDenied(name, decision.Reason)
			}
			rt.emit(spec.Event{Type: spec.EventPolicyDenied, RequestID: reqID, TaskID: taskID(ec), ToolName: name, Timestamp: time.Now(), Fields: map[string]any{"reason": decision.Reason}})
			return rt.terminal(reqID, ec, name, start, spec.Failure(spec.NewToolError(spec.ErrPolicyDenied, decision.Reason)))
		}
	}

	a, ok := rt.Adapters.For(s.Kind)
	if !ok {
		return rt.terminal(reqID, ec, name, start, spec.Failure(spec.NewToolError(spec.ErrUpstreamError, "no adapter registered for kind "+string(s.Kind))))
	}

	cfg := budget.Config{}
	if rt.BudgetFor != nil {
		cfg = rt.BudgetFor(name)
	}
	if ec != nil && ec.Budget != nil && ec.Budget.TimeoutMs > 0 {
		requested := time.Duration(ec.Budget.TimeoutMs) * time.Millisecond
		if cfg.DefaultTimeout == 0 || requested < cfg.DefaultTimeout {
			cfg.DefaultTimeout = requested
		}
	}

	result, err := budget.Execute(spanCtx, rt.Budget, name, cfg, func(callCtx context.Context) (*spec.ToolResult, error) {
		return a.Invoke(callCtx, s, args, ec)
	})
	if err != nil {
		kind := spec.KindOf(err)
		span.SetError(err)
		evType := spec.EventBudgetExceeded
		if kind == spec.ErrTimeout {
			evType = spec.EventTimeout
		}
		rt.emit(spec.Event{Type: evType, RequestID: reqID, TaskID: taskID(ec), ToolName: name, Timestamp: time.Now()})
		return rt.terminal(reqID, ec, name, start, spec.Failure(spec.NewToolError(kind, err.Error())))
	}

	if result == nil {
		result = spec.Failure(spec.NewToolError(spec.ErrUpstreamError, "adapter returned a nil result"))
	}

	if result.OK {
		if verr := s.ValidateOutput(result.Result); verr != nil {
			result = spec.Failure(spec.NewToolError(spec.ErrOutputSchemaInvalid, verr.Error()))
		}
	}

	if !result.OK && result.Error != nil {
		span.SetError(result.Error)
	}
	return rt.terminal(reqID, ec, name, start, result)
}

// terminal records the standard metrics/span attributes and appends the
// single TOOL_RESULT event every invocation path converges on.
func (rt *Runtime) terminal(reqID string, ec *spec.ExecContext, name string, start time.Time, result *spec.ToolResult) *spec.ToolResult {
	elapsed := time.Since(start)
	if m := rt.metrics(); m != nil {
		m.IncInvocation(name, result.OK)
		m.ObserveLatency(name, elapsed)
	}
	fields := map[string]any{"ok": result.OK}
	if result.Error != nil {
		fields["errorKind"] = string(result.Error.Kind)
		if result.RetryHint == nil {
			result.RetryHint = spec.RetryHintFor(result.Error)
		}
	}
	rt.emit(spec.Event{
		Type:      spec.EventToolResult,
		RequestID: reqID,
		TaskID:    taskID(ec),
		ToolName:  name,
		Timestamp: time.Now(),
		Fields:    fields,
	})
	return result
}

// requestID returns ec's RequestID, defaulting to a freshly minted uuid
// when the caller left it unset — every event this invocation emits
// shares the one generated ID.
func requestID(ec *spec.ExecContext) string {
	if ec != nil && ec.RequestID != "" {
		return ec.RequestID
	}
	return uuid.New().String()
}

func taskID(ec *spec.ExecContext) string {
	if ec == nil {
		return ""
	}
	return ec.TaskID
}
