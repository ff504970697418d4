package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"toolhub/runtime"
)

// OtelMetrics implements runtime.MetricsSink over an OpenTelemetry Meter,
// recording exactly the instruments spec.md §4.8 names:
// tool_invocations_total{toolName,ok}, tool_latency_ms{toolName},
// tool_retries_total, policy_denied_total{toolName,reason}.
type OtelMetrics struct {
	meter metric.Meter
}

// NewOtelMetrics returns a MetricsSink backed by the global MeterProvider.
// Pair it with NewMeterProvider (provider.go) so tool_latency_ms uses the
// spec's default histogram buckets.
func NewOtelMetrics() *OtelMetrics {
	return &OtelMetrics{meter: otel.Meter("toolhub/runtime")}
}

func (m *OtelMetrics) IncInvocation(toolName string, ok bool) {
	counter, err := m.meter.Int64Counter("tool_invocations_total")
	if err != nil {
		return
	}
	counter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("toolName", toolName),
		attribute.Bool("ok", ok),
	))
}

func (m *OtelMetrics) ObserveLatency(toolName string, d time.Duration) {
	histogram, err := m.meter.Float64Histogram("tool_latency_ms", metric.WithUnit("ms"))
	if err != nil {
		return
	}
	histogram.Record(context.Background(), float64(d.Milliseconds()), metric.WithAttributes(
		attribute.String("toolName", toolName),
	))
}

func (m *OtelMetrics) IncRetry(toolName string) {
	counter, err := m.meter.Int64Counter("tool_retries_total")
	if err != nil {
		return
	}
	counter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("toolName", toolName)))
}

func (m *OtelMetrics) IncPolicyDenied(toolName, reason string) {
	counter, err := m.meter.Int64Counter("policy_denied_total")
	if err != nil {
		return
	}
	counter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("toolName", toolName),
		attribute.String("reason", reason),
	))
}

var _ runtime.MetricsSink = (*OtelMetrics)(nil)
