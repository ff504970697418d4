package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOtelMetricsRecordsConfiguredInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := NewMeterProvider(reader)
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m := NewOtelMetrics()
	m.IncInvocation("echo", true)
	m.ObserveLatency("echo", 42*time.Millisecond)
	m.IncRetry("echo")
	m.IncPolicyDenied("echo", "missing capability")

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &data))

	names := map[string]bool{}
	for _, sm := range data.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	require.True(t, names["tool_invocations_total"])
	require.True(t, names["tool_latency_ms"])
	require.True(t, names["tool_retries_total"])
	require.True(t, names["policy_denied_total"])
}
