package observability

import (
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultLatencyBucketsMs are the histogram boundaries spec.md §4.8
// prescribes for tool_latency_ms.
var DefaultLatencyBucketsMs = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// NewMeterProvider builds an SDK MeterProvider with a View that pins
// tool_latency_ms to DefaultLatencyBucketsMs. Callers install it with
// otel.SetMeterProvider before constructing an OtelMetrics.
func NewMeterProvider(readers ...sdkmetric.Reader) *sdkmetric.MeterProvider {
	view := sdkmetric.NewView(
		sdkmetric.Instrument{Name: "tool_latency_ms"},
		sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
			Boundaries: DefaultLatencyBucketsMs,
		}},
	)
	opts := make([]sdkmetric.Option, 0, len(readers)+1)
	opts = append(opts, sdkmetric.WithView(view))
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	return sdkmetric.NewMeterProvider(opts...)
}
