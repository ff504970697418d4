package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"toolhub/runtime"
)

// OtelTracer implements runtime.Tracer over an OpenTelemetry trace.Tracer.
// It uses the global TracerProvider by default; configure one via
// otel.SetTracerProvider (see NewMeterProvider's tracing counterpart in
// cmd/toolhubd) before invoking the runtime.
type OtelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer returns a Tracer named after the toolhub runtime, mirroring
// the teacher's convention of naming the tracer after the owning package.
func NewOtelTracer() *OtelTracer {
	return &OtelTracer{tracer: otel.Tracer("toolhub/runtime")}
}

func (t *OtelTracer) StartSpan(ctx context.Context, name string) (context.Context, runtime.Span) {
	newCtx, span := t.tracer.Start(ctx, name)
	return newCtx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttr(key, value))
}

func (s *otelSpan) SetError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpan) End() { s.span.End() }

func toAttr(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, "")
	}
}
