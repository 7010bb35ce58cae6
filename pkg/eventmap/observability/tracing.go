package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the eventmap tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("eventmap")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDispatchSpan starts a span around one event dispatch.
	StartDispatchSpan(ctx context.Context, eventName string) (context.Context, trace.Span)

	// StartHookSpan starts a span around a mapped hook firing.
	StartHookSpan(ctx context.Context, hook, eventType string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, eventName string) (context.Context, trace.Span) {
	return StartDispatchSpan(ctx, eventName)
}

func (m *otelSpanManager) StartHookSpan(ctx context.Context, hook, eventType string) (context.Context, trace.Span) {
	return StartHookSpan(ctx, hook, eventType)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// StartDispatchSpan starts a dispatch span on the global tracer.
func StartDispatchSpan(ctx context.Context, eventName string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventmap.dispatch",
		trace.WithAttributes(
			attribute.String("event.name", eventName),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartHookSpan starts a hook span on the global tracer.
func StartHookSpan(ctx context.Context, hook, eventType string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventmap.hook",
		trace.WithAttributes(
			attribute.String("hook.name", hook),
			attribute.String("event.type", eventType),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
