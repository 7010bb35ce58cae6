package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs an in-memory span exporter for the test.
func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("eventmap")

	t.Cleanup(func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("eventmap")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})

	return exporter
}

func attr(stub tracetest.SpanStub, key string) string {
	for _, a := range stub.Attributes {
		if string(a.Key) == key {
			return a.Value.AsString()
		}
	}
	return ""
}

func TestStartDispatchSpan(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := StartDispatchSpan(context.Background(), "user.registered")
	EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "eventmap.dispatch", spans[0].Name)
	assert.Equal(t, "user.registered", attr(spans[0], "event.name"))
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestStartHookSpan(t *testing.T) {
	exporter := setupTracingTest(t)

	ctx, hookSpan := StartHookSpan(context.Background(), "save_post", "posts.Saved")
	_, dispatchSpan := StartDispatchSpan(ctx, "posts.Saved")
	dispatchSpan.End()
	hookSpan.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	var hook, dispatch tracetest.SpanStub
	for _, s := range spans {
		switch s.Name {
		case "eventmap.hook":
			hook = s
		case "eventmap.dispatch":
			dispatch = s
		}
	}
	assert.Equal(t, "save_post", attr(hook, "hook.name"))
	assert.Equal(t, "posts.Saved", attr(hook, "event.type"))
	assert.Equal(t, hook.SpanContext.SpanID(), dispatch.Parent.SpanID())
}

func TestEndSpanWithError(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := StartDispatchSpan(context.Background(), "order.failed")
	EndSpanWithError(span, errors.New("listener failed"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "listener failed", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestEndSpanWithErrorNilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		EndSpanWithError(nil, errors.New("x"))
	})
}

func TestSpanManager(t *testing.T) {
	exporter := setupTracingTest(t)

	sm := NewSpanManager()
	ctx, span := sm.StartHookSpan(context.Background(), "init", "app.Booted")
	_, child := sm.StartDispatchSpan(ctx, "app.Booted")
	sm.EndSpanWithError(child, nil)
	sm.EndSpanWithError(span, nil)

	assert.Len(t, exporter.GetSpans(), 2)
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartDispatchSpan(ctx, "e")
	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.IsRecording())

	newCtx, span = sm.StartHookSpan(ctx, "h", "e")
	assert.Equal(t, ctx, newCtx)
	assert.NotPanics(t, func() { sm.EndSpanWithError(span, errors.New("x")) })
}
