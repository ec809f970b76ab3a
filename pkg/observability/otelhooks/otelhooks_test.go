package otelhooks

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/matzehuels/dagviewer/pkg/observability"
)

func newHooks(t *testing.T) (*Hooks, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { tp.Shutdown(context.Background()) })

	h, err := New(tp, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return h, sr
}

func attr(kvs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range kvs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestFormatSpan(t *testing.T) {
	h, sr := newHooks(t)
	ctx := context.Background()

	h.OnFormatStart(ctx, 12)
	h.OnFormatComplete(ctx, 12, 11, 250*time.Millisecond, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	sp := spans[0]
	if sp.Name() != "dagviewer.format" {
		t.Errorf("span name = %q", sp.Name())
	}
	if v, ok := attr(sp.Attributes(), "dagviewer.edges"); !ok || v.AsInt64() != 11 {
		t.Errorf("edges attribute = %v, %v", v, ok)
	}
	if got := sp.EndTime().Sub(sp.StartTime()); got != 250*time.Millisecond {
		t.Errorf("span duration = %v, want 250ms", got)
	}
}

func TestRenderSpanError(t *testing.T) {
	h, sr := newHooks(t)
	h.OnRenderComplete(context.Background(), "png", 0, time.Millisecond, errors.New("syntax error"))

	sp := sr.Ended()[0]
	if sp.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", sp.Status())
	}
	if len(sp.Events()) == 0 {
		t.Error("error should be recorded as an event")
	}
	if v, _ := attr(sp.Attributes(), "dagviewer.format"); v.AsString() != "png" {
		t.Errorf("format attribute = %q", v.AsString())
	}
}

func TestCounterHooksDoNotSpan(t *testing.T) {
	h, sr := newHooks(t)
	ctx := context.Background()

	h.OnCacheHit(ctx, "artifact")
	h.OnCacheMiss(ctx, "artifact")
	h.OnCacheSet(ctx, "artifact", 100)
	h.OnRequest(ctx, "GET", "/healthz", 200, time.Millisecond)

	if n := len(sr.Ended()); n != 0 {
		t.Errorf("metrics-only hooks produced %d spans", n)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	h, _ := newHooks(t)
	h.Register()

	if observability.Pipeline() != h || observability.Cache() != h || observability.HTTP() != h {
		t.Error("Register should install h for every hook kind")
	}
}
