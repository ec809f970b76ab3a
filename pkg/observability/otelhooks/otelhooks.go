// Package otelhooks implements the observability hooks on OpenTelemetry.
//
// Completed format and render stages become spans (back-dated to their
// start) and duration histograms; cache traffic and HTTP requests become
// counters and histograms. Exporters are the caller's business: pass any
// trace.TracerProvider and metric.MeterProvider.
package otelhooks

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/dagviewer/pkg/observability"
)

// InstrumentationName identifies this library to OpenTelemetry.
const InstrumentationName = "github.com/matzehuels/dagviewer"

// Hooks implements PipelineHooks, CacheHooks and HTTPHooks.
type Hooks struct {
	tracer trace.Tracer

	formatDuration metric.Float64Histogram
	renderDuration metric.Float64Histogram
	renderBytes    metric.Int64Histogram
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	cacheBytes     metric.Int64Counter
	requests       metric.Int64Counter
	requestTime    metric.Float64Histogram
}

// New creates hooks recording to tp and mp.
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Hooks, error) {
	m := mp.Meter(InstrumentationName)
	h := &Hooks{tracer: tp.Tracer(InstrumentationName)}

	var err error
	if h.formatDuration, err = m.Float64Histogram("dagviewer.format.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if h.renderDuration, err = m.Float64Histogram("dagviewer.render.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if h.renderBytes, err = m.Int64Histogram("dagviewer.render.size", metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if h.cacheHits, err = m.Int64Counter("dagviewer.cache.hits"); err != nil {
		return nil, err
	}
	if h.cacheMisses, err = m.Int64Counter("dagviewer.cache.misses"); err != nil {
		return nil, err
	}
	if h.cacheBytes, err = m.Int64Counter("dagviewer.cache.written", metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if h.requests, err = m.Int64Counter("dagviewer.http.requests"); err != nil {
		return nil, err
	}
	if h.requestTime, err = m.Float64Histogram("dagviewer.http.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return h, nil
}

// Register installs h as every global hook.
func (h *Hooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// span records a finished stage as a span spanning [end-d, end].
func (h *Hooks) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, sp := h.tracer.Start(ctx, name, trace.WithTimestamp(end.Add(-d)), trace.WithAttributes(attrs...))
	if err != nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, err.Error())
	}
	sp.End(trace.WithTimestamp(end))
}

func (h *Hooks) OnFormatStart(context.Context, int) {}

func (h *Hooks) OnFormatComplete(ctx context.Context, rows, edges int, d time.Duration, err error) {
	h.span(ctx, "dagviewer.format", d, err,
		attribute.Int("dagviewer.rows", rows),
		attribute.Int("dagviewer.edges", edges))
	h.formatDuration.Record(ctx, d.Seconds())
}

func (h *Hooks) OnRenderStart(context.Context, string) {}

func (h *Hooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	attr := attribute.String("dagviewer.format", format)
	h.span(ctx, "dagviewer.render", d, err, attr, attribute.Int("dagviewer.size", size))
	h.renderDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attr))
	if err == nil {
		h.renderBytes.Record(ctx, int64(size), metric.WithAttributes(attr))
	}
}

func (h *Hooks) OnCacheHit(ctx context.Context, keyType string) {
	h.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("dagviewer.key_type", keyType)))
}

func (h *Hooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("dagviewer.key_type", keyType)))
}

func (h *Hooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.cacheBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("dagviewer.key_type", keyType)))
}

func (h *Hooks) OnRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)
	h.requests.Add(ctx, 1, attrs)
	h.requestTime.Record(ctx, d.Seconds(), attrs)
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
