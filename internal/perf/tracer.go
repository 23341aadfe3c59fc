// Package perf records OpenTelemetry spans in memory so a run can report where its time went.
package perf

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/meza/covgate"

var ErrNotEnabled = errors.New("perf tracing is not enabled")

type Config struct {
	Enabled bool
}

var (
	stateMu  sync.RWMutex
	provider *sdktrace.TracerProvider
	recorder *spanRecorder
	tracer   oteltrace.Tracer = noop.NewTracerProvider().Tracer(tracerName)
)

// Init installs an in-memory tracer. Calling it with Enabled false keeps spans as no-ops.
func Init(config Config) error {
	stateMu.Lock()
	defer stateMu.Unlock()

	if !config.Enabled {
		return nil
	}
	if provider != nil {
		return nil
	}

	recorder = &spanRecorder{}
	provider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(recorder),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	tracer = provider.Tracer(tracerName)
	return nil
}

func Shutdown(ctx context.Context) error {
	stateMu.RLock()
	current := provider
	stateMu.RUnlock()

	if current == nil {
		return nil
	}
	return current.Shutdown(ctx)
}

// Reset drops the tracer and all recorded spans (tests only).
func Reset() {
	stateMu.Lock()
	defer stateMu.Unlock()

	if provider != nil {
		_ = provider.Shutdown(context.Background())
	}
	provider = nil
	recorder = nil
	tracer = noop.NewTracerProvider().Tracer(tracerName)
}

type Span struct {
	span oteltrace.Span
}

func (span *Span) End() {
	if span == nil || span.span == nil {
		return
	}
	span.span.End()
}

func (span *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if span == nil || span.span == nil {
		return
	}
	span.span.SetAttributes(attrs...)
}

func (span *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	if span == nil || span.span == nil {
		return
	}
	span.span.AddEvent(name, oteltrace.WithAttributes(attrs...))
}

type spanOptions struct {
	attributes []attribute.KeyValue
}

type SpanOption func(*spanOptions)

func WithAttributes(attrs ...attribute.KeyValue) SpanOption {
	return func(options *spanOptions) {
		options.attributes = append(options.attributes, attrs...)
	}
}

func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := spanOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	stateMu.RLock()
	current := tracer
	stateMu.RUnlock()

	ctx, span := current.Start(ctx, name, oteltrace.WithAttributes(options.attributes...))
	return ctx, &Span{span: span}
}

func SnapshotSpans() ([]sdktrace.ReadOnlySpan, error) {
	stateMu.RLock()
	defer stateMu.RUnlock()

	if recorder == nil {
		return nil, ErrNotEnabled
	}
	return recorder.Spans(), nil
}

func attributesToMap(attrs []attribute.KeyValue) map[string]interface{} {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}
