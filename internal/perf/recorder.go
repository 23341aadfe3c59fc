package perf

import (
	"context"
	"sort"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanRecorder keeps finished spans in memory for the --perf report.
// Spans that end after Shutdown are dropped.
type spanRecorder struct {
	mu      sync.Mutex
	spans   []sdktrace.ReadOnlySpan
	stopped bool
}

var _ sdktrace.SpanExporter = (*spanRecorder)(nil)

func (recorder *spanRecorder) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	if recorder.stopped {
		return nil
	}
	recorder.spans = append(recorder.spans, spans...)
	return nil
}

func (recorder *spanRecorder) Shutdown(context.Context) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.stopped = true
	return nil
}

// Spans returns the recorded spans ordered by start time.
func (recorder *spanRecorder) Spans() []sdktrace.ReadOnlySpan {
	recorder.mu.Lock()
	out := make([]sdktrace.ReadOnlySpan, len(recorder.spans))
	copy(out, recorder.spans)
	recorder.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime().Before(out[j].StartTime())
	})
	return out
}
