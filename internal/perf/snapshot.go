package perf

import (
	"time"

	"go.opentelemetry.io/otel/sdk/trace"
)

type SpanSnapshot struct {
	Name         string
	TraceID      string
	SpanID       string
	ParentSpanID string
	StartTime    time.Time
	EndTime      time.Time
	Attributes   map[string]interface{}
	Events       []EventSnapshot
}

type EventSnapshot struct {
	Name       string
	Timestamp  time.Time
	Attributes map[string]interface{}
}

func GetSpans() ([]SpanSnapshot, error) {
	spans, err := SnapshotSpans()
	if err != nil {
		return nil, err
	}

	out := make([]SpanSnapshot, 0, len(spans))
	for _, span := range spans {
		out = append(out, snapshotSpan(span))
	}
	return out, nil
}

func MustGetSpans() []SpanSnapshot {
	spans, err := GetSpans()
	if err != nil {
		return nil
	}
	return spans
}

func FindSpanByName(spans []SpanSnapshot, name string) (SpanSnapshot, bool) {
	for _, span := range spans {
		if span.Name == name {
			return span, true
		}
	}
	return SpanSnapshot{}, false
}

func snapshotSpan(span trace.ReadOnlySpan) SpanSnapshot {
	spanContext := span.SpanContext()
	parentContext := span.Parent()

	out := SpanSnapshot{
		Name:       span.Name(),
		TraceID:    spanContext.TraceID().String(),
		SpanID:     spanContext.SpanID().String(),
		StartTime:  span.StartTime(),
		EndTime:    span.EndTime(),
		Attributes: attributesToMap(span.Attributes()),
	}
	if parentContext.IsValid() {
		out.ParentSpanID = parentContext.SpanID().String()
	}

	events := span.Events()
	if len(events) > 0 {
		out.Events = make([]EventSnapshot, 0, len(events))
		for _, event := range events {
			out.Events = append(out.Events, EventSnapshot{
				Name:       event.Name,
				Timestamp:  event.Time,
				Attributes: attributesToMap(event.Attributes),
			})
		}
	}

	return out
}
