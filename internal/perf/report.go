package perf

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport prints one line per recorded span in start order, indented by depth.
func WriteReport(writer io.Writer) error {
	spans, err := GetSpans()
	if err != nil {
		return err
	}

	parents := make(map[string]string, len(spans))
	for _, span := range spans {
		parents[span.SpanID] = span.ParentSpanID
	}

	for _, span := range spans {
		depth := 0
		for parent := span.ParentSpanID; parent != ""; parent = parents[parent] {
			depth++
		}
		duration := span.EndTime.Sub(span.StartTime)
		if _, err := fmt.Fprintf(writer, "%s%s %s\n", strings.Repeat("  ", depth), span.Name, duration); err != nil {
			return err
		}
	}
	return nil
}
