package instrument

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Counter is a monotonic int64 counter. A counter whose creation failed
// drops every Add, so callers never check for nil.
type Counter struct {
	c metric.Int64Counter
}

// NewCounter creates name on the meter of scope. A nil ins means noop.
func NewCounter(ins Instrumentation, scope, name, desc string) Counter {
	if ins == nil {
		return Counter{}
	}

	c, err := ins.Meter(scope).Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "scope", scope, "name", name, "error", err)
		return Counter{}
	}

	return Counter{c: c}
}

// Add increments the counter by n.
func (c Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	if c.c == nil || n == 0 {
		return
	}
	c.c.Add(ctx, n, metric.WithAttributes(attrs...))
}

// Histogram is a float64 histogram with the same failure handling as Counter.
type Histogram struct {
	h metric.Float64Histogram
}

// NewHistogram creates name on the meter of scope.
func NewHistogram(ins Instrumentation, scope, name, desc, unit string) Histogram {
	if ins == nil {
		return Histogram{}
	}

	h, err := ins.Meter(scope).Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		slog.Error("failed to create histogram", "scope", scope, "name", name, "error", err)
		return Histogram{}
	}

	return Histogram{h: h}
}

// Record adds v to the histogram.
func (h Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	if h.h == nil {
		return
	}
	h.h.Record(ctx, v, metric.WithAttributes(attrs...))
}

// FailSpan records err on span and marks the span as failed.
func FailSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
