package instrument

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type readerInstrumentation struct {
	mp *sdkmetric.MeterProvider
}

func (r readerInstrumentation) Tracer(name string) trace.Tracer {
	return tracenoop.NewTracerProvider().Tracer(name)
}

func (r readerInstrumentation) Meter(name string) metric.Meter { return r.mp.Meter(name) }

func (r readerInstrumentation) Shutdown(ctx context.Context) error { return r.mp.Shutdown(ctx) }

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestCounterAndHistogram(t *testing.T) {
	// Arrange
	reader := sdkmetric.NewManualReader()
	ins := readerInstrumentation{mp: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))}
	counter := NewCounter(ins, "test", "test.requests", "requests")
	histogram := NewHistogram(ins, "test", "test.duration", "duration", "ms")
	ctx := context.Background()

	// Act
	counter.Add(ctx, 2, attribute.String("result", "fail"))
	counter.Add(ctx, 0, attribute.String("result", "fail"))
	histogram.Record(ctx, 12.5)

	// Assert
	data := collect(t, reader)

	sum, ok := data["test.requests"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	hist, ok := data["test.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestCounter_ZeroValueIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCounter(nil, "test", "x", "x").Add(context.Background(), 1)
		Counter{}.Add(context.Background(), 1)
		Histogram{}.Record(context.Background(), 1)
	})
}

func TestFailSpan(t *testing.T) {
	// Arrange
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "op")

	// Act
	FailSpan(span, nil)
	FailSpan(span, errors.New("engine down"))
	span.End()

	// Assert
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "engine down", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
}
