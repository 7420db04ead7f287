// Package oteltest provides in-memory OpenTelemetry providers and assertions
// for tests that exercise SDK instrumentation.
//
//	tp := oteltest.NewTraceProvider()
//	mp := oteltest.NewMeterProvider()
//	c := httpclient.NewBuilder(log).WithTracerProvider(tp).WithMeterProvider(mp).Build()
//	// ... run the call
//	span := oteltest.OnlySpan(t, tp)
//	total := oteltest.SumInt64(t, mp.Collect(t), "smileid.http.client.attempts")
package oteltest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const metricNotFoundErrMsg = "metric %s not found"

// TraceProvider is an SDK tracer provider that records spans synchronously in memory.
type TraceProvider struct {
	*sdktrace.TracerProvider
	Exporter *tracetest.InMemoryExporter
}

// NewTraceProvider creates a TraceProvider. Spans are visible as soon as they end.
func NewTraceProvider() *TraceProvider {
	exporter := tracetest.NewInMemoryExporter()
	return &TraceProvider{
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)),
		Exporter:       exporter,
	}
}

// Spans returns the ended spans, optionally filtered by name.
func (tp *TraceProvider) Spans(names ...string) tracetest.SpanStubs {
	spans := tp.Exporter.GetSpans()
	if len(names) == 0 {
		return spans
	}
	filtered := make(tracetest.SpanStubs, 0, len(spans))
	for i := range spans {
		for _, name := range names {
			if spans[i].Name == name {
				filtered = append(filtered, spans[i])
				break
			}
		}
	}
	return filtered
}

// OnlySpan fails the test unless exactly one span has ended and returns it.
func OnlySpan(t *testing.T, tp *TraceProvider) tracetest.SpanStub {
	t.Helper()
	spans := tp.Spans()
	require.Len(t, spans, 1, "expected exactly one span")
	return spans[0]
}

// MeterProvider is an SDK meter provider backed by a manual reader.
type MeterProvider struct {
	*sdkmetric.MeterProvider
	Reader *sdkmetric.ManualReader
}

// NewMeterProvider creates a MeterProvider that only collects on demand.
func NewMeterProvider() *MeterProvider {
	reader := sdkmetric.NewManualReader()
	return &MeterProvider{
		MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		Reader:        reader,
	}
}

// Collect reads all metrics recorded so far.
func (mp *MeterProvider) Collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, mp.Reader.Collect(context.Background(), &rm), "failed to collect metrics")
	return rm
}

// SpanAttribute returns the value recorded under key and whether it was present.
func SpanAttribute(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

// AssertSpanAttribute asserts that span carries key with the expected value.
func AssertSpanAttribute(t *testing.T, span tracetest.SpanStub, key string, expected any) {
	t.Helper()
	value, ok := SpanAttribute(span, key)
	if !assert.True(t, ok, "attribute %s not found in span %s", key, span.Name) {
		return
	}
	switch v := expected.(type) {
	case string:
		assert.Equal(t, v, value.AsString(), "attribute %s", key)
	case int:
		assert.Equal(t, int64(v), value.AsInt64(), "attribute %s", key)
	case int64:
		assert.Equal(t, v, value.AsInt64(), "attribute %s", key)
	case bool:
		assert.Equal(t, v, value.AsBool(), "attribute %s", key)
	default:
		t.Fatalf("unsupported attribute value type: %T", expected)
	}
}

// AssertSpanError asserts an error status with the given description and a recorded exception event.
func AssertSpanError(t *testing.T, span tracetest.SpanStub, description string) {
	t.Helper()
	assert.Equal(t, codes.Error, span.Status.Code, "span %s status", span.Name)
	assert.Equal(t, description, span.Status.Description, "span %s status description", span.Name)

	recorded := false
	for _, event := range span.Events {
		if event.Name == "exception" {
			recorded = true
			break
		}
	}
	assert.True(t, recorded, "span %s has no exception event", span.Name)
}

// FindMetric returns the named metric, or nil when it was never recorded.
func FindMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// SumInt64 totals an int64 counter across every attribute set that includes all of match.
func SumInt64(t *testing.T, rm metricdata.ResourceMetrics, name string, match ...attribute.KeyValue) int64 {
	t.Helper()
	m := FindMetric(rm, name)
	require.NotNil(t, m, metricNotFoundErrMsg, name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is %T, not Sum[int64]", name, m.Data)

	var total int64
	for _, dp := range sum.DataPoints {
		if hasAll(dp.Attributes, match) {
			total += dp.Value
		}
	}
	return total
}

// HistogramCount totals observations of a float64 histogram across matching attribute sets.
func HistogramCount(t *testing.T, rm metricdata.ResourceMetrics, name string, match ...attribute.KeyValue) uint64 {
	t.Helper()
	m := FindMetric(rm, name)
	require.NotNil(t, m, metricNotFoundErrMsg, name)
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is %T, not Histogram[float64]", name, m.Data)

	var total uint64
	for _, dp := range hist.DataPoints {
		if hasAll(dp.Attributes, match) {
			total += dp.Count
		}
	}
	return total
}

func hasAll(set attribute.Set, match []attribute.KeyValue) bool {
	for _, kv := range match {
		got, ok := set.Value(kv.Key)
		if !ok || got.Emit() != kv.Value.Emit() {
			return false
		}
	}
	return true
}
