package httpclient

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gaborage/go-smileid/logger"
)

const (
	instrumentationName = "github.com/gaborage/go-smileid/httpclient"

	metricAttempts = "smileid.http.client.attempts"
	metricRetries  = "smileid.http.client.retries"
	metricDuration = "smileid.http.client.duration"

	attrHTTPRequestMethod  = "http.request.method"
	attrHTTPResponseStatus = "http.response.status_code"
	attrURLFull            = "url.full"
	attrErrorType          = "error.type"
	attrAttempts           = "smileid.attempts"
)

// Boundaries in seconds. Retried calls can span tens of seconds.
var durationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

type instruments struct {
	attempts metric.Int64Counter
	retries  metric.Int64Counter
	duration metric.Float64Histogram
}

// newInstruments creates the client's instruments. Failures are logged and
// leave the affected instrument nil; recording on nil instruments is a no-op.
func newInstruments(mp metric.MeterProvider, log logger.Logger) *instruments {
	meter := mp.Meter(instrumentationName)
	inst := &instruments{}

	var err error
	inst.attempts, err = meter.Int64Counter(
		metricAttempts,
		metric.WithDescription("Transport invocations made by the Smile Identity HTTP client"),
		metric.WithUnit("{attempt}"),
	)
	logMetricError(log, metricAttempts, err)

	inst.retries, err = meter.Int64Counter(
		metricRetries,
		metric.WithDescription("Attempts scheduled after a retryable failure"),
		metric.WithUnit("{retry}"),
	)
	logMetricError(log, metricRetries, err)

	inst.duration, err = meter.Float64Histogram(
		metricDuration,
		metric.WithDescription("Duration of logical calls including retries and backoff"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	logMetricError(log, metricDuration, err)

	return inst
}

func logMetricError(log logger.Logger, name string, err error) {
	if err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to initialize HTTP client metric")
	}
}

func outcomeAttributes(method string, status int, e *Error) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(attrHTTPRequestMethod, method),
		attribute.Int(attrHTTPResponseStatus, status),
	}
	if e != nil {
		attrs = append(attrs, attribute.String(attrErrorType, string(e.Code)))
	}
	return attrs
}

func (i *instruments) recordAttempt(ctx context.Context, method string, status int, e *Error) {
	if i == nil || i.attempts == nil {
		return
	}
	i.attempts.Add(ctx, 1, metric.WithAttributes(outcomeAttributes(method, status, e)...))
}

func (i *instruments) recordRetry(ctx context.Context, method string, e *Error) {
	if i == nil || i.retries == nil {
		return
	}
	i.retries.Add(ctx, 1, metric.WithAttributes(outcomeAttributes(method, e.Status, e)...))
}

func (i *instruments) recordDuration(ctx context.Context, method string, status int, e *Error, d time.Duration) {
	if i == nil || i.duration == nil {
		return
	}
	i.duration.Record(ctx, d.Seconds(), metric.WithAttributes(outcomeAttributes(method, status, e)...))
}
