// Package trace carries request identifiers through contexts and injects
// them, together with W3C trace context, into outbound HTTP headers.
package trace

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	nethttp "net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"

	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = "X-Request-ID"
	// HeaderTraceParent is the W3C trace context header name
	HeaderTraceParent = "traceparent"
	// HeaderTraceState is the W3C trace context "tracestate" header name
	HeaderTraceState = "tracestate"
)

var w3c = propagation.TraceContext{}

// WithRequestID stores a request ID in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID stored in ctx, if any
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// EnsureRequestID returns the request ID from ctx. When none is stored the
// active span's trace ID is used, and a fresh UUID after that.
func EnsureRequestID(ctx context.Context) string {
	if id, ok := RequestIDFromContext(ctx); ok {
		return id
	}
	if sc := oteltrace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}

// InjectHeaders sets X-Request-ID and traceparent/tracestate on h. Values
// already present in h are kept. It returns the request ID carried by h.
func InjectHeaders(ctx context.Context, h nethttp.Header) string {
	requestID := h.Get(HeaderXRequestID)
	if requestID == "" {
		requestID = EnsureRequestID(ctx)
		h.Set(HeaderXRequestID, requestID)
	}

	if h.Get(HeaderTraceParent) != "" {
		return requestID
	}
	if oteltrace.SpanContextFromContext(ctx).IsValid() {
		w3c.Inject(ctx, propagation.HeaderCarrier(h))
		return requestID
	}
	h.Set(HeaderTraceParent, GenerateTraceParent())
	return requestID
}

// ExtractContext returns ctx enriched with the remote span context and the
// request ID found in h. It is the inbound counterpart of InjectHeaders.
func ExtractContext(ctx context.Context, h nethttp.Header) context.Context {
	ctx = w3c.Extract(ctx, propagation.HeaderCarrier(h))
	if id := h.Get(HeaderXRequestID); id != "" {
		ctx = WithRequestID(ctx, id)
	}
	return ctx
}

// GenerateTraceParent creates a sampled W3C traceparent with random IDs.
// Format: version(2)-trace-id(32)-span-id(16)-flags(2)
func GenerateTraceParent() string {
	var traceID oteltrace.TraceID
	var spanID oteltrace.SpanID
	_, _ = crand.Read(traceID[:])
	_, _ = crand.Read(spanID[:])
	// all-zero IDs are invalid per W3C
	if !traceID.IsValid() {
		traceID[len(traceID)-1] = 0x01
	}
	if !spanID.IsValid() {
		spanID[len(spanID)-1] = 0x01
	}
	return "00-" + hex.EncodeToString(traceID[:]) + "-" + hex.EncodeToString(spanID[:]) + "-01"
}
