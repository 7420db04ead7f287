package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gaborage/go-smileid/trace"
)

const (
	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = trace.HeaderXRequestID
	// HeaderTraceParent is the W3C trace context header name
	HeaderTraceParent = trace.HeaderTraceParent
	// HeaderContentType is set to ContentTypeJSON unless the request overrides it
	HeaderContentType = "Content-Type"
	// ContentTypeJSON is the default request content type
	ContentTypeJSON = "application/json"
)

// Client executes one logical HTTP call, retrying per policy.
// Every non-nil error it returns is an *Error.
type Client interface {
	Execute(ctx context.Context, req *Request, policy RetryPolicy) (*Response, error)
}

// Transport performs exactly one HTTP exchange. *http.Client satisfies it.
type Transport interface {
	Do(req *nethttp.Request) (*nethttp.Response, error)
}

// Request describes one logical call. The client copies it and never mutates it.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is JSON-encoded; []byte and json.RawMessage are sent verbatim
	Body any
	// Timeout bounds each attempt; zero uses the client's configured timeout
	Timeout time.Duration
}

func (r *Request) clone() *Request {
	cp := *r
	if r.Headers != nil {
		cp.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			cp.Headers[k] = v
		}
	}
	return &cp
}

// RetryPolicy controls how many attempts Execute makes and how long it waits between them.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	// ShouldRetry replaces the default classification when set
	ShouldRetry func(*Error) bool
}

// Response is the normalized result of a successful call.
type Response struct {
	StatusCode int
	Status     string
	Headers    nethttp.Header
	// Data is the decoded body: map/slice for JSON, string for text, nil otherwise
	Data any
	// Body is the raw response body
	Body  []byte
	Stats Stats
}

// Decode unmarshals the raw JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Stats contains request execution statistics
type Stats struct {
	ElapsedTime time.Duration
	// Attempts is the number of transport invocations made for this call
	Attempts int
	// CallCount is the client-wide sequence number of this call
	CallCount int64
}

// RequestInterceptor is called before sending each attempt
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving each attempt's response
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Config holds the client configuration
type Config struct {
	// Timeout bounds an attempt when the request does not set its own
	Timeout              time.Duration
	DefaultHeaders       map[string]string
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	// LogPayloads enables debug-level logging of headers and body payloads
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
	// StrictDecoding reports malformed JSON bodies as UNKNOWN_ERROR instead of substituting an empty object
	StrictDecoding bool
	// RateLimit caps attempts per second across all calls; zero disables limiting
	RateLimit float64
	// RateBurst is the limiter bucket size (default 1)
	RateBurst int
}
