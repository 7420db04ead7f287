package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gaborage/go-smileid/logger"
	"github.com/gaborage/go-smileid/trace"
)

var supportedMethods = map[string]struct{}{
	nethttp.MethodGet:    {},
	nethttp.MethodPost:   {},
	nethttp.MethodPut:    {},
	nethttp.MethodPatch:  {},
	nethttp.MethodDelete: {},
}

// client implements the Client interface
type client struct {
	transport            Transport
	logger               logger.Logger
	config               *Config
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	limiter              *rate.Limiter
	tracer               oteltrace.Tracer
	metrics              *instruments
	callCount            atomic.Int64
}

var _ Client = (*client)(nil)

// attemptResult is the outcome of one transport invocation.
type attemptResult struct {
	resp      *Response
	err       *Error
	requestID string
	// final stops the retry loop regardless of policy
	final bool
}

func (r attemptResult) status() int {
	switch {
	case r.resp != nil:
		return r.resp.StatusCode
	case r.err != nil:
		return r.err.Status
	default:
		return StatusNoResponse
	}
}

// Execute runs req with up to policy.MaxRetries retries.
func (c *client) Execute(ctx context.Context, req *Request, policy RetryPolicy) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	req = req.clone()
	req.Method = strings.ToUpper(req.Method)

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, validationError("request body cannot be encoded", err)
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String(attrHTTPRequestMethod, req.Method),
			attribute.String(attrURLFull, redactURL(req.URL)),
		),
	)
	defer span.End()

	start := time.Now()
	callCount := c.callCount.Add(1)
	maxRetries := max(policy.MaxRetries, 0)

	var last *Error
	attempts := 0
	for attempt := 0; attempt <= maxRetries; attempt++ {
		attempts++
		out := c.attempt(ctx, req, body, start, Stats{Attempts: attempts, CallCount: callCount})
		c.metrics.recordAttempt(ctx, req.Method, out.status(), out.err)

		if out.err == nil {
			out.resp.Stats.ElapsedTime = time.Since(start)
			c.finish(ctx, span, req.Method, start, attempts, out.resp.StatusCode, nil)
			return out.resp, nil
		}

		last = out.err
		if out.final || attempt == maxRetries || !policy.retryable(last) {
			break
		}

		delay := BackoffDelay(policy, attempt)
		c.logRetry(out.requestID, attempts, delay, last)
		c.metrics.recordRetry(ctx, req.Method, last)
		if err := sleep(ctx, delay); err != nil {
			last = canceledError(err, last)
			break
		}
	}

	terminal := terminalError(last)
	c.logFailure(req, terminal, attempts, time.Since(start))
	c.finish(ctx, span, req.Method, start, attempts, last.Status, last)
	return nil, terminal
}

// attempt performs one bounded transport invocation and normalizes its outcome.
func (c *client) attempt(ctx context.Context, req *Request, body []byte, start time.Time, stats Stats) attemptResult {
	if err := c.waitRateLimit(ctx); err != nil {
		return attemptResult{err: err, final: true}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeoutFor(req))
	defer cancel()

	httpReq, requestID, buildErr := c.buildRequest(attemptCtx, req, body)
	if buildErr != nil {
		return attemptResult{err: buildErr, requestID: requestID, final: true}
	}

	c.logRequest(httpReq, body, requestID)

	httpResp, err := c.transport.Do(httpReq)
	if err != nil {
		e, final := transportError(ctx, attemptCtx, err)
		return attemptResult{err: e, requestID: requestID, final: final}
	}

	resp, e, final := c.readResponse(ctx, attemptCtx, httpReq, httpResp, requestID, start, stats)
	if e != nil {
		return attemptResult{err: e, requestID: requestID, final: final}
	}
	return attemptResult{resp: resp, requestID: requestID}
}

func (c *client) timeoutFor(req *Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if c.config.Timeout > 0 {
		return c.config.Timeout
	}
	return DefaultTimeout
}

func (c *client) waitRateLimit(ctx context.Context) *Error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return canceledError(ctxErr, err)
		}
		return WrapError(nethttp.StatusTooManyRequests, RateLimitExceeded, "client rate limit exceeded", nil, err)
	}
	return nil
}

// buildRequest constructs the *http.Request, applies headers and runs request interceptors.
func (c *client) buildRequest(ctx context.Context, req *Request, body []byte) (*nethttp.Request, string, *Error) {
	var reader io.Reader = nethttp.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, req.URL, reader)
	if err != nil {
		return nil, "", validationError("failed to create HTTP request", err)
	}

	c.applyHeaders(httpReq, req)
	requestID := trace.InjectHeaders(ctx, httpReq.Header)

	if err := c.runRequestInterceptors(ctx, httpReq); err != nil {
		return nil, requestID, WrapError(nethttp.StatusInternalServerError, Unknown, "request interceptor failed", nil, err)
	}
	return httpReq, requestID, nil
}

// applyHeaders layers client defaults, the JSON content type and request headers, in that order.
func (c *client) applyHeaders(httpReq *nethttp.Request, req *Request) {
	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	if httpReq.Header.Get(HeaderContentType) == "" {
		httpReq.Header.Set(HeaderContentType, ContentTypeJSON)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
}

// readResponse runs response interceptors, reads and decodes the body, and
// turns non-2xx statuses into classified errors.
func (c *client) readResponse(
	ctx, attemptCtx context.Context,
	httpReq *nethttp.Request,
	httpResp *nethttp.Response,
	requestID string,
	start time.Time,
	stats Stats,
) (*Response, *Error, bool) {
	defer httpResp.Body.Close()

	if err := c.runResponseInterceptors(ctx, httpReq, httpResp); err != nil {
		return nil, WrapError(httpResp.StatusCode, Unknown, "response interceptor failed", nil, err), true
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		e, final := transportError(ctx, attemptCtx, fmt.Errorf("read response body: %w", err))
		return nil, e, final
	}

	status := httpResp.StatusCode
	data, decodeErr := decodeBody(httpResp.Header.Get(HeaderContentType), raw, c.config.StrictDecoding)

	stats.ElapsedTime = time.Since(start)
	resp := &Response{
		StatusCode: status,
		Status:     statusText(httpResp.Status, status),
		Headers:    httpResp.Header,
		Data:       data,
		Body:       raw,
		Stats:      stats,
	}
	c.logResponse(resp, requestID)

	if !IsSuccessStatus(status) {
		return nil, WrapError(status, ClassifyStatus(status), messageFrom(data, status), data, decodeErr), false
	}
	if decodeErr != nil {
		return nil, WrapError(status, Unknown, "malformed response body", nil, decodeErr), true
	}
	return resp, nil, false
}

// transportError normalizes a failure that produced no usable response.
// Cancellation of the caller's context is final; everything else may be retried.
func transportError(parent, attemptCtx context.Context, err error) (*Error, bool) {
	if parentErr := parent.Err(); parentErr != nil {
		return canceledError(parentErr, err), true
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) || isTimeout(err) {
		return WrapError(nethttp.StatusRequestTimeout, Timeout, timeoutMessage, nil, err), false
	}
	return WrapError(StatusNoResponse, NetworkError, err.Error(), nil, err), false
}

// canceledError reports the caller abandoning the call. A caller deadline is a TIMEOUT.
func canceledError(ctxErr, prev error) *Error {
	cause := ctxErr
	if prev != nil {
		cause = errors.Join(ctxErr, prev)
	}
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return WrapError(nethttp.StatusRequestTimeout, Timeout, timeoutMessage, nil, cause)
	}
	return WrapError(StatusNoResponse, NetworkError, "request canceled", nil, cause)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// finish records the call outcome on the span and the duration histogram.
func (c *client) finish(ctx context.Context, span oteltrace.Span, method string, start time.Time, attempts, status int, e *Error) {
	span.SetAttributes(attribute.Int(attrAttempts, attempts))
	if status != StatusNoResponse {
		span.SetAttributes(attribute.Int(attrHTTPResponseStatus, status))
	}
	if e != nil {
		span.RecordError(e)
		span.SetStatus(codes.Error, string(e.Code))
	}
	c.metrics.recordDuration(ctx, method, status, e, time.Since(start))
}

// validateRequest checks the request before any attempt is made
func validateRequest(req *Request) *Error {
	if req == nil {
		return validationError("request cannot be nil", nil)
	}
	if req.URL == "" {
		return validationError("URL cannot be empty", nil)
	}
	parsed, err := url.Parse(req.URL)
	if err != nil {
		return validationError("URL is malformed", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return validationError("URL must be absolute", nil)
	}
	if _, ok := supportedMethods[strings.ToUpper(req.Method)]; !ok {
		return validationError(fmt.Sprintf("unsupported method %q", req.Method), nil)
	}
	return nil
}

// redactURL drops userinfo before the URL is recorded on spans.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.Redacted()
}

// runRequestInterceptors executes all request interceptors
func (c *client) runRequestInterceptors(ctx context.Context, req *nethttp.Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// runResponseInterceptors executes all response interceptors
func (c *client) runResponseInterceptors(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}
