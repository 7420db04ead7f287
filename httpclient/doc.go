// Package httpclient executes HTTP calls against the Smile Identity API with
// bounded retries, exponential backoff and a per-attempt timeout, and
// normalizes every failure into an *Error.
//
// Retries
//   - Controlled per call via RetryPolicy. Up to MaxRetries+1 attempts are made.
//   - By default an attempt is retried when its status is 408, 429, 500, 502,
//     503 or 504, or when its message mentions a timeout, network, connection,
//     server error, gateway or service unavailable condition.
//   - RetryPolicy.ShouldRetry replaces that classification.
//   - Interceptor failures, client rate limit failures and caller cancellation
//     are never retried.
//
// Backoff Strategy
//   - delay = min(RetryDelay * 2^attempt, MaxRetryDelay), no jitter.
//   - The wait observes the caller's context.
//
// Errors
//   - Transport failures become TIMEOUT (408) or NETWORK_ERROR (0).
//   - Non-2xx responses are classified by status; the message is the body's
//     "message" field or "HTTP <status>".
//   - When retries stop, the last error is wrapped as HTTP_REQUEST_FAILED.
//     IsCode matches both the wrapper and the wrapped attempt error.
//   - Invalid requests fail with BAD_REQUEST before the transport is used.
//
// Notes
//   - Request bodies are re-sent by rebuilding the http.Request on each attempt.
//   - Each attempt carries X-Request-ID and W3C traceparent headers.
package httpclient
