package httpclient

import (
	"context"
	nethttp "net/http"
	"time"
)

// RequestOption adjusts a Request built by the verb helpers.
type RequestOption func(*Request)

// WithHeader sets a request header
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithRequestTimeout overrides the client's per-attempt timeout for one request
func WithRequestTimeout(timeout time.Duration) RequestOption {
	return func(r *Request) {
		r.Timeout = timeout
	}
}

func newRequest(method, url string, body any, opts []RequestOption) *Request {
	req := &Request{Method: method, URL: url, Body: body}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// Get performs a GET request
func Get(ctx context.Context, c Client, url string, policy RetryPolicy, opts ...RequestOption) (*Response, error) {
	return c.Execute(ctx, newRequest(nethttp.MethodGet, url, nil, opts), policy)
}

// Post performs a POST request with a JSON body
func Post(ctx context.Context, c Client, url string, body any, policy RetryPolicy, opts ...RequestOption) (*Response, error) {
	return c.Execute(ctx, newRequest(nethttp.MethodPost, url, body, opts), policy)
}

// Put performs a PUT request with a JSON body
func Put(ctx context.Context, c Client, url string, body any, policy RetryPolicy, opts ...RequestOption) (*Response, error) {
	return c.Execute(ctx, newRequest(nethttp.MethodPut, url, body, opts), policy)
}

// Patch performs a PATCH request with a JSON body
func Patch(ctx context.Context, c Client, url string, body any, policy RetryPolicy, opts ...RequestOption) (*Response, error) {
	return c.Execute(ctx, newRequest(nethttp.MethodPatch, url, body, opts), policy)
}

// Delete performs a DELETE request
func Delete(ctx context.Context, c Client, url string, policy RetryPolicy, opts ...RequestOption) (*Response, error) {
	return c.Execute(ctx, newRequest(nethttp.MethodDelete, url, nil, opts), policy)
}
