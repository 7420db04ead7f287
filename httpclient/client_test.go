package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-smileid/logger"
)

const (
	testPartnerHeader = "X-Partner-ID"
	testPartnerID     = "085"
)

func newIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
		return &httptest.Server{}
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

// transportFunc adapts a function to the Transport interface
type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     http.Header{HeaderContentType: []string{testContentTypeJSON}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set(HeaderContentType, testContentTypeJSON)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{MaxRetries: retries, RetryDelay: time.Millisecond, MaxRetryDelay: 5 * time.Millisecond}
}

func newTestClient(transport Transport) Client {
	b := NewBuilder(logger.Nop())
	if transport != nil {
		b = b.WithTransport(transport)
	}
	return b.Build()
}

func TestExecuteSuccess(t *testing.T) {
	var captured http.Header
	var capturedBody map[string]any
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))
		w.Header().Set("X-Smile-Trace", "abc")
		writeJSON(w, http.StatusOK, `{"success":true,"SmileJobID":"0000001"}`)
	}))

	c := NewBuilder(logger.Nop()).
		WithDefaultHeader(testPartnerHeader, testPartnerID).
		WithDefaultHeader("Accept", "text/plain").
		Build()

	resp, err := c.Execute(context.Background(), &Request{
		Method:  http.MethodPost,
		URL:     server.URL + "/v1/upload",
		Headers: map[string]string{"accept": testContentTypeJSON},
		Body:    map[string]any{"partner_id": testPartnerID},
	}, DefaultRetryPolicy())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, map[string]any{"success": true, "SmileJobID": "0000001"}, resp.Data)
	assert.JSONEq(t, `{"success":true,"SmileJobID":"0000001"}`, string(resp.Body))
	assert.Equal(t, "abc", resp.Headers.Get("X-Smile-Trace"))
	assert.Equal(t, 1, resp.Stats.Attempts)
	assert.Positive(t, resp.Stats.CallCount)

	assert.Equal(t, testContentTypeJSON, captured.Get(HeaderContentType))
	assert.Equal(t, testPartnerID, captured.Get(testPartnerHeader))
	assert.Equal(t, testContentTypeJSON, captured.Get("Accept"), "request headers override defaults case-insensitively")
	assert.NotEmpty(t, captured.Get(HeaderXRequestID))
	assert.Regexp(t, `^00-[0-9a-f]{32}-[0-9a-f]{16}-0[01]$`, captured.Get(HeaderTraceParent))
	assert.Equal(t, map[string]any{"partner_id": testPartnerID}, capturedBody)
}

func TestExecuteRetryCeiling(t *testing.T) {
	var calls atomic.Int32
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{"message":"Internal server error"}`)
	}))

	resp, err := newTestClient(nil).Execute(context.Background(),
		&Request{Method: http.MethodGet, URL: server.URL}, fastPolicy(2))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, int32(3), calls.Load())

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, RequestFailed, e.Code)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.Equal(t, "Internal server error", e.Message)
	assert.Equal(t, map[string]any{"message": "Internal server error"}, e.Data)
	assert.True(t, IsCode(err, InternalServerError))
}

func TestExecuteNoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, `{"message":"Missing user_id","code":"2213"}`)
	}))

	_, err := newTestClient(nil).Execute(context.Background(),
		&Request{Method: http.MethodPost, URL: server.URL, Body: map[string]string{}}, fastPolicy(3))

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, IsCode(err, BadRequest))
	assert.True(t, IsCode(err, RequestFailed))

	e, _ := AsError(err)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "Missing user_id", e.Message)
}

func TestExecuteSuccessShortCircuits(t *testing.T) {
	var calls atomic.Int32
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusServiceUnavailable, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"job_complete":true}`)
	}))

	resp, err := newTestClient(nil).Execute(context.Background(),
		&Request{Method: http.MethodGet, URL: server.URL}, fastPolicy(5))

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, resp.Stats.Attempts)
	assert.Equal(t, map[string]any{"job_complete": true}, resp.Data)
}

func TestExecuteTimeout(t *testing.T) {
	var calls atomic.Int32
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeJSON(w, http.StatusOK, `{}`)
	}))

	t.Run("single attempt", func(t *testing.T) {
		calls.Store(0)
		_, err := newTestClient(nil).Execute(context.Background(),
			&Request{Method: http.MethodGet, URL: server.URL, Timeout: 30 * time.Millisecond}, fastPolicy(0))

		require.Error(t, err)
		e, _ := AsError(err)
		assert.Equal(t, RequestFailed, e.Code)
		assert.Equal(t, http.StatusRequestTimeout, e.Status)
		assert.Equal(t, "Request timeout", e.Message)
		assert.True(t, IsCode(err, Timeout))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("timeouts are retried", func(t *testing.T) {
		calls.Store(0)
		_, err := newTestClient(nil).Execute(context.Background(),
			&Request{Method: http.MethodGet, URL: server.URL, Timeout: 30 * time.Millisecond}, fastPolicy(1))

		require.Error(t, err)
		assert.True(t, IsCode(err, Timeout))
		assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 10*time.Millisecond)
	})

	t.Run("client default timeout applies", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).WithTimeout(30 * time.Millisecond).Build()
		_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: server.URL}, fastPolicy(0))
		assert.True(t, IsCode(err, Timeout))
	})
}

func TestExecuteNetworkErrors(t *testing.T) {
	t.Run("connection failures are retried", func(t *testing.T) {
		var calls atomic.Int32
		transport := transportFunc(func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return nil, errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
		})

		_, err := newTestClient(transport).Execute(context.Background(),
			&Request{Method: http.MethodGet, URL: "https://api.smileidentity.com/v1/ping"}, fastPolicy(2))

		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
		e, _ := AsError(err)
		assert.Equal(t, StatusNoResponse, e.Status)
		assert.True(t, IsCode(err, NetworkError))
		assert.Contains(t, e.Message, "connection refused")
	})

	t.Run("unknown host is not retried", func(t *testing.T) {
		var calls atomic.Int32
		transport := transportFunc(func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return nil, errors.New("lookup api.invalid: no such host")
		})

		_, err := newTestClient(transport).Execute(context.Background(),
			&Request{Method: http.MethodGet, URL: "https://api.invalid/v1"}, fastPolicy(2))

		assert.True(t, IsCode(err, NetworkError))
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestExecuteCustomShouldRetry(t *testing.T) {
	var calls atomic.Int32
	transport := transportFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
	})

	policy := fastPolicy(4)
	var seen []Code
	policy.ShouldRetry = func(e *Error) bool {
		seen = append(seen, e.Code)
		return len(seen) < 2
	}

	_, err := newTestClient(transport).Execute(context.Background(),
		&Request{Method: http.MethodGet, URL: "https://api.smileidentity.com/v1"}, policy)

	assert.True(t, IsCode(err, ServiceUnavailable))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []Code{ServiceUnavailable, ServiceUnavailable}, seen)
}

func TestExecuteCancellation(t *testing.T) {
	t.Run("during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32
		transport := transportFunc(func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			cancel()
			return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
		})

		start := time.Now()
		_, err := newTestClient(transport).Execute(ctx,
			&Request{Method: http.MethodGet, URL: "https://api.smileidentity.com/v1"},
			RetryPolicy{MaxRetries: 3, RetryDelay: time.Hour, MaxRetryDelay: time.Hour})

		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, int32(1), calls.Load())
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, IsCode(err, RequestFailed))
		assert.True(t, IsCode(err, ServiceUnavailable))
	})

	t.Run("during attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			cancel()
			<-r.Context().Done()
			w.WriteHeader(http.StatusOK)
		}))

		_, err := newTestClient(nil).Execute(ctx, &Request{Method: http.MethodGet, URL: server.URL}, fastPolicy(3))

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("caller deadline is a timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		transport := transportFunc(func(r *http.Request) (*http.Response, error) {
			<-r.Context().Done()
			return nil, r.Context().Err()
		})

		_, err := newTestClient(transport).Execute(ctx,
			&Request{Method: http.MethodGet, URL: "https://api.smileidentity.com/v1"}, fastPolicy(3))

		assert.True(t, IsCode(err, Timeout))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestExecuteValidation(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(transportFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusOK, `{}`), nil
	}))

	tests := []struct {
		name string
		req  *Request
	}{
		{"nil request", nil},
		{"empty url", &Request{Method: http.MethodGet}},
		{"relative url", &Request{Method: http.MethodGet, URL: "/v1/upload"}},
		{"malformed url", &Request{Method: http.MethodGet, URL: "http://[::1"}},
		{"unsupported method", &Request{Method: "TRACE", URL: "https://api.smileidentity.com"}},
		{"unencodable body", &Request{Method: http.MethodPost, URL: "https://api.smileidentity.com", Body: func() {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Execute(context.Background(), tt.req, DefaultRetryPolicy())
			require.Error(t, err)
			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, BadRequest, e.Code)
			assert.Equal(t, http.StatusBadRequest, e.Status)
			assert.False(t, IsCode(err, RequestFailed))
		})
	}
	assert.Zero(t, calls.Load())
}

func TestExecuteLowercaseMethod(t *testing.T) {
	var method string
	c := newTestClient(transportFunc(func(r *http.Request) (*http.Response, error) {
		method = r.Method
		return jsonResponse(http.StatusOK, `{}`), nil
	}))

	_, err := c.Execute(context.Background(), &Request{Method: "post", URL: "https://api.smileidentity.com"}, fastPolicy(0))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
}

func TestExecuteDoesNotMutateRequest(t *testing.T) {
	c := NewBuilder(logger.Nop()).
		WithTransport(transportFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{}`), nil
		})).
		WithRequestInterceptor(func(_ context.Context, r *http.Request) error {
			r.Header.Set("X-Intercepted", "true")
			return nil
		}).
		Build()

	req := &Request{Method: "get", URL: "https://api.smileidentity.com", Headers: map[string]string{"A": "1"}}
	_, err := c.Execute(context.Background(), req, fastPolicy(0))
	require.NoError(t, err)

	assert.Equal(t, "get", req.Method)
	assert.Equal(t, map[string]string{"A": "1"}, req.Headers)
}

func TestExecuteBodyDecoding(t *testing.T) {
	t.Run("text error body", func(t *testing.T) {
		c := newTestClient(transportFunc(func(*http.Request) (*http.Response, error) {
			resp := jsonResponse(http.StatusBadGateway, "upstream down")
			resp.Header.Set(HeaderContentType, "text/plain")
			return resp, nil
		}))

		_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(0))
		e, _ := AsError(err)
		assert.Equal(t, "HTTP 502", e.Message)
		assert.Equal(t, "upstream down", e.Data)
		assert.True(t, IsCode(err, BadGateway))
	})

	t.Run("malformed json is lenient by default", func(t *testing.T) {
		c := newTestClient(transportFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"job_complete":`), nil
		}))

		resp, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(0))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, resp.Data)
	})

	t.Run("malformed json error body keeps status", func(t *testing.T) {
		c := newTestClient(transportFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusServiceUnavailable, `{bad`), nil
		}))

		_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(0))
		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusServiceUnavailable, e.Status)
		assert.Equal(t, "HTTP 503", e.Message)
		assert.Equal(t, map[string]any{}, e.Data)
		assert.True(t, IsCode(err, ServiceUnavailable))
	})

	t.Run("strict decoding surfaces malformed json", func(t *testing.T) {
		var calls atomic.Int32
		c := NewBuilder(logger.Nop()).
			WithStrictDecoding(true).
			WithTransport(transportFunc(func(*http.Request) (*http.Response, error) {
				calls.Add(1)
				return jsonResponse(http.StatusOK, `{"job_complete":`), nil
			})).
			Build()

		_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(3))
		require.Error(t, err)
		assert.True(t, IsCode(err, Unknown))
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestExecuteInterceptors(t *testing.T) {
	t.Run("request interceptor failure is final", func(t *testing.T) {
		var calls atomic.Int32
		c := NewBuilder(logger.Nop()).
			WithTransport(transportFunc(func(*http.Request) (*http.Response, error) {
				calls.Add(1)
				return jsonResponse(http.StatusOK, `{}`), nil
			})).
			WithRequestInterceptor(func(context.Context, *http.Request) error {
				return errors.New("signing unavailable")
			}).
			Build()

		_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(3))
		require.Error(t, err)
		assert.True(t, IsCode(err, Unknown))
		assert.Zero(t, calls.Load())
		assert.ErrorContains(t, err, "signing unavailable")
	})

	t.Run("response interceptor sees every attempt", func(t *testing.T) {
		var seen atomic.Int32
		c := NewBuilder(logger.Nop()).
			WithTransport(transportFunc(func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, `{}`), nil
			})).
			WithResponseInterceptor(func(_ context.Context, _ *http.Request, resp *http.Response) error {
				seen.Add(1)
				assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
				return nil
			}).
			Build()

		_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(2))
		assert.True(t, IsCode(err, RateLimitExceeded))
		assert.Equal(t, int32(3), seen.Load())
	})
}

func TestExecuteRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := NewBuilder(logger.Nop()).
		WithRateLimit(1000, 5).
		WithTransport(transportFunc(func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return jsonResponse(http.StatusOK, `{}`), nil
		})).
		Build()

	_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Execute(ctx, &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExecuteConcurrentCalls(t *testing.T) {
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"job_id":%q}`, r.URL.Query().Get("job_id")))
	}))
	c := newTestClient(nil)

	const workers = 20
	var wg sync.WaitGroup
	counts := make([]int64, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := Get(context.Background(), c, fmt.Sprintf("%s/?job_id=job-%d", server.URL, i), fastPolicy(1))
			errs[i] = err
			if err == nil {
				counts[i] = resp.Stats.CallCount
				assert.Equal(t, map[string]any{"job_id": fmt.Sprintf("job-%d", i)}, resp.Data)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]struct{})
	for i := range workers {
		require.NoError(t, errs[i])
		seen[counts[i]] = struct{}{}
	}
	assert.Len(t, seen, workers)
}

func TestVerbHelpers(t *testing.T) {
	type captured struct {
		method  string
		body    string
		header  string
		timeout bool
	}
	var got captured
	c := newTestClient(transportFunc(func(r *http.Request) (*http.Response, error) {
		got = captured{method: r.Method, header: r.Header.Get("X-Test")}
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			got.body = string(raw)
		}
		_, got.timeout = r.Context().Deadline()
		return jsonResponse(http.StatusOK, `{}`), nil
	}))

	ctx := context.Background()
	url := "https://api.smileidentity.com/v1/job_status"
	payload := map[string]string{"job_id": "j-1"}

	_, err := Get(ctx, c, url, fastPolicy(0), WithHeader("X-Test", "get"), WithRequestTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, captured{method: http.MethodGet, header: "get", timeout: true}, got)

	_, err = Post(ctx, c, url, payload, fastPolicy(0))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, got.method)
	assert.JSONEq(t, `{"job_id":"j-1"}`, got.body)

	_, err = Put(ctx, c, url, payload, fastPolicy(0))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.method)

	_, err = Patch(ctx, c, url, payload, fastPolicy(0))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, got.method)

	_, err = Delete(ctx, c, url, fastPolicy(0), WithHeader("X-Test", "delete"))
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "delete", got.header)
	assert.Empty(t, got.body)
}

func TestBuildCopiesConfig(t *testing.T) {
	var seen http.Header
	b := NewBuilder(logger.Nop()).
		WithDefaultHeader("X-Partner", "085").
		WithTransport(transportFunc(func(req *http.Request) (*http.Response, error) {
			seen = req.Header.Clone()
			return jsonResponse(http.StatusOK, `{}`), nil
		}))
	c := b.Build()

	var intercepted atomic.Int32
	b.WithDefaultHeader("X-Partner", "999").
		WithDefaultHeader("X-Extra", "1").
		WithRequestInterceptor(func(context.Context, *http.Request) error {
			intercepted.Add(1)
			return nil
		})

	_, err := c.Execute(context.Background(), &Request{Method: http.MethodGet, URL: "https://api.smileidentity.com"}, fastPolicy(0))
	require.NoError(t, err)
	assert.Equal(t, "085", seen.Get("X-Partner"))
	assert.Empty(t, seen.Get("X-Extra"))
	assert.Zero(t, intercepted.Load())

	impl := c.(*client)
	assert.Equal(t, map[string]string{"X-Partner": "085"}, impl.config.DefaultHeaders)
}

func TestNewClient(t *testing.T) {
	c := NewClient(nil)
	require.NotNil(t, c)
	impl := c.(*client)
	assert.Equal(t, DefaultTimeout, impl.config.Timeout)
	assert.Nil(t, impl.limiter)
	assert.IsType(t, &http.Client{}, impl.transport)
}
