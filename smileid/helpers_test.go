package smileid

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-smileid/testing/fixtures"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) add(t *testing.T, req *http.Request) int {
	t.Helper()
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	req.Body = io.NopCloser(bytes.NewReader(raw))

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	return len(r.requests)
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func (r *recorder) only(t *testing.T) recordedRequest {
	t.Helper()
	reqs := r.all()
	require.Len(t, reqs, 1)
	return reqs[0]
}

// respondFunc answers the n-th request (1-based).
type respondFunc func(w http.ResponseWriter, r *http.Request, n int)

func jsonReply(status int, body any) respondFunc {
	return func(w http.ResponseWriter, _ *http.Request, _ int) {
		data, _ := json.Marshal(body)
		fixtures.WriteJSON(w, status, data)
	}
}

// newTestService starts a server answering with respond and returns a Service
// pointed at it under the /v1 prefix.
func newTestService(t *testing.T, respond respondFunc, opts ...Option) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := fixtures.NewIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := rec.add(t, r)
		respond(w, r, n)
	}))

	opts = append([]Option{WithClock(fixtures.Clock())}, opts...)
	return New(fixtures.Config(srv.URL+"/v1"), opts...), rec
}

// readJobID returns the job_id of a request body left readable by recorder.add.
func readJobID(r *http.Request) string {
	var body struct {
		JobID string `json:"job_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body.JobID
}
