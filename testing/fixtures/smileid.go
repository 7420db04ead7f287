// Package fixtures provides credentials, signed payloads and servers for SDK tests.
package fixtures

import (
	"context"
	"encoding/json"
	"maps"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gaborage/go-smileid/config"
	"github.com/gaborage/go-smileid/signature"
)

// Partner credentials used across tests
const (
	PartnerID = "085"
	APIKey    = "test-api-key"
	// Timestamp is the frozen signing time returned by Clock
	Timestamp int64 = 1700000000
)

// Clock returns a clock frozen at Timestamp.
func Clock() signature.Clock {
	return signature.FixedClock(time.Unix(Timestamp, 0))
}

// Signature returns the signature for PartnerID and APIKey at Timestamp.
func Signature() signature.Pair {
	return signature.SignAt(PartnerID, APIKey, Timestamp)
}

// Config returns a SmileID configuration pointing at baseURL with fast retries.
func Config(baseURL string) config.SmileIDConfig {
	return config.SmileIDConfig{
		PartnerID: PartnerID,
		APIKey:    APIKey,
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
		Retry: config.RetryConfig{
			Max:      2,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
		},
		Source: config.SourceConfig{SDK: "go", Version: "1.0.0"},
	}
}

// JobStatus returns a completed job status payload signed with PartnerID and APIKey.
// Entries in overrides replace or extend the payload.
func JobStatus(overrides map[string]any) map[string]any {
	sig := Signature()
	payload := map[string]any{
		"job_complete": true,
		"job_success":  true,
		"result": map[string]any{
			"ResultCode": "1012",
			"ResultText": "Validated ID",
			"ResultType": "ID Verification",
			"SmileJobID": "0000000111",
			"PartnerParams": map[string]any{
				"user_id":  "user-001",
				"job_id":   "job-001",
				"job_type": 5,
			},
		},
		"signature": sig.Signature,
		"timestamp": strconv.FormatInt(sig.Timestamp, 10),
	}
	maps.Copy(payload, overrides)
	return payload
}

// JSON encodes v and fails the test on error.
func JSON(t testing.TB, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return data
}

// WriteJSON writes status and body as an application/json response.
func WriteJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// NewIPv4Server starts an httptest server on 127.0.0.1, skipping the test when
// no IPv4 listener is available.
func NewIPv4Server(t testing.TB, handler http.Handler) *httptest.Server {
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
