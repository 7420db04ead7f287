package smileid

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-smileid/httpclient"
	"github.com/gaborage/go-smileid/testing/fixtures"
)

func TestUtilitiesGetJobStatusVerifiesSignature(t *testing.T) {
	svc, rec := newTestService(t, jsonReply(http.StatusOK, fixtures.JobStatus(map[string]any{"ConfidenceValue": "99"})))

	resp, err := svc.Utilities.GetJobStatus(context.Background(), "user-001", "job-001", nil)
	require.NoError(t, err)
	assert.True(t, resp.JobComplete)
	assert.Equal(t, Timestamp("1700000000"), resp.Timestamp)
	assert.Equal(t, "99", resp.Raw["ConfidenceValue"])
	assert.Equal(t, "/v1/job_status", rec.only(t).Path)
}

func TestUtilitiesGetJobStatusSignatureChecks(t *testing.T) {
	sig := fixtures.Signature()
	tests := []struct {
		name    string
		payload map[string]any
		wantErr bool
	}{
		{"numeric timestamp", fixtures.JobStatus(map[string]any{"timestamp": sig.Timestamp}), false},
		{"no signature", fixtures.JobStatus(map[string]any{"signature": nil}), false},
		{"no timestamp", fixtures.JobStatus(map[string]any{"timestamp": ""}), false},
		{"tampered signature", fixtures.JobStatus(map[string]any{"signature": strings.Repeat("0", 64)}), true},
		{"shifted timestamp", fixtures.JobStatus(map[string]any{"timestamp": "1700000001"}), true},
		{"unparseable timestamp", fixtures.JobStatus(map[string]any{"timestamp": "2023-11-14T22:13:20Z"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, jsonReply(http.StatusOK, tt.payload))

			resp, err := svc.Utilities.GetJobStatus(context.Background(), "user-001", "job-001", nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSignature)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, resp)
		})
	}
}

func TestUtilitiesVerifyResponse(t *testing.T) {
	svc := New(fixtures.Config("https://testapi.smileidentity.com/v1"))
	sig := fixtures.Signature()

	assert.NoError(t, svc.Utilities.VerifyResponse(sig.Signature, Timestamp(sig.TimestampString())))
	assert.NoError(t, svc.Utilities.VerifyResponse("", ""))
	assert.ErrorIs(t, svc.Utilities.VerifyResponse("bad", Timestamp(sig.TimestampString())), ErrInvalidSignature)
}

func TestUtilitiesGetJobStatusRetriesTransientFailures(t *testing.T) {
	payload := fixtures.JSON(t, fixtures.JobStatus(nil))
	svc, rec := newTestService(t, func(w http.ResponseWriter, _ *http.Request, n int) {
		if n == 1 {
			fixtures.WriteJSON(w, http.StatusServiceUnavailable, []byte(`{"message":"service unavailable"}`))
			return
		}
		fixtures.WriteJSON(w, http.StatusOK, payload)
	})

	resp, err := svc.Utilities.GetJobStatus(context.Background(), "user-001", "job-001", nil)
	require.NoError(t, err)
	assert.True(t, resp.JobSuccess)
	assert.Len(t, rec.all(), 2)
}

func TestUtilitiesGetJobStatusExhaustsRetries(t *testing.T) {
	svc, rec := newTestService(t, jsonReply(http.StatusInternalServerError, map[string]any{"message": "boom"}))

	_, err := svc.Utilities.GetJobStatus(context.Background(), "user-001", "job-001", nil)
	require.Error(t, err)
	assert.True(t, httpclient.IsCode(err, httpclient.RequestFailed))
	assert.True(t, httpclient.IsCode(err, httpclient.InternalServerError))
	assert.Len(t, rec.all(), 3, "max 2 retries means 3 attempts")
}

func TestGetJobStatuses(t *testing.T) {
	var inFlight, peak atomic.Int32
	payload := fixtures.JSON(t, fixtures.JobStatus(nil))
	svc, rec := newTestService(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		fixtures.WriteJSON(w, http.StatusOK, payload)
	})

	jobs := []JobRef{
		{UserID: "u1", JobID: "j1"},
		{UserID: "u2", JobID: "j2"},
		{UserID: "u3", JobID: "j3"},
		{UserID: "u4", JobID: "j4"},
		{UserID: "u5", JobID: "j5"},
	}
	results, err := svc.Utilities.GetJobStatuses(context.Background(), jobs, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for _, r := range results {
		require.NotNil(t, r)
		assert.True(t, r.JobComplete)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))

	seen := map[string]bool{}
	for _, req := range rec.all() {
		seen[req.Body["job_id"].(string)] = true
	}
	assert.Len(t, seen, len(jobs))
}

func TestGetJobStatusesFailsFast(t *testing.T) {
	payload := fixtures.JSON(t, fixtures.JobStatus(nil))
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request, _ int) {
		if strings.Contains(readJobID(r), "bad") {
			fixtures.WriteJSON(w, http.StatusNotFound, []byte(`{"message":"job not found"}`))
			return
		}
		fixtures.WriteJSON(w, http.StatusOK, payload)
	})

	results, err := svc.Utilities.GetJobStatuses(context.Background(), []JobRef{
		{UserID: "u1", JobID: "j1"},
		{UserID: "u2", JobID: "bad-job"},
	}, 0, nil)
	assert.Nil(t, results)
	assert.ErrorContains(t, err, "job bad-job")
	assert.True(t, httpclient.IsCode(err, httpclient.NotFound))
}

func TestGetJobStatusesEmpty(t *testing.T) {
	svc := New(fixtures.Config("https://testapi.smileidentity.com/v1"))
	results, err := svc.Utilities.GetJobStatuses(context.Background(), nil, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
