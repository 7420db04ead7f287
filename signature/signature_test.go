package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPartnerID = "085"
	testSecret    = "a6f1c2e0-api-key"
	testTimestamp = int64(1700000000)
)

func referenceSignature(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignAtMatchesReferenceHMAC(t *testing.T) {
	pair := SignAt(testPartnerID, testSecret, testTimestamp)

	assert.Equal(t, testTimestamp, pair.Timestamp)
	assert.Equal(t, referenceSignature(testSecret, "085:1700000000"), pair.Signature)
	assert.Len(t, pair.Signature, 64)
	assert.Equal(t, strings.ToLower(pair.Signature), pair.Signature)
	assert.Equal(t, "1700000000", pair.TimestampString())
}

func TestSignIsDeterministic(t *testing.T) {
	inputs := []struct {
		partnerID string
		secret    string
		timestamp int64
	}{
		{testPartnerID, testSecret, testTimestamp},
		{"", "", 0},
		{"partner", "", 1},
		{"", "secret", -5},
		{"ünïcødé", "κλειδί", 1234567890},
	}

	for _, in := range inputs {
		first := SignAt(in.partnerID, in.secret, in.timestamp)
		second := SignAt(in.partnerID, in.secret, in.timestamp)
		assert.Equal(t, first, second)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	for _, ts := range []int64{0, 1, testTimestamp, 4102444800} {
		pair := SignAt(testPartnerID, testSecret, ts)
		result := Verify(ts, pair.Signature, testPartnerID, testSecret)

		assert.True(t, result.Valid)
		assert.Equal(t, MessageValid, result.Message)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	pair := SignAt(testPartnerID, testSecret, testTimestamp)

	tests := []struct {
		name      string
		timestamp int64
		partnerID string
		secret    string
	}{
		{name: "timestamp changed", timestamp: testTimestamp + 1, partnerID: testPartnerID, secret: testSecret},
		{name: "partner changed", timestamp: testTimestamp, partnerID: "086", secret: testSecret},
		{name: "secret changed", timestamp: testTimestamp, partnerID: testPartnerID, secret: testSecret + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Verify(tt.timestamp, pair.Signature, tt.partnerID, tt.secret)
			assert.False(t, result.Valid)
			assert.Equal(t, MessageInvalid, result.Message)
		})
	}
}

func TestVerifyMalformedSignature(t *testing.T) {
	for _, sig := range []string{"", "not-hex", strings.Repeat("0", 64), "ABCDEF"} {
		result := Verify(testTimestamp, sig, testPartnerID, testSecret)
		assert.False(t, result.Valid, "signature %q", sig)
	}
}

func TestVerifyIsCaseSensitive(t *testing.T) {
	pair := SignAt(testPartnerID, testSecret, testTimestamp)
	result := Verify(testTimestamp, strings.ToUpper(pair.Signature), testPartnerID, testSecret)
	assert.False(t, result.Valid)
}

func TestEngineUsesClock(t *testing.T) {
	frozen := time.Unix(testTimestamp, 999_000_000)
	engine := NewEngine(FixedClock(frozen))

	pair := engine.Sign(testPartnerID, testSecret)

	assert.Equal(t, testTimestamp, pair.Timestamp, "sub-second part is truncated")
	assert.Equal(t, SignAt(testPartnerID, testSecret, testTimestamp), pair)
	assert.Equal(t, frozen, engine.Now())
}

func TestZeroEngineUsesSystemClock(t *testing.T) {
	var engine Engine
	before := time.Now().Unix()
	pair := engine.Sign(testPartnerID, testSecret)
	after := time.Now().Unix()

	assert.GreaterOrEqual(t, pair.Timestamp, before)
	assert.LessOrEqual(t, pair.Timestamp, after)
	assert.True(t, engine.Verify(pair.Timestamp, pair.Signature, testPartnerID, testSecret).Valid)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "085:1700000000", Message("085", 1700000000))
	assert.Equal(t, ":0", Message("", 0))
	assert.Equal(t, "p:-1", Message("p", -1))
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp(" 1700000000 ")
	require.NoError(t, err)
	assert.Equal(t, testTimestamp, ts)

	_, err = ParseTimestamp("")
	assert.Error(t, err)

	_, err = ParseTimestamp("2024-01-01T00:00:00Z")
	assert.Error(t, err)
}

func TestIsFresh(t *testing.T) {
	now := time.Unix(testTimestamp, 0)

	assert.True(t, IsFresh(testTimestamp, now, time.Minute))
	assert.True(t, IsFresh(testTimestamp-60, now, time.Minute))
	assert.True(t, IsFresh(testTimestamp+60, now, time.Minute))
	assert.False(t, IsFresh(testTimestamp-61, now, time.Minute))
	assert.False(t, IsFresh(testTimestamp+61, now, time.Minute))
	assert.True(t, IsFresh(0, now, 0), "non-positive skew disables the check")
}
