// Package signature computes and verifies the time-bound HMAC signatures used to
// authenticate partner requests and responses.
//
// The signed message is "<partnerID>:<timestamp>" where timestamp is a decimal
// count of seconds since the Unix epoch. The signature is the lowercase hex
// encoding of HMAC-SHA256 keyed by the partner's shared secret. The message
// format is a fixed wire contract shared with the remote service.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MessageValid is reported by Verify when the signature matches
	MessageValid = "Signature is valid"
	// MessageInvalid is reported by Verify when the signature does not match
	MessageInvalid = "Signature is invalid"
)

// Pair holds a signature together with the timestamp it was computed for.
type Pair struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
}

// TimestampString returns the timestamp in the decimal form used on the wire.
func (p Pair) TimestampString() string {
	return strconv.FormatInt(p.Timestamp, 10)
}

// Result is the outcome of a signature verification.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Engine signs and verifies partner signatures.
// The zero value is usable and reads the system clock.
type Engine struct {
	clock Clock
}

// NewEngine creates an Engine that takes the current time from clock.
// A nil clock falls back to SystemClock.
func NewEngine(clock Clock) *Engine {
	return &Engine{clock: clock}
}

// Sign computes a signature for partnerID stamped with the current time in whole seconds.
func (e *Engine) Sign(partnerID, secret string) Pair {
	return e.SignAt(partnerID, secret, e.now().Unix())
}

// SignAt computes a signature for partnerID at an explicit timestamp.
// Identical inputs always produce identical output.
func (e *Engine) SignAt(partnerID, secret string, timestamp int64) Pair {
	mac := hmac.New(sha256.New, []byte(secret))
	// hash.Hash.Write never returns an error
	_, _ = mac.Write([]byte(Message(partnerID, timestamp)))

	return Pair{
		Signature: hex.EncodeToString(mac.Sum(nil)),
		Timestamp: timestamp,
	}
}

// Verify recomputes the signature for partnerID at timestamp and compares it
// with the supplied one. A malformed signature simply fails to match.
func (e *Engine) Verify(timestamp int64, signature, partnerID, secret string) Result {
	expected := e.SignAt(partnerID, secret, timestamp)
	if hmac.Equal([]byte(expected.Signature), []byte(signature)) {
		return Result{Valid: true, Message: MessageValid}
	}
	return Result{Valid: false, Message: MessageInvalid}
}

// Now returns the engine's notion of the current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) now() time.Time {
	if e == nil || e.clock == nil {
		return time.Now()
	}
	return e.clock.Now()
}

// Message builds the canonical signed message.
func Message(partnerID string, timestamp int64) string {
	return partnerID + ":" + strconv.FormatInt(timestamp, 10)
}

var defaultEngine = &Engine{}

// Sign signs with the system clock.
func Sign(partnerID, secret string) Pair {
	return defaultEngine.Sign(partnerID, secret)
}

// SignAt signs at an explicit timestamp.
func SignAt(partnerID, secret string, timestamp int64) Pair {
	return defaultEngine.SignAt(partnerID, secret, timestamp)
}

// Verify checks a signature against partnerID and secret at timestamp.
func Verify(timestamp int64, signature, partnerID, secret string) Result {
	return defaultEngine.Verify(timestamp, signature, partnerID, secret)
}

// ParseTimestamp parses a decimal wire timestamp.
func ParseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("timestamp is empty")
	}
	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return ts, nil
}

// IsFresh reports whether timestamp lies within maxSkew of now in either direction.
// A non-positive maxSkew disables the check.
func IsFresh(timestamp int64, now time.Time, maxSkew time.Duration) bool {
	if maxSkew <= 0 {
		return true
	}
	delta := now.Sub(time.Unix(timestamp, 0))
	if delta < 0 {
		delta = -delta
	}
	return delta <= maxSkew
}
