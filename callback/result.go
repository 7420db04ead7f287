package callback

import (
	"context"

	"github.com/gaborage/go-smileid/smileid"
)

// Result is a signed job result delivered to the callback URL.
type Result struct {
	smileid.JobResult
	Signature string            `json:"signature"`
	Timestamp smileid.Timestamp `json:"timestamp"`

	// Raw is the full decoded payload
	Raw map[string]any `json:"-"`
}

// Handler processes verified results. A returned error is reported to Smile Identity as a 500.
type Handler interface {
	HandleResult(ctx context.Context, result *Result) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, result *Result) error

// HandleResult calls f.
func (f HandlerFunc) HandleResult(ctx context.Context, result *Result) error {
	return f(ctx, result)
}
