package httpclient

import (
	nethttp "net/http"
	"time"
)

// logRequest logs the outgoing attempt, plus a debug payload event when enabled
func (c *client) logRequest(req *nethttp.Request, body []byte, requestID string) {
	event := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID)
	if len(req.Header) > 0 {
		event = event.Int("header_count", len(req.Header))
	}
	if len(body) > 0 {
		event = event.Int("body_size", len(body))
	}
	event.Msg("REST client request")

	if !c.config.LogPayloads {
		return
	}
	preview, truncated := c.payloadPreview(body)
	c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("request_id", requestID).
		Interface("headers", req.Header).
		Int("body_size", len(body)).
		Str("body_truncated", truncated).
		Bytes("body_preview", preview).
		Msg("REST client request")
}

// logResponse logs a received response, plus a debug payload event when enabled
func (c *client) logResponse(resp *Response, requestID string) {
	event := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount).
		Str("request_id", requestID)
	if len(resp.Body) > 0 {
		event = event.Int("body_size", len(resp.Body))
	}
	event.Msg("REST client response")

	if !c.config.LogPayloads {
		return
	}
	preview, truncated := c.payloadPreview(resp.Body)
	c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Interface("headers", resp.Headers).
		Int("body_size", len(resp.Body)).
		Str("body_truncated", truncated).
		Bytes("body_preview", preview).
		Msg("REST client response")
}

// logRetry logs a failed attempt that will be retried after delay
func (c *client) logRetry(requestID string, attempt int, delay time.Duration, e *Error) {
	c.logger.Warn().
		Str("request_id", requestID).
		Int("attempt", attempt).
		Int("status", e.Status).
		Str("code", string(e.Code)).
		Str("reason", e.Message).
		Dur("delay", delay).
		Msg("REST client retry scheduled")
}

// logFailure logs the terminal error of a call
func (c *client) logFailure(req *Request, e *Error, attempts int, elapsed time.Duration) {
	c.logger.Error().
		Err(e).
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", e.Status).
		Int("attempts", attempts).
		Dur("elapsed", elapsed).
		Msg("REST client request failed")
}

func (c *client) payloadPreview(body []byte) ([]byte, string) {
	limit := c.config.MaxPayloadLogBytes
	if limit <= 0 {
		limit = DefaultMaxPayloadLogBytes
	}
	if len(body) > limit {
		return body[:limit], "true"
	}
	return body, "false"
}
