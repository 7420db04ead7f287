package httpclient

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// encodeBody serializes a request body. []byte and json.RawMessage pass through.
func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		return json.Marshal(body)
	}
}

// decodeBody decodes a response body according to its content type:
// JSON into map/slice values, text/* into a string, anything else to nil.
// Malformed JSON yields an empty object unless strict is set, in which case
// the decode error is returned alongside a nil value.
func decodeBody(contentType string, body []byte, strict bool) (any, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		if len(body) == 0 {
			return map[string]any{}, nil
		}
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			if strict {
				return nil, fmt.Errorf("malformed JSON body: %w", err)
			}
			return map[string]any{}, nil
		}
		return data, nil
	case strings.Contains(ct, "text/"):
		return string(body), nil
	default:
		return nil, nil
	}
}

// messageFrom returns the payload's "message" field, or "HTTP <status>".
func messageFrom(data any, status int) string {
	if m, ok := data.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return "HTTP " + strconv.Itoa(status)
}

// statusText strips the numeric prefix from an http.Response Status.
func statusText(status string, code int) string {
	return strings.TrimPrefix(status, strconv.Itoa(code)+" ")
}
