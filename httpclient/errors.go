package httpclient

import (
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"
)

// Code classifies a failed call. Every Error carries exactly one Code.
type Code string

const (
	BadRequest          Code = "BAD_REQUEST"
	Unauthorized        Code = "UNAUTHORIZED"
	Forbidden           Code = "FORBIDDEN"
	NotFound            Code = "NOT_FOUND"
	Conflict            Code = "CONFLICT"
	ValidationFailed    Code = "VALIDATION_ERROR"
	RateLimitExceeded   Code = "RATE_LIMIT_EXCEEDED"
	InternalServerError Code = "INTERNAL_SERVER_ERROR"
	BadGateway          Code = "BAD_GATEWAY"
	ServiceUnavailable  Code = "SERVICE_UNAVAILABLE"
	GatewayTimeout      Code = "GATEWAY_TIMEOUT"
	Timeout             Code = "TIMEOUT"
	NetworkError        Code = "NETWORK_ERROR"
	RequestFailed       Code = "HTTP_REQUEST_FAILED"
	Unknown             Code = "UNKNOWN_ERROR"
)

const (
	// StatusNoResponse is the status of errors raised before any HTTP response was received
	StatusNoResponse = 0

	timeoutMessage = "Request timeout"
	defaultMessage = "Smile Identity API error"
)

var retryableStatuses = map[int]struct{}{
	nethttp.StatusRequestTimeout:      {},
	nethttp.StatusTooManyRequests:     {},
	nethttp.StatusInternalServerError: {},
	nethttp.StatusBadGateway:          {},
	nethttp.StatusServiceUnavailable:  {},
	nethttp.StatusGatewayTimeout:      {},
}

var retryableMessages = []string{
	"timeout",
	"network",
	"connection",
	"server error",
	"gateway",
	"service unavailable",
}

// Error is the single error type returned by Client.Execute.
type Error struct {
	// Status is the HTTP status, or StatusNoResponse when the transport failed
	Status int
	Code   Code
	// Message is the remote "message" field when present, otherwise a synthesized text
	Message string
	// Data is the decoded response payload, if any
	Data  any
	cause error
}

// NewError creates an Error without a cause.
func NewError(status int, code Code, message string, data any) *Error {
	return &Error{Status: status, Code: code, Message: message, Data: data}
}

// WrapError creates an Error that unwraps to cause.
func WrapError(status int, code Code, message string, data any, cause error) *Error {
	return &Error{Status: status, Code: code, Message: message, Data: data, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (status %d): %s: %v", e.Code, e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ClassifyStatus maps an HTTP status to its Code. Unmapped statuses are Unknown.
func ClassifyStatus(status int) Code {
	switch status {
	case nethttp.StatusBadRequest:
		return BadRequest
	case nethttp.StatusUnauthorized:
		return Unauthorized
	case nethttp.StatusForbidden:
		return Forbidden
	case nethttp.StatusNotFound:
		return NotFound
	case nethttp.StatusConflict:
		return Conflict
	case nethttp.StatusUnprocessableEntity:
		return ValidationFailed
	case nethttp.StatusTooManyRequests:
		return RateLimitExceeded
	case nethttp.StatusInternalServerError:
		return InternalServerError
	case nethttp.StatusBadGateway:
		return BadGateway
	case nethttp.StatusServiceUnavailable:
		return ServiceUnavailable
	case nethttp.StatusGatewayTimeout:
		return GatewayTimeout
	default:
		return Unknown
	}
}

// AsError returns the outermost *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether any *Error in err's chain carries code. A terminal
// RequestFailed error therefore also matches the code of the attempt it wraps.
func IsCode(err error, code Code) bool {
	for err != nil {
		e, ok := AsError(err)
		if !ok {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.cause
	}
	return false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsRetryableStatus reports whether status is one the default policy retries.
func IsRetryableStatus(status int) bool {
	_, ok := retryableStatuses[status]
	return ok
}

// IsRetryable applies the default retry classification to e: a retryable
// status or a message mentioning a transient condition.
func IsRetryable(e *Error) bool {
	if e == nil {
		return false
	}
	if IsRetryableStatus(e.Status) {
		return true
	}
	msg := strings.ToLower(e.Message)
	for _, fragment := range retryableMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// FromResponse builds an Error from a decoded error payload using its
// message, status, code and data fields. Missing fields fall back to a
// generic message, status 500, UNKNOWN_ERROR and the payload itself.
func FromResponse(payload map[string]any) *Error {
	e := &Error{
		Status:  nethttp.StatusInternalServerError,
		Code:    Unknown,
		Message: defaultMessage,
		Data:    payload,
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		e.Message = msg
	}
	if status, ok := numericStatus(payload["status"]); ok && status != 0 {
		e.Status = status
	}
	if code, ok := payload["code"].(string); ok && code != "" {
		e.Code = Code(code)
	}
	if data, ok := payload["data"]; ok && data != nil {
		e.Data = data
	}
	return e
}

func numericStatus(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// terminalError wraps the last attempt error once retries stop.
func terminalError(last *Error) *Error {
	return WrapError(last.Status, RequestFailed, last.Message, last.Data, last)
}

func validationError(message string, cause error) *Error {
	return WrapError(nethttp.StatusBadRequest, BadRequest, message, nil, cause)
}
