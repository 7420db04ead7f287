package smileid

import "errors"

// ErrNotConfigured is returned by signed operations when the partner ID or API key is missing.
var ErrNotConfigured = errors.New("smileid: partner id and api key are required")

// ErrInvalidSignature is returned when a response carries a signature that does not verify.
var ErrInvalidSignature = errors.New("smileid: invalid signature in response")
