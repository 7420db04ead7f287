// Package testing provides test helpers for code built on the SDK.
//
// # Mocks
//
// The mocks subpackage provides a testify-based httpclient.Client so callers
// can exercise smileid.Service without a network.
//
// # Fixtures
//
// The fixtures subpackage provides fixed credentials, a frozen clock, signed
// job status payloads and an IPv4 httptest server helper.
//
// # Usage
//
//	import (
//		"github.com/gaborage/go-smileid/testing/mocks"
//		"github.com/gaborage/go-smileid/testing/fixtures"
//	)
package testing
