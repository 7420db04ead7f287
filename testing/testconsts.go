package testing

import "time"

// Logger Constants
const (
	// TestLoggerLevelDebug is the debug log level used in most tests
	TestLoggerLevelDebug = "debug"
	// TestLoggerLevelDisabled completely disables logging in tests
	TestLoggerLevelDisabled = "disabled"
)

// Job identifiers used across test suites.
const (
	TestUserID  = "user-001"
	TestJobID   = "job-001"
	TestProduct = "biometric_kyc"
)

// Time Duration Constants
const (
	// TestEventuallyTimeout is the timeout for require.Eventually assertions (500ms)
	TestEventuallyTimeout = 500 * time.Millisecond
	// TestEventuallyTick is the polling interval for require.Eventually (50ms)
	TestEventuallyTick = 10 * time.Millisecond
)
