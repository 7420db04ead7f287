package signature

import "time"

// Clock provides the current time for timestamp generation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time {
	return time.Time(c)
}

// FixedClock returns a Clock frozen at t. Useful for deterministic signatures in tests.
func FixedClock(t time.Time) Clock {
	return fixedClock(t)
}
