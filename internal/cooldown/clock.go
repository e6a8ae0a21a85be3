package cooldown

import "time"

// Clock represents a pluggable clock service.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time

	// AfterFunc waits for the duration to elapse and then calls f in its
	// own goroutine.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer wraps the time.Timer struct.
type Timer interface {
	// Stop prevents the Timer from firing. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

// NewSystemClock returns a clock backed by the time package.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// SystemClock implements Clock by wrapping functions in the standard
// library time package.
type SystemClock struct{}

// Now wraps time.Now.
func (s *SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (s *SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
