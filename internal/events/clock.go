package events

import "time"

var now = func() time.Time { return time.Now().UTC() }

// Now is the single clock read used by an operation for both the state
// change and the event it records.
func Now() time.Time { return now() }

// SetClock replaces the clock and returns a function restoring the old one.
func SetClock(fn func() time.Time) (restore func()) {
	prev := now
	now = func() time.Time { return fn().UTC() }
	return func() { now = prev }
}
