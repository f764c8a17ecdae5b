// Package biztime centralizes time handling for the auth core.
// All storage and transport use UTC; implicit local timezone is prohibited.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// RemainingSeconds returns the whole seconds from now until t, rounded up,
// or 0 if t is in the past. Used for lockout countdowns.
func RemainingSeconds(t time.Time) int64 {
	d := time.Until(t)
	if d <= 0 {
		return 0
	}
	secs := int64(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	return secs
}
