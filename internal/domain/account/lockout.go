package account

import "time"

// MaxLockLevel is the permanent lock tier.
const MaxLockLevel = 4

// lockThreshold is the failed-attempt count at which escalation starts.
const lockThreshold = 5

// lockDurations holds the temporary lock durations for levels 1 to 3.
var lockDurations = [...]time.Duration{
	60 * time.Second,
	180 * time.Second,
	300 * time.Second,
}

// LockDecision is the outcome of the lockout policy for a failed-attempt count.
type LockDecision struct {
	Level     int
	Duration  time.Duration
	Permanent bool
}

// DecideLock maps a failed-attempt count to a lock state. Pure function,
// deliberately free of clock and store dependencies:
//
//	attempts < 5  -> level 0, no lock
//	attempts = 5  -> level 1, 60s
//	attempts = 6  -> level 2, 180s
//	attempts = 7  -> level 3, 300s
//	attempts >= 8 -> level 4, permanent
func DecideLock(failedAttempts int) LockDecision {
	if failedAttempts < lockThreshold {
		return LockDecision{}
	}

	level := failedAttempts - lockThreshold + 1
	if level >= MaxLockLevel {
		return LockDecision{Level: MaxLockLevel, Permanent: true}
	}

	return LockDecision{
		Level:    level,
		Duration: lockDurations[level-1],
	}
}
