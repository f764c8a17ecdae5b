package account

import (
	"time"

	"admincore/internal/shared/biztime"
)

// LoginEvent is one login/logout pair on a device session. A nil LogoutAt
// marks the open (active) interval; a device holds at most one open event.
type LoginEvent struct {
	LoginAt  time.Time
	LogoutAt *time.Time
}

// IsOpen reports whether the event has not been closed by a logout.
func (e *LoginEvent) IsOpen() bool {
	return e.LogoutAt == nil
}

// DeviceSession tracks one client device under an account. The device
// identifier is stable across logins from the same client; history records
// every login/logout pair in order.
type DeviceSession struct {
	DeviceID         string
	IPAddress        string
	UserAgent        string
	LoginCount       int
	RefreshTokenHash *string
	History          []LoginEvent
}

// currentEvent returns the most recent event if it is still open, nil otherwise.
func (d *DeviceSession) currentEvent() *LoginEvent {
	if len(d.History) == 0 {
		return nil
	}
	last := &d.History[len(d.History)-1]
	if last.IsOpen() {
		return last
	}
	return nil
}

// IsActive reports whether the device has an open login event.
func (d *DeviceSession) IsActive() bool {
	return d.currentEvent() != nil
}

// LastActiveAt returns the login time of the most recent event, zero when
// the device has never logged in.
func (d *DeviceSession) LastActiveAt() time.Time {
	if len(d.History) == 0 {
		return time.Time{}
	}
	return d.History[len(d.History)-1].LoginAt
}

// recordLogin refreshes client metadata and appends a new open event.
// A login without an intervening logout implicitly closes the previous
// interval, keeping at most one open event per device.
func (d *DeviceSession) recordLogin(ipAddress, userAgent string) {
	now := biztime.NowUTC()
	d.closeOpenEvent(now)
	d.IPAddress = ipAddress
	d.UserAgent = userAgent
	d.LoginCount++
	d.History = append(d.History, LoginEvent{LoginAt: now})
}

// closeOpenEvent closes the current open event if any, returning whether
// a close happened.
func (d *DeviceSession) closeOpenEvent(at time.Time) bool {
	event := d.currentEvent()
	if event == nil {
		return false
	}
	event.LogoutAt = &at
	return true
}

// revokeRefreshToken drops the refresh token bound to this device so any
// outstanding copy fails the exact-match check on refresh.
func (d *DeviceSession) revokeRefreshToken() {
	d.RefreshTokenHash = nil
}
