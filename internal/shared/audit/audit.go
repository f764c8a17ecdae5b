package audit

import (
	"context"
	"time"
)

// EventType names a security-relevant occurrence.
type EventType string

const (
	EventLoginSucceeded     EventType = "login_succeeded"
	EventLoginFailed        EventType = "login_failed"
	EventAccountLocked      EventType = "account_locked"
	EventAccountUnlocked    EventType = "account_unlocked"
	EventDeviceEvicted      EventType = "device_evicted"
	EventLogout             EventType = "logout"
	EventTokenRefreshed     EventType = "token_refreshed"
	EventRefreshRejected    EventType = "refresh_rejected"
	EventPasswordChanged    EventType = "password_changed"
	EventResetRequested     EventType = "reset_requested"
	EventResetCompleted     EventType = "reset_completed"
	EventAdminResetIssued   EventType = "admin_reset_issued"
	EventPermissionDenied   EventType = "permission_denied"
	EventCredentialsCreated EventType = "credentials_created"
)

// Event is one security audit record. Fields holding secrets are never
// placed here.
type Event struct {
	Type        EventType
	PrincipalID uint
	Username    string
	DeviceID    string
	IPAddress   string
	UserAgent   string
	Detail      string
	OccurredAt  time.Time
}

// Sink receives audit events. Implementations must not block the caller;
// delivery is best effort.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) {}
