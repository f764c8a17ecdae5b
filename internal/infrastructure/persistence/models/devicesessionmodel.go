package models

import "time"

// DeviceSessionModel represents the database persistence model for tracked
// devices. Position preserves insertion order so the oldest device can be
// evicted first.
type DeviceSessionModel struct {
	ID               uint   `gorm:"primarykey"`
	AccountID        uint   `gorm:"not null;index;uniqueIndex:idx_account_device,priority:1"`
	DeviceID         string `gorm:"size:64;not null;uniqueIndex:idx_account_device,priority:2"`
	IPAddress        string `gorm:"size:45"`
	UserAgent        string `gorm:"size:512"`
	LoginCount       int    `gorm:"not null;default:0"`
	RefreshTokenHash *string `gorm:"size:64;index"`
	Position         int    `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Events []LoginEventModel `gorm:"foreignKey:DeviceSessionID"`
}

// TableName specifies the table name for GORM
func (DeviceSessionModel) TableName() string {
	return "device_sessions"
}

// LoginEventModel represents one login/logout pair on a device.
type LoginEventModel struct {
	ID              uint      `gorm:"primarykey"`
	DeviceSessionID uint      `gorm:"not null;index"`
	LoginAt         time.Time `gorm:"not null"`
	LogoutAt        *time.Time
	CreatedAt       time.Time
}

// TableName specifies the table name for GORM
func (LoginEventModel) TableName() string {
	return "login_events"
}
