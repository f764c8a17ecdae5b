package models

import "time"

// AccountModel represents the database persistence model for login accounts.
type AccountModel struct {
	ID                  uint   `gorm:"primarykey"`
	PrincipalID         uint   `gorm:"not null;uniqueIndex"`
	Username            string `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash        string `gorm:"size:255;not null"`
	FailedLoginAttempts int    `gorm:"not null;default:0"`
	LockLevel           int    `gorm:"not null;default:0"`
	LockUntil           *time.Time
	PermanentlyLocked   bool `gorm:"not null;default:false"`
	IsLoggedIn          bool `gorm:"not null;default:false"`
	LastLoginAt         *time.Time
	MaxAllowedDevices   int `gorm:"not null;default:2"`
	Version             int `gorm:"not null;default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}
