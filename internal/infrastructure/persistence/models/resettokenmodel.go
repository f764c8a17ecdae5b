package models

import "time"

// ResetTokenModel represents the database persistence model for password
// reset requests. Only the token digest is stored.
type ResetTokenModel struct {
	ID          uint      `gorm:"primarykey"`
	PrincipalID uint      `gorm:"not null;index"`
	TokenHash   string    `gorm:"size:64;not null;uniqueIndex"`
	Reason      string    `gorm:"size:20;not null"`
	RequestIP   string    `gorm:"size:45"`
	UserAgent   string    `gorm:"size:255"`
	ExpiresAt   time.Time `gorm:"not null;index"`
	Used        bool      `gorm:"not null;default:false"`
	UsedAt      *time.Time
	Invalidated bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

// TableName specifies the table name for GORM
func (ResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
