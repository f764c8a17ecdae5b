package models

import "time"

// RoleModel represents the database persistence model for roles.
// Permissions is a JSON-encoded array of permission codes.
type RoleModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"size:100;not null"`
	Code         string `gorm:"size:50;not null;uniqueIndex"`
	Level        int    `gorm:"not null"`
	Permissions  string `gorm:"type:text"`
	Scope        string `gorm:"size:20;not null"`
	IsSystemRole bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}
