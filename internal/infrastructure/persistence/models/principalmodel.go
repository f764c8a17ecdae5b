package models

import "time"

// PrincipalModel represents the database persistence model for directory
// records. BranchIDs is a JSON-encoded array of branch IDs.
type PrincipalModel struct {
	ID             uint   `gorm:"primarykey"`
	Name           string `gorm:"size:100;not null"`
	Email          string `gorm:"size:255;index"`
	RoleID         *uint  `gorm:"index"`
	LegacyRole     string `gorm:"size:50"`
	OrganizationID *uint  `gorm:"index"`
	BranchIDs      string `gorm:"type:text"`
	CanLogin       bool   `gorm:"not null;default:true"`
	Active         bool   `gorm:"not null;default:true"`
	Blocked        bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PrincipalModel) TableName() string {
	return "principals"
}
