package migration

import (
	"gorm.io/gorm"

	"admincore/internal/infrastructure/persistence/models"
)

// AutoMigrateStrategy lets GORM reconcile the schema from the model
// structs. Development only.
type AutoMigrateStrategy struct{}

func NewAutoMigrateStrategy() *AutoMigrateStrategy {
	return &AutoMigrateStrategy{}
}

func (s *AutoMigrateStrategy) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.PrincipalModel{},
		&models.RoleModel{},
		&models.AccountModel{},
		&models.DeviceSessionModel{},
		&models.LoginEventModel{},
		&models.ResetTokenModel{},
	)
}

func (s *AutoMigrateStrategy) Name() string {
	return "gorm-automigrate"
}
