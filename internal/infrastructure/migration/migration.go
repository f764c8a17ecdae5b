package migration

import (
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"admincore/internal/shared/logger"
)

// Strategy applies schema changes to the database.
type Strategy interface {
	Migrate(db *gorm.DB) error
	Name() string
}

// Manager picks a migration strategy per environment: GORM AutoMigrate in
// development, versioned goose scripts everywhere else.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

func NewManager(environment string) *Manager {
	var strategy Strategy
	switch strings.ToLower(environment) {
	case "development", "debug", "":
		strategy = NewAutoMigrateStrategy()
	default:
		scriptsPath, _ := filepath.Abs("./internal/infrastructure/migration/scripts")
		strategy = NewGooseStrategy(scriptsPath)
	}
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

func (m *Manager) Run(db *gorm.DB) error {
	m.logger.Infow("running migrations", "strategy", m.strategy.Name())
	if err := m.strategy.Migrate(db); err != nil {
		return fmt.Errorf("migration failed (%s): %w", m.strategy.Name(), err)
	}
	m.logger.Infow("migrations complete", "strategy", m.strategy.Name())
	return nil
}
