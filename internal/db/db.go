package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"parking-ledger-backend/config"
	"parking-ledger-backend/internal/model"
	"parking-ledger-backend/internal/tariff"
)

// Init opens the database, runs migrations, seeds default tariffs, and
// applies any pending schema upgrade. It is called exactly once at startup;
// every component receives the returned handle.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.ActiveStay{},
		&model.CompletedVisit{},
		&model.TariffRule{},
		&model.SchemaVersion{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if err := seedTariffs(db); err != nil {
		return nil, fmt.Errorf("tariff seeding failed: %w", err)
	}

	if err := upgradeSchema(db); err != nil {
		return nil, fmt.Errorf("schema upgrade failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// seedTariffs inserts the default rule set into an empty tariff table.
func seedTariffs(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.TariffRule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rules := tariff.DefaultRules()
	log.Printf("Seeding %d default tariff rules...", len(rules))
	return db.Create(&rules).Error
}
