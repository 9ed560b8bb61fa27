package database

import (
	"fmt"
	"log"

	"packing_tracker/internal/migrations"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Initialize(driver, databaseURL string, logSQL bool) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	if logSQL {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := open(driver, databaseURL, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database connected (%s) and migrated successfully", driver)
	return db, nil
}

func open(driver, databaseURL string, config *gorm.Config) (*gorm.DB, error) {
	switch driver {
	case DriverPostgres, "":
		return gorm.Open(postgres.Open(databaseURL), config)
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(databaseURL), config)
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer; one connection keeps transactions
		// from failing with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// HealthCheck pings the underlying connection pool.
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
