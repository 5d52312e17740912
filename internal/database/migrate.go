package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// NewMigrate builds a migrate instance over an open connection, using the
// embedded migrations that match the database type
func NewMigrate(db *sqlx.DB, dbType config.DBType) (*migrate.Migrate, error) {
	var (
		driver     migratedb.Driver
		driverName string
		sourcePath string
		err        error
	)

	switch dbType {
	case config.DBTypeMemory, config.DBTypeSQLite:
		// Use driver instance directly to avoid DSN parsing issues with in-memory SQLite
		driverName, sourcePath = "sqlite3", "migrations/sqlite"
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case config.DBTypePostgreSQL:
		driverName, sourcePath = "postgres", "migrations/postgres"
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	default:
		return nil, fmt.Errorf("no migrations for database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s driver: %w", driverName, err)
	}

	source, err := iofs.New(migrationFiles, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations
func Migrate(db *sqlx.DB, dbType config.DBType) error {
	m, err := NewMigrate(db, dbType)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
