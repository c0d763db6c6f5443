package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies every pending migration found at sourceURL (for example
// "file://migrations") and reports the schema version before and after.
func Migrate(db *sql.DB, sourceURL string) (uint, uint, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, 0, fmt.Errorf("migrate: driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return 0, 0, fmt.Errorf("migrate: init: %w", err)
	}

	preMigrationVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("migrate: version: %w", err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return preMigrationVersion, 0, fmt.Errorf("migrate: up: %w", err)
	}

	postMigrationVersion, _, err := m.Version()
	if err != nil {
		return preMigrationVersion, 0, fmt.Errorf("migrate: version: %w", err)
	}

	return preMigrationVersion, postMigrationVersion, nil
}
