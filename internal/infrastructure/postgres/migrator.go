package postgres

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func newMigrator(databaseURL, migrationsPath string) (*migrate.Migrate, error) {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open ledger migrations: %w", err)
	}

	return m, nil
}

// RunMigrations brings the ledger schema up to the latest version.
func RunMigrations(databaseURL, migrationsPath string) error {
	m, err := newMigrator(databaseURL, migrationsPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("ledger schema already up to date")
			return nil
		}
		return fmt.Errorf("apply ledger migrations: %w", err)
	}

	slog.Info("ledger schema migrated")
	return nil
}

// RunMigrationsDown rolls back the most recent ledger migration.
func RunMigrationsDown(databaseURL, migrationsPath string) error {
	m, err := newMigrator(databaseURL, migrationsPath)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("roll back ledger migration: %w", err)
	}

	slog.Info("ledger schema rolled back one step")
	return nil
}
