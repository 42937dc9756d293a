package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrator(db *sql.DB) (*migrate.Migrate, source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("could not create source driver: %w", err)
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize migration: %w", err)
	}
	return m, src, nil
}

// MigrateUp applies every pending migration. A database left dirty by an
// interrupted run is forced back one version and migrated again, once.
func MigrateUp(db *sql.DB) error {
	m, src, err := newMigrator(db)
	if err != nil {
		return err
	}

	err = m.Up()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	var dirtyErr migrate.ErrDirty
	if !errors.As(err, &dirtyErr) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	prev := previousVersion(src, dirtyErr.Version)
	logger.Warnf(context.Background(), "⚠️  database dirty at version %d, forcing back to %d", dirtyErr.Version, prev)
	if err := m.Force(prev); err != nil {
		return fmt.Errorf("failed to force to version %d: %w", prev, err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed after force: %w", err)
	}
	return nil
}

// MigrateDown reverts the latest applied migration.
func MigrateDown(db *sql.DB) error {
	m, _, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// previousVersion returns the migration preceding version, or
// database.NilVersion (-1) when version is the first one.
func previousVersion(src source.Driver, version int) int {
	prev, err := src.Prev(uint(version))
	if err != nil {
		return -1
	}
	return int(prev)
}
