package persistence

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"blouconnect/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded kv_entries table migrations.
type Migrator struct {
	Logger *slog.Logger
	DB     core.DB

	migrate *migrate.Migrate
}

func (m *Migrator) Init(_ context.Context) error {
	m.Logger = m.Logger.With("component", "persistence.Migrator")

	db, err := m.DB.DB()
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "blouconnect_schema_migrations"})
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	m.migrate, err = migrate.NewWithInstance("iofs", source, "postgres", driver)
	return err
}

// Up applies every pending migration.
func (m *Migrator) Up(_ context.Context) error {
	return m.step("up", m.migrate.Up)
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(_ context.Context) error {
	return m.step("down", func() error { return m.migrate.Steps(-1) })
}

func (m *Migrator) step(direction string, apply func() error) error {
	from, err := m.clean()
	if err != nil {
		return err
	}

	err = apply()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		m.Logger.Debug("Tables are up to date", "version", from)
		return nil
	case err != nil:
		return fmt.Errorf("migrating %s from version %d: %w", direction, from, err)
	}

	to, _ := m.clean()
	m.Logger.Info("Tables migrated", "direction", direction, "from", from, "to", to)
	return nil
}

// clean returns the current version, forcing it first when a previous run left the
// schema dirty.
func (m *Migrator) clean() (uint, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if dirty {
		m.Logger.Warn("Tables are dirty, forcing version", "version", version)
		if err := m.migrate.Force(int(version)); err != nil { // nolint:gosec
			return 0, err
		}
	}
	return version, nil
}
