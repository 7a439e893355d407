package persistence

import (
	"context"

	"blouconnect/internal/core"
)

type MigrationUpRunner struct {
	Migrator core.DBMigrator
}

func (m *MigrationUpRunner) Run(ctx context.Context) error {
	return m.Migrator.Up(ctx)
}

type MigrationDownRunner struct {
	Migrator core.DBMigrator
}

func (m *MigrationDownRunner) Run(ctx context.Context) error {
	return m.Migrator.Down(ctx)
}
