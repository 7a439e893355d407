package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"blouconnect/internal/cmd/flags"
	"blouconnect/internal/config"
	"blouconnect/internal/core"
	"blouconnect/internal/persistence"
	"blouconnect/internal/store"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Migrate the persisted data",
	Commands: []*cli.Command{
		{
			Name:  "store",
			Usage: "Upgrade the stored collections to the current schema version",
			Flags: flags.StoreFlags,
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, func(cfg *config.Config) []pal.ServiceImpl {
					return append(storeServices(cfg),
						pal.Provide[core.SchemaMigrator, store.Migrator](),
						pal.Provide[pal.Runner, store.MigrationRunner](),
					)
				})
			},
		},
		{
			Name:  "up",
			Usage: "Apply the Postgres table migrations",
			Flags: []cli.Flag{flags.DatabaseURL},
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, func(*config.Config) []pal.ServiceImpl {
					return []pal.ServiceImpl{
						pal.Provide[core.DB, persistence.DB](),
						pal.Provide[core.DBMigrator, persistence.Migrator](),
						pal.Provide[pal.Runner, persistence.MigrationUpRunner](),
					}
				})
			},
		},
		{
			Name:  "down",
			Usage: "Roll back the last Postgres table migration",
			Flags: []cli.Flag{flags.DatabaseURL},
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, func(*config.Config) []pal.ServiceImpl {
					return []pal.ServiceImpl{
						pal.Provide[core.DB, persistence.DB](),
						pal.Provide[core.DBMigrator, persistence.Migrator](),
						pal.Provide[pal.Runner, persistence.MigrationDownRunner](),
					}
				})
			},
		},
	},
}
