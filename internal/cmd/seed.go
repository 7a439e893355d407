package cmd

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"blouconnect/internal/backend"
	"blouconnect/internal/cmd/flags"
	"blouconnect/internal/config"
	"blouconnect/internal/core"
	"blouconnect/internal/latency"
	"blouconnect/internal/store"
)

var seedCmd = &cli.Command{
	Name:  "seed",
	Usage: "Register the local user directly against the store, seeding posts and chats",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Full name of the user", Value: "Thabo Mokoena"},
		&cli.StringFlag{Name: "phone", Usage: "Phone number of the user", Value: "+27710000001"},
		&cli.StringFlag{
			Name:  "village",
			Usage: "Village of the user",
			Value: core.DefaultVillage,
			Validator: func(v string) error {
				if !core.IsVillage(v) {
					return core.ErrUnknownVillage
				}
				return nil
			},
		},
	}, flags.StoreFlags...),
	Action: func(ctx context.Context, c *cli.Command) error {
		details := core.User{
			FullName:    c.String("name"),
			PhoneNumber: c.String("phone"),
			Village:     c.String("village"),
		}

		return run(ctx, c, func(cfg *config.Config) []pal.ServiceImpl {
			return append(storeServices(cfg),
				pal.Provide[core.SchemaMigrator, store.Migrator](),
				pal.Provide[core.Latency, latency.Simulator](),
				pal.Provide[core.Backend, backend.Backend](),
				pal.Provide[pal.Runner, seeder]().
					BeforeInit(func(_ context.Context, s *seeder) error {
						s.details = details
						return nil
					}),
			)
		})
	},
}

type seeder struct {
	Logger   *slog.Logger
	Backend  core.Backend
	Migrator core.SchemaMigrator

	details core.User
}

func (s *seeder) Run(ctx context.Context) error {
	if err := s.Migrator.Up(ctx); err != nil {
		return err
	}

	user, err := s.Backend.RegisterUser(ctx, s.details)
	if err != nil {
		return err
	}

	s.Logger.Info("Seeded", "user", user.ID, "name", user.FullName, "village", user.Village)
	return nil
}
