package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"blouconnect/internal/cmd/flags"
	"blouconnect/internal/config"
	"blouconnect/internal/core"
	"blouconnect/internal/nats"
	"blouconnect/internal/persistence"
	"blouconnect/internal/redis"
	"blouconnect/internal/store"
	"blouconnect/pkg/clicfg"
)

const VERSION = "0.1.0"

var cmd = &cli.Command{
	Name:    "blouconnect",
	Usage:   core.AppName + " mock backend: village feeds, chats and profiles over a local JSON API",
	Version: VERSION,
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if err := initLogger(c.String("log-level")); err != nil {
			return ctx, err
		}
		return ctx, nil
	},
	Flags: []cli.Flag{
		flags.LogLevel,
	},
	Commands: []*cli.Command{
		serveCmd,
		seedCmd,
		migrateCmd,
		postsCmd,
		chatsCmd,
		trendingCmd,
	},
}

func Run() {
	// a missing .env file is fine, the flags have defaults
	_ = godotenv.Load()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.Command, services func(cfg *config.Config) []pal.ServiceImpl) error {
	cfg := config.Config{}
	if err := clicfg.ParseFlags(c, &cfg); err != nil {
		return err
	}

	defs := append(services(&cfg),
		pal.ProvideConst(&cfg),
		pal.ProvideConst(slog.Default()),
	)

	return pal.New(defs...).
		InitTimeout(10*time.Second).
		HealthCheckTimeout(1*time.Second).
		ShutdownTimeout(10*time.Second).
		Run(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// storeServices registers the core.Store implementation selected by --store.
func storeServices(cfg *config.Config) []pal.ServiceImpl {
	switch cfg.Store {
	case config.StoreNATS:
		return nats.Provide()
	case config.StoreRedis:
		return []pal.ServiceImpl{pal.Provide[core.Store, redis.Store]()}
	case config.StorePostgres:
		return persistence.Provide()
	default:
		return store.ProvideMemory()
	}
}
