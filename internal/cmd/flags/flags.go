package flags

import (
	"fmt"
	"slices"
	"time"

	libnats "github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"blouconnect/internal/config"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var LogLevel = &cli.StringFlag{
	Name:      "log-level",
	Aliases:   []string{"l"},
	Usage:     "The level of the logs",
	Value:     "info",
	Validator: oneOf("log level", validLogLevels),
	Sources:   cli.EnvVars("LOG_LEVEL"),
}

var Store = &cli.StringFlag{
	Name:      "store",
	Aliases:   []string{"s"},
	Usage:     "Where the data is persisted: memory, nats, redis or postgres",
	Value:     config.StoreMemory,
	Validator: oneOf("store", config.StoreKinds),
	Sources:   cli.EnvVars("BLOU_STORE"),
}

var NATSURL = &cli.StringFlag{
	Name:    "nats-url",
	Aliases: []string{"n"},
	Usage:   "The URL of the NATS server",
	Value:   libnats.DefaultURL,
	Sources: cli.EnvVars("NATS_URL"),
}

var InitNATS = &cli.BoolFlag{
	Name:        "nats-init",
	Aliases:     []string{"i"},
	Usage:       "Initialize the NATS server: create the key-value bucket",
	DefaultText: "false",
	Value:       false,
	Sources:     cli.EnvVars("NATS_INIT"),
}

var RedisURL = &cli.StringFlag{
	Name:    "redis-url",
	Usage:   "The URL of the Redis server",
	Value:   "redis://localhost:6379/0",
	Sources: cli.EnvVars("REDIS_URL"),
}

var DatabaseURL = &cli.StringFlag{
	Name:    "database-url",
	Aliases: []string{"d"},
	Usage:   "The URL of the Postgres database",
	Sources: cli.EnvVars("DATABASE_URL"),
}

var APIAddr = &cli.StringFlag{
	Name:    "api-addr",
	Usage:   "The address the API server listens on",
	Value:   ":8888",
	Sources: cli.EnvVars("API_ADDR"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "The address the metrics server listens on",
	Value:   ":8080",
	Sources: cli.EnvVars("METRICS_ADDR"),
}

var LatencyScale = &cli.FloatFlag{
	Name:    "latency-scale",
	Usage:   "Multiplier for the simulated backend latency, 0 disables it",
	Value:   1,
	Sources: cli.EnvVars("LATENCY_SCALE"),
	Validator: func(value float64) error {
		if value < 0 {
			return fmt.Errorf("invalid latency scale: %v, must not be negative", value)
		}
		return nil
	},
}

var ViewerWindow = &cli.DurationFlag{
	Name:    "viewer-window",
	Usage:   "How long profile views are listed as recent",
	Value:   24 * time.Hour,
	Sources: cli.EnvVars("VIEWER_WINDOW"),
}

var ServerURL = &cli.StringFlag{
	Name:    "server",
	Usage:   "The URL of a running blouconnect API server",
	Value:   "http://localhost:8888",
	Sources: cli.EnvVars("BLOU_SERVER"),
}

// StoreFlags are shared by every command that opens the store.
var StoreFlags = []cli.Flag{Store, NATSURL, InitNATS, RedisURL, DatabaseURL}

func oneOf(name string, allowed []string) func(string) error {
	return func(value string) error {
		if !slices.Contains(allowed, value) {
			return fmt.Errorf("invalid %s: %s, allowed values are: %s", name, value, allowed)
		}
		return nil
	}
}
