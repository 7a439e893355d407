package config

import "time"

const (
	StoreMemory   = "memory"
	StoreNATS     = "nats"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

var StoreKinds = []string{StoreMemory, StoreNATS, StoreRedis, StorePostgres}

type Config struct {
	LogLevel string `flag:"log-level"`

	Store       string `flag:"store"`
	NATSURL     string `flag:"nats-url"`
	NATSInit    bool   `flag:"nats-init"`
	RedisURL    string `flag:"redis-url"`
	DatabaseURL string `flag:"database-url"`

	APIAddr     string `flag:"api-addr"`
	MetricsAddr string `flag:"metrics-addr"`

	// LatencyScale multiplies every simulated delay; 0 disables them.
	LatencyScale float64 `flag:"latency-scale"`

	// ViewerWindow is how long profile views stay visible.
	ViewerWindow time.Duration `flag:"viewer-window"`
}
