package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"blouconnect/internal/api"
	"blouconnect/internal/auth"
	"blouconnect/internal/backend"
	"blouconnect/internal/cmd/flags"
	"blouconnect/internal/config"
	"blouconnect/internal/core"
	"blouconnect/internal/data"
	"blouconnect/internal/latency"
	"blouconnect/internal/media"
	"blouconnect/internal/metrics"
	"blouconnect/internal/store"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Serve the API and the metrics endpoints",
	Flags: append([]cli.Flag{
		flags.APIAddr,
		flags.MetricsAddr,
		flags.LatencyScale,
		flags.ViewerWindow,
	}, flags.StoreFlags...),
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, serveServices)
	},
}

func serveServices(cfg *config.Config) []pal.ServiceImpl {
	return append(storeServices(cfg),
		pal.Provide[core.SchemaMigrator, store.Migrator](),
		pal.Provide[core.Latency, latency.Simulator](),
		pal.Provide[core.MediaStore, media.Blobs](),
		pal.Provide[core.Backend, backend.Backend](),
		pal.Provide[core.Session, auth.Auth](),
		pal.Provide[core.Data, data.Service](),
		pal.Provide[core.APIServer, api.Server](),
		pal.Provide[core.MetricsServer, metrics.HTTPServer](),
		pal.Provide[core.MetricsCollector, metrics.Collector](),
	)
}
