package nats

import (
	"context"
	"log/slog"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"blouconnect/internal/config"
	"blouconnect/pkg/retry"
)

const (
	bucket = "blouconnect"
)

// Store keeps every collection in the JetStream key-value bucket.
type Store struct {
	Logger *slog.Logger
	Config *config.Config

	js jetstream.JetStream
	kv jetstream.KeyValue
}

func (n *Store) Init(ctx context.Context) error {
	n.Logger = n.Logger.With("component", "nats.Store")

	var nc *libnats.Conn
	err := retry.WrapWithRetry(func() error {
		var err error
		nc, err = libnats.Connect(n.Config.NATSURL)
		return err
	}, func(err error, attempt int) bool {
		n.Logger.Warn("NATS connection failed, retrying", "attempt", attempt, "error", err)
		return attempt < 5
	}, 2)()
	if err != nil {
		return err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}

	n.js = js

	if n.Config.NATSInit {
		if err := n.initNATS(ctx); err != nil {
			return err
		}
	}

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		return err
	}
	n.kv = kv

	return nil
}

func (n *Store) HealthCheck(context.Context) error {
	_, err := n.js.Conn().RTT()
	return err
}

func (n *Store) Shutdown(context.Context) error {
	return n.js.Conn().Drain()
}

func (n *Store) initNATS(ctx context.Context) error {
	n.Logger.Info("Initializing NATS")

	_, err := n.js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "BlouConnect collections",
		History:     1,
	})
	if err != nil {
		return err
	}
	n.Logger.Info("KeyValue created or updated", "name", bucket)

	return nil
}
