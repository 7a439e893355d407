package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"blouconnect/internal/core"
	"blouconnect/internal/store"
)

const collectInterval = 15 * time.Second

var (
	collectionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blouconnect_collection_size",
		Help: "Number of entries in a persisted collection.",
	}, []string{"key"})
)

// Collector periodically reports the size of the persisted collections.
type Collector struct {
	Logger *slog.Logger
	Store  core.Store
}

func (c *Collector) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "metrics.Collector")
	return nil
}

func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(collectInterval)
	defer ticker.Stop()

	for {
		if err := c.Collect(ctx); err != nil {
			c.Logger.Warn("Failed to collect metrics", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Collector) Collect(ctx context.Context) error {
	c.Logger.Debug("Collecting metrics")

	for _, key := range []string{store.KeyPosts, store.KeyChats, store.KeyUsersRegistry, store.KeyMessages} {
		size, err := c.size(ctx, key)
		if err != nil {
			return err
		}
		collectionSize.WithLabelValues(key).Set(float64(size))
	}
	return nil
}

// size counts the entries of a JSON array or object without decoding them.
func (c *Collector) size(ctx context.Context, key string) (int, error) {
	entries, _, err := store.Load[json.RawMessage](ctx, c.Store, key)
	if err != nil || len(entries) == 0 {
		return 0, err
	}

	var list []json.RawMessage
	if err := json.Unmarshal(entries, &list); err == nil {
		return len(list), nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(entries, &object); err != nil {
		return 0, err
	}
	return len(object), nil
}

// CollectionSize returns the gauge reporting the size of the collection stored under key.
func CollectionSize(key string) prometheus.Gauge {
	return collectionSize.WithLabelValues(key)
}
