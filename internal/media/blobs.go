package media

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"blouconnect/internal/core"
)

// PathPrefix is where uploaded blobs are served from.
const PathPrefix = "/blobs/"

const uploadDelay = 800 * time.Millisecond

var (
	uploadedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blouconnect_uploaded_bytes_total",
		Help: "The total number of bytes accepted by the upload stub",
	}, []string{"media_class"})
)

// MediaClasses bounds the values of the media_class label.
var MediaClasses = []string{"image", "video", "audio", "other"}

// Blobs keeps uploads in process memory and hands out URLs that die with the process,
// the server-side counterpart of a browser object URL.
type Blobs struct {
	Logger  *slog.Logger
	Latency core.Latency

	mu    sync.RWMutex
	blobs map[string]core.Blob
}

func (b *Blobs) Init(_ context.Context) error {
	b.Logger = b.Logger.With("component", "media.Blobs")
	b.blobs = map[string]core.Blob{}
	return nil
}

func (b *Blobs) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := b.Latency.Wait(ctx, uploadDelay); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	id := uuid.NewString()

	b.mu.Lock()
	if b.blobs == nil {
		b.blobs = map[string]core.Blob{}
	}
	b.blobs[id] = core.Blob{ContentType: contentType, Data: data}
	b.mu.Unlock()

	uploadedBytes.WithLabelValues(MediaClass(contentType)).Add(float64(len(data)))
	b.Logger.Debug("blob stored", "id", id, "size", len(data), "content_type", contentType)

	return PathPrefix + id, nil
}

// Open returns the blob behind a URL returned by Upload, or its bare id.
func (b *Blobs) Open(ref string) (core.Blob, error) {
	id := strings.TrimPrefix(ref, PathPrefix)

	b.mu.RLock()
	defer b.mu.RUnlock()

	blob, ok := b.blobs[id]
	if !ok {
		return core.Blob{}, fmt.Errorf("%w: %s", core.ErrBlobNotFound, id)
	}
	return blob, nil
}

// MediaClass folds a content type into one of MediaClasses.
func MediaClass(contentType string) string {
	class, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(contentType)), "/")
	if slices.Contains(MediaClasses, class) {
		return class
	}
	return "other"
}
