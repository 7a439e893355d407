package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blouconnect/internal/config"
	"blouconnect/internal/core"
	"blouconnect/internal/store"
)

type HTTPServer struct {
	Logger *slog.Logger
	Config *config.Config
	Store  core.Store

	srv *http.Server
}

func (s *HTTPServer) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "metrics.HTTPServer")

	s.srv = &http.Server{
		Addr:              s.Config.MetricsAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second,
	}
	return nil
}

// Handler serves /metrics and a /health endpoint that fails when the store is unreachable.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		if _, err := s.Store.Get(ctx, store.KeySchemaVersion); err != nil {
			s.Logger.Error("Health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
	return mux
}

func (s *HTTPServer) Run(_ context.Context) error {
	s.Logger.Info("Starting metrics server", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
