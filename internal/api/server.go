package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blouconnect/internal/config"
	"blouconnect/internal/core"
)

type contextKey string

const loggerContextKey = contextKey("logger")

type Server struct {
	server *http.Server

	Logger  *slog.Logger
	Config  *config.Config
	Backend core.Backend
	Data    core.Data
	Auth    core.Session
	Media   core.MediaStore
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "api.Server")

	handler := &Handler{
		Logger:  s.Logger,
		Backend: s.Backend,
		Data:    s.Data,
		Auth:    s.Auth,
		Media:   s.Media,
	}
	if err := handler.Init(ctx); err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           NewRouter(s.Logger, handler),
		Addr:              s.Config.APIAddr,
		ReadHeaderTimeout: time.Second,
		// the slowest simulated calls take about a second
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}
	return nil
}

func (s *Server) Run(_ context.Context) error {
	s.Logger.Info("Starting API server", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// NewRouter mounts h behind the logging and panic recovery middleware.
func NewRouter(baseLogger *slog.Logger, h *Handler) http.Handler {
	r := chi.NewMux()

	r.Use(
		// Logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger := baseLogger.With("method", r.Method, "path", r.URL.Path)
				ctx := context.WithValue(r.Context(), loggerContextKey, logger)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		},

		// Logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				start := time.Now()
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

				next.ServeHTTP(sw, r)

				duration := time.Since(start)
				requestsHistogram.WithLabelValues(r.Method, routePattern(r)).Observe(duration.Seconds())
				requestLogger(r.Context()).Info("request", "duration", duration, "status", sw.status)
			})
		},

		// Recovering panics and logging
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if err := recover(); err != nil {
						requestLogger(r.Context()).Error("panic recovered", "error", err)
						http.Error(w, `{"message": "Internal Server Error"}`, http.StatusInternalServerError)
					}
				}()
				next.ServeHTTP(w, r)
			})
		},
	)

	r.Get(blobsPattern, h.getBlob)
	r.Route("/v1", h.Routes)

	return r
}

func requestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
