package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"blouconnect/internal/core"
)

const maxUploadSize = 32 << 20

var requestsHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "blouconnect_api_request_duration_seconds",
	Help: "The duration of API requests",
}, []string{"method", "route"})

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLogger(r.Context()).Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		requestLogger(r.Context()).Error("request failed", "error", err)
	}
	writeJSON(w, r, status, ErrorResponse{Message: err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotSender):
		return http.StatusForbidden
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrUnknownVillage),
		errors.Is(err, core.ErrInvalidOTP):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %w", core.ErrInvalidInput, err)
	}
	return nil
}

func boolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", core.ErrInvalidInput, name, raw)
	}
	return v, nil
}
