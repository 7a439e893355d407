package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"blouconnect/internal/api"
	"blouconnect/internal/auth"
	"blouconnect/internal/backend"
	"blouconnect/internal/config"
	"blouconnect/internal/data"
	"blouconnect/internal/latency"
	"blouconnect/internal/media"
	"blouconnect/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newServer wires every service against a fresh memory store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	s := store.NewMemory()
	none := latency.None()

	backendSvc := &backend.Backend{Logger: discard(), Store: s, Latency: none}
	authSvc := &auth.Auth{Logger: discard(), Config: &config.Config{}, Store: s, Latency: none, Backend: backendSvc}
	blobs := &media.Blobs{Logger: discard(), Latency: none}
	dataSvc := &data.Service{Logger: discard(), Store: s, Auth: authSvc, Backend: backendSvc, Media: blobs, Latency: none}
	handler := &api.Handler{Logger: discard(), Backend: backendSvc, Data: dataSvc, Auth: authSvc, Media: blobs}

	require.NoError(t, backendSvc.Init(t.Context()))
	require.NoError(t, authSvc.Init(t.Context()))
	require.NoError(t, blobs.Init(t.Context()))
	require.NoError(t, dataSvc.Init(t.Context()))
	require.NoError(t, handler.Init(t.Context()))

	server := httptest.NewServer(api.NewRouter(discard(), handler))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	return send(t, req, out)
}

func send(t *testing.T, req *http.Request, out any) int {
	t.Helper()

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}
