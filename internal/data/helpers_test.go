package data_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"blouconnect/internal/auth"
	"blouconnect/internal/backend"
	"blouconnect/internal/config"
	"blouconnect/internal/core"
	"blouconnect/internal/data"
	"blouconnect/internal/latency"
	"blouconnect/internal/media"
	"blouconnect/internal/store"
)

type fixture struct {
	data    *data.Service
	auth    *auth.Auth
	backend *backend.Backend
	blobs   *media.Blobs
	store   core.Store
	user    core.User
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture returns a data service with a signed in user from Bochum.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := newAnonymousFixture(t)

	user, err := f.auth.Signup(t.Context(), core.SignupDetails{
		FullName:    "Lerato Maponya",
		PhoneNumber: "+27711234567",
		Village:     "Bochum",
		DateOfBirth: "1995-04-12",
	})
	require.NoError(t, err)
	f.user = user

	return f
}

func newAnonymousFixture(t *testing.T) *fixture {
	t.Helper()

	s := store.NewMemory()
	f := &fixture{
		store:   s,
		backend: &backend.Backend{Logger: discard(), Store: s, Latency: latency.None()},
		blobs:   &media.Blobs{Logger: discard(), Latency: latency.None()},
	}
	require.NoError(t, f.backend.Init(t.Context()))
	require.NoError(t, f.blobs.Init(t.Context()))

	f.auth = &auth.Auth{Logger: discard(), Config: &config.Config{}, Store: s, Latency: latency.None(), Backend: f.backend}
	require.NoError(t, f.auth.Init(t.Context()))

	f.data = &data.Service{
		Logger:  discard(),
		Store:   s,
		Auth:    f.auth,
		Backend: f.backend,
		Media:   f.blobs,
		Latency: latency.None(),
	}
	require.NoError(t, f.data.Init(t.Context()))

	return f
}

func (f *fixture) post(t *testing.T, draft core.PostDraft) core.Post {
	t.Helper()

	post, err := f.data.AddPost(t.Context(), draft, nil)
	require.NoError(t, err)
	return post
}

func (f *fixture) chatWith(t *testing.T, userID string) core.Chat {
	t.Helper()

	chat, err := f.data.CreateChat(t.Context(), userID)
	require.NoError(t, err)
	return chat
}

func (f *fixture) send(t *testing.T, chatID, content string) core.Message {
	t.Helper()

	msg, err := f.data.SendMessage(t.Context(), chatID, content, core.MessageText, nil)
	require.NoError(t, err)
	return msg
}
