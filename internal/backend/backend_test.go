package backend_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"blouconnect/internal/backend"
	"blouconnect/internal/core"
	"blouconnect/internal/latency"
	"blouconnect/internal/store"
)

func newBackend(t *testing.T) (*backend.Backend, core.Store) {
	t.Helper()

	s := store.NewMemory()
	b := &backend.Backend{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:   s,
		Latency: latency.None(),
	}
	require.NoError(t, b.Init(t.Context()))
	return b, s
}

func register(t *testing.T, b *backend.Backend, village string) core.User {
	t.Helper()

	user, err := b.RegisterUser(t.Context(), core.User{FullName: "Thabo", PhoneNumber: "+27710000001", Village: village})
	require.NoError(t, err)
	return user
}

func TestBackend_VerifyOTP(t *testing.T) {
	t.Parallel()

	b, _ := newBackend(t)

	for otp, want := range map[string]bool{"1234": true, "123": false, "12345": false, "": false, "abcd": true} {
		ok, err := b.VerifyOTP(t.Context(), otp)
		require.NoError(t, err)
		require.Equal(t, want, ok, otp)
	}

	ok, err := b.Login(t.Context(), "+27000000000")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBackend_RegisterUser(t *testing.T) {
	t.Parallel()

	t.Run("seeds posts for the village", func(t *testing.T) {
		t.Parallel()

		b, _ := newBackend(t)
		user := register(t, b, "Bochum")
		require.Equal(t, backend.LocalUserID, user.ID)

		current, err := b.CurrentUser(t.Context())
		require.NoError(t, err)
		require.NotNil(t, current)
		require.Equal(t, "Thabo", current.FullName)

		posts, err := b.GetPosts(t.Context(), "Bochum")
		require.NoError(t, err)
		require.Equal(t, []string{"p1", "p3"}, lo.Map(posts, func(p core.Post, _ int) string { return p.ID }))
		require.Greater(t, posts[0].Timestamp, posts[1].Timestamp)

		all, err := b.GetPosts(t.Context(), "")
		require.NoError(t, err)
		require.Equal(t, []string{"p1", "p2", "p3"}, lo.Map(all, func(p core.Post, _ int) string { return p.ID }))

		chats, err := b.GetChats(t.Context())
		require.NoError(t, err)
		require.Len(t, chats, 2)
		require.Equal(t, "Bochum General", chats[0].Name)
		require.Equal(t, 3, chats[0].UnreadCount)
	})

	t.Run("does not reseed", func(t *testing.T) {
		t.Parallel()

		b, s := newBackend(t)
		require.NoError(t, store.Save(t.Context(), s, store.KeyPosts, []core.Post{}))

		register(t, b, "Bochum")

		posts, err := b.GetPosts(t.Context(), "")
		require.NoError(t, err)
		require.Empty(t, posts)
	})

	t.Run("unknown village", func(t *testing.T) {
		t.Parallel()

		b, _ := newBackend(t)
		_, err := b.RegisterUser(t.Context(), core.User{FullName: "X", Village: "Atlantis"})
		require.ErrorIs(t, err, core.ErrUnknownVillage)
	})

	t.Run("no session before registration", func(t *testing.T) {
		t.Parallel()

		b, _ := newBackend(t)
		current, err := b.CurrentUser(t.Context())
		require.NoError(t, err)
		require.Nil(t, current)
	})
}

func TestBackend_CreatePost(t *testing.T) {
	t.Parallel()

	b, _ := newBackend(t)
	user := register(t, b, "Bochum")

	post, err := b.CreatePost(t.Context(), user, core.PostDraft{Content: "Water is back", Category: core.CategoryGeneral})
	require.NoError(t, err)
	require.Equal(t, "Bochum", post.Village)
	require.Zero(t, post.Likes)
	require.Zero(t, post.Comments)
	require.Zero(t, post.Views)
	require.Equal(t, user.ID, post.UserID)

	posts, err := b.GetPosts(t.Context(), "Bochum")
	require.NoError(t, err)
	require.Equal(t, post.ID, posts[0].ID)

	_, err = b.CreatePost(t.Context(), user, core.PostDraft{Content: "x", Village: "Atlantis"})
	require.ErrorIs(t, err, core.ErrUnknownVillage)

	_, err = b.CreatePost(t.Context(), user, core.PostDraft{Content: "x", Category: "gossip"})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestBackend_SendMessage(t *testing.T) {
	t.Parallel()

	t.Run("moves the chat to the front", func(t *testing.T) {
		t.Parallel()

		b, s := newBackend(t)
		register(t, b, "Bochum")

		chats, err := b.GetChats(t.Context())
		require.NoError(t, err)
		require.Equal(t, "c1", chats[0].ID)

		msg, err := b.SendMessage(t.Context(), "c2", "hi", core.MessageText, 0)
		require.NoError(t, err)
		require.Equal(t, backend.LocalUserID, msg.SenderID)

		chats, err = b.GetChats(t.Context())
		require.NoError(t, err)
		require.Equal(t, "c2", chats[0].ID)
		require.Equal(t, "hi", chats[0].LastMessage.Content)

		_, err = b.SendMessage(t.Context(), "c1", "hi", core.MessageText, 0)
		require.NoError(t, err)

		chats, err = b.GetChats(t.Context())
		require.NoError(t, err)
		require.Equal(t, "c1", chats[0].ID)
		require.Equal(t, "hi", chats[0].LastMessage.Content)
		require.Zero(t, chats[0].UnreadCount)

		stored, err := store.LoadOr(t.Context(), s, store.KeyMessages, map[string][]core.Message{})
		require.NoError(t, err)
		require.Len(t, stored["c1"], 1)
		require.Len(t, stored["c2"], 1)
	})

	t.Run("unknown chat", func(t *testing.T) {
		t.Parallel()

		b, _ := newBackend(t)
		register(t, b, "Bochum")

		_, err := b.SendMessage(t.Context(), "nope", "hi", core.MessageText, 0)
		require.ErrorIs(t, err, core.ErrChatNotFound)
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("audio duration", func(t *testing.T) {
		t.Parallel()

		b, _ := newBackend(t)
		register(t, b, "Bochum")

		msg, err := b.SendMessage(t.Context(), "c1", "/blobs/x", core.MessageAudio, 12)
		require.NoError(t, err)
		require.Equal(t, 12, msg.Duration)
	})
}

func TestBackend_Placeholders(t *testing.T) {
	t.Parallel()

	b, _ := newBackend(t)

	messages, err := b.GetMessages(t.Context(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "Hello!", messages[0].Content)

	topics, err := b.GetTrending(t.Context())
	require.NoError(t, err)
	require.Len(t, topics, 4)
	require.Equal(t, "Water Supply", topics[0].Topic)
	require.Equal(t, 124, topics[0].Count)
}
