package data_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"blouconnect/internal/core"
	"blouconnect/internal/data"
	"blouconnect/internal/store"
)

func postIDs(posts []core.Post) []string {
	return lo.Map(posts, func(p core.Post, _ int) string { return p.ID })
}

func TestService_AddPost(t *testing.T) {
	t.Parallel()

	t.Run("zero counters and author village", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post := f.post(t, core.PostDraft{Content: "Soccer at 3", Category: core.CategorySports})

		require.Equal(t, "Bochum", post.Village)
		require.Equal(t, f.user.ID, post.UserID)
		require.Equal(t, f.user.FullName, post.User.FullName)
		require.Zero(t, post.Likes)
		require.Zero(t, post.Views)
		require.Zero(t, post.Comments)
		require.Empty(t, post.CommentsList)

		stored, err := store.LoadOr(t.Context(), f.store, store.KeyPosts, []core.Post{})
		require.NoError(t, err)
		require.Equal(t, []string{post.ID}, postIDs(stored))

		fromBackend, err := f.backend.GetPosts(t.Context(), "Bochum")
		require.NoError(t, err)
		require.Equal(t, []string{post.ID}, postIDs(fromBackend))
	})

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		first := f.post(t, core.PostDraft{Content: "one"})
		second := f.post(t, core.PostDraft{Content: "two"})

		posts, err := f.data.Posts(t.Context(), core.PostFilter{})
		require.NoError(t, err)
		require.Equal(t, []string{second.ID, first.ID}, postIDs(posts))
	})

	t.Run("uploads the attachment", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post, err := f.data.AddPost(t.Context(), core.PostDraft{Content: "clip"}, &core.Attachment{
			Data:        []byte("fake video"),
			ContentType: "video/mp4",
		})
		require.NoError(t, err)
		require.Equal(t, core.MediaVideo, post.MediaType)

		blob, err := f.blobs.Open(post.MediaURL)
		require.NoError(t, err)
		require.Equal(t, []byte("fake video"), blob.Data)
	})

	t.Run("unknown village", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.data.AddPost(t.Context(), core.PostDraft{Content: "x", Village: "Atlantis"}, nil)
		require.ErrorIs(t, err, core.ErrUnknownVillage)

		posts, err := f.data.Posts(t.Context(), core.PostFilter{})
		require.NoError(t, err)
		require.Empty(t, posts)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		f := newAnonymousFixture(t)
		_, err := f.data.AddPost(t.Context(), core.PostDraft{Content: "x", Village: "Bochum"}, nil)
		require.ErrorIs(t, err, core.ErrUnauthenticated)
	})
}

func TestService_LikePost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	post := f.post(t, core.PostDraft{Content: "x"})

	for range 7 {
		_, err := f.data.LikePost(t.Context(), post.ID)
		require.NoError(t, err)
	}

	liked, err := f.data.Post(t.Context(), post.ID)
	require.NoError(t, err)
	require.Equal(t, 7, liked.Likes)

	_, err = f.data.LikePost(t.Context(), "missing")
	require.ErrorIs(t, err, core.ErrPostNotFound)
}

func TestService_ViewPost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	post := f.post(t, core.PostDraft{Content: "x"})

	viewed, err := f.data.ViewPost(t.Context(), post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, viewed.Views)
}

func TestService_AddComment(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	post := f.post(t, core.PostDraft{Content: "x"})

	commented, err := f.data.AddComment(t.Context(), post.ID, "Nice!")
	require.NoError(t, err)
	require.Equal(t, 1, commented.Comments)
	require.Len(t, commented.CommentsList, 1)
	require.Equal(t, "Lerato Maponya", commented.CommentsList[0].UserName)
	require.Equal(t, "Nice!", commented.CommentsList[0].Text)

	_, err = f.data.AddComment(t.Context(), post.ID, "  ")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestService_Discovery(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	sports := f.post(t, core.PostDraft{Content: "match", Category: core.CategorySports})
	f.post(t, core.PostDraft{Content: "funeral", Category: core.CategoryFuneral, Village: "Senwabarwana"})

	for range data.TrendingLikes {
		_, err := f.data.LikePost(t.Context(), sports.ID)
		require.NoError(t, err)
	}

	t.Run("filters", func(t *testing.T) {
		t.Parallel()

		posts, err := f.data.Posts(t.Context(), core.PostFilter{Category: core.CategorySports})
		require.NoError(t, err)
		require.Equal(t, []string{sports.ID}, postIDs(posts))

		posts, err = f.data.Posts(t.Context(), core.PostFilter{Village: "Senwabarwana"})
		require.NoError(t, err)
		require.Len(t, posts, 1)

		posts, err = f.data.Posts(t.Context(), core.PostFilter{UserID: f.user.ID})
		require.NoError(t, err)
		require.Len(t, posts, 2)

		_, err = f.data.Posts(t.Context(), core.PostFilter{Village: "Atlantis"})
		require.ErrorIs(t, err, core.ErrUnknownVillage)
	})

	t.Run("trending villages", func(t *testing.T) {
		t.Parallel()

		villages, err := f.data.TrendingVillages(t.Context())
		require.NoError(t, err)
		require.Equal(t, []string{"Bochum"}, villages)
	})

	t.Run("search villages", func(t *testing.T) {
		t.Parallel()

		require.Contains(t, f.data.SearchVillages(t.Context(), "senwa"), "Senwabarwana")
		require.Empty(t, f.data.SearchVillages(t.Context(), "atlantis"))
	})

	t.Run("profile stats", func(t *testing.T) {
		t.Parallel()

		stats, err := f.data.ProfileStats(t.Context(), f.user.ID)
		require.NoError(t, err)
		require.Equal(t, core.ProfileStats{Posts: 2, TotalLikes: data.TrendingLikes}, stats)
	})
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, store.Save(t.Context(), f.store, store.KeyPosts, []core.Post{{ID: "p1", Village: "Bochum"}}))

	posts, err := f.data.Posts(t.Context(), core.PostFilter{})
	require.NoError(t, err)
	require.Empty(t, posts)

	require.NoError(t, f.data.Refresh(t.Context()))

	posts, err = f.data.Posts(t.Context(), core.PostFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, postIDs(posts))
}

func TestService_Settings(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	dark, err := f.data.DarkMode(t.Context())
	require.NoError(t, err)
	require.False(t, dark)

	require.NoError(t, f.data.SetDarkMode(t.Context(), true))
	dark, err = f.data.DarkMode(t.Context())
	require.NoError(t, err)
	require.True(t, dark)

	require.NoError(t, f.data.SendSupportMessage(t.Context(), "The app is great"))
	require.ErrorIs(t, f.data.SendSupportMessage(t.Context(), ""), core.ErrInvalidInput)
}
