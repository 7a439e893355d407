package data

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"blouconnect/internal/core"
	"blouconnect/internal/store"
)

// AddPost publishes draft as the current user through the backend. An attached file is
// uploaded and replaces the draft's media URL.
func (s *Service) AddPost(ctx context.Context, draft core.PostDraft, file *core.Attachment) (core.Post, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return core.Post{}, err
	}

	if file != nil {
		url, err := s.upload(ctx, file)
		if err != nil {
			return core.Post{}, err
		}
		draft.MediaURL = url
		if draft.MediaType == "" {
			draft.MediaType = mediaType(file.ContentType)
		}
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	post, err := s.Backend.CreatePost(ctx, user, draft)
	if err != nil {
		return core.Post{}, err
	}

	s.mu.Lock()
	s.posts = append([]core.Post{post}, s.posts...)
	s.mu.Unlock()
	mutationsCounter.WithLabelValues("add_post").Inc()

	s.Logger.Info("Post added", "id", post.ID, "village", post.Village)
	return post, nil
}

// LikePost adds one like. The same user may like a post any number of times.
func (s *Service) LikePost(ctx context.Context, postID string) (core.Post, error) {
	return s.updatePost(ctx, "like_post", postID, func(_ core.User, post *core.Post) error {
		post.Likes++
		return nil
	})
}

func (s *Service) ViewPost(ctx context.Context, postID string) (core.Post, error) {
	return s.updatePost(ctx, "view_post", postID, func(_ core.User, post *core.Post) error {
		post.Views++
		return nil
	})
}

func (s *Service) AddComment(ctx context.Context, postID, text string) (core.Post, error) {
	if strings.TrimSpace(text) == "" {
		return core.Post{}, fmt.Errorf("%w: empty comment", core.ErrInvalidInput)
	}

	return s.updatePost(ctx, "add_comment", postID, func(user core.User, post *core.Post) error {
		post.CommentsList = append(slices.Clip(post.CommentsList), core.Comment{
			ID:        core.NewID("c"),
			UserID:    user.ID,
			UserName:  user.FullName,
			Text:      text,
			Timestamp: core.Millis(time.Now()),
		})
		post.Comments++
		return nil
	})
}

// Post returns a single post.
func (s *Service) Post(_ context.Context, postID string) (core.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := lo.Find(s.posts, func(p core.Post) bool { return p.ID == postID })
	if !ok {
		return core.Post{}, fmt.Errorf("%w: %s", core.ErrPostNotFound, postID)
	}
	return post, nil
}

// Posts returns the posts matching filter, newest first.
func (s *Service) Posts(_ context.Context, filter core.PostFilter) ([]core.Post, error) {
	if filter.Village != "" && !core.IsVillage(filter.Village) {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownVillage, filter.Village)
	}
	if !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: category %q", core.ErrInvalidInput, filter.Category)
	}

	s.mu.RLock()
	posts := lo.Filter(s.posts, func(p core.Post, _ int) bool {
		return (filter.Village == "" || p.Village == filter.Village) &&
			(filter.Category == "" || p.Category == filter.Category) &&
			(filter.UserID == "" || p.UserID == filter.UserID)
	})
	s.mu.RUnlock()

	sortPosts(posts)
	return posts, nil
}

// TrendingVillages lists the villages that have at least one post with TrendingLikes likes.
func (s *Service) TrendingVillages(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	popular := lo.Filter(s.posts, func(p core.Post, _ int) bool { return p.Likes >= TrendingLikes })
	return lo.Uniq(lo.Map(popular, func(p core.Post, _ int) string { return p.Village })), nil
}

func (s *Service) SearchVillages(_ context.Context, query string) []string {
	return core.SearchVillages(query)
}

func (s *Service) ProfileStats(_ context.Context, userID string) (core.ProfileStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authored := lo.Filter(s.posts, func(p core.Post, _ int) bool { return p.UserID == userID })
	return core.ProfileStats{
		Posts:      len(authored),
		TotalLikes: lo.SumBy(authored, func(p core.Post) int { return p.Likes }),
		TotalViews: lo.SumBy(authored, func(p core.Post) int { return p.Views }),
	}, nil
}

func (s *Service) updatePost(ctx context.Context, operation, postID string, update func(core.User, *core.Post) error) (core.Post, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return core.Post{}, err
	}

	var updated core.Post
	err = s.updatePosts(ctx, operation, func(posts []core.Post) ([]core.Post, error) {
		_, index, found := lo.FindIndexOf(posts, func(p core.Post) bool { return p.ID == postID })
		if !found {
			return nil, fmt.Errorf("%w: %s", core.ErrPostNotFound, postID)
		}
		if err := update(user, &posts[index]); err != nil {
			return nil, err
		}
		updated = posts[index]
		return posts, nil
	})
	return updated, err
}

// updatePosts applies update to a copy of the cached posts, persists the result and
// only then replaces the cache.
func (s *Service) updatePosts(ctx context.Context, operation string, update func([]core.Post) ([]core.Post, error)) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	posts, err := update(slices.Clone(s.posts))
	if err != nil {
		return err
	}
	if err := store.Save(ctx, s.Store, store.KeyPosts, posts); err != nil {
		return err
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	mutationsCounter.WithLabelValues(operation).Inc()
	return nil
}

func mediaType(contentType string) core.MediaType {
	if strings.HasPrefix(contentType, "video/") {
		return core.MediaVideo
	}
	return core.MediaImage
}
