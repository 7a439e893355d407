package blouclient

import (
	"context"

	"blouconnect/internal/core"
)

const (
	feedPath     = "/v1/feed"
	postsPath    = "/v1/posts"
	likePath     = "/v1/posts/{postID}/like"
	trendingPath = "/v1/trending"
)

// Feed returns the posts of a village, or of every village when it is empty, newest first.
func (c *Client) Feed(ctx context.Context, village string) ([]core.Post, error) {
	req := c.r(ctx).SetResult(&[]core.Post{})
	if village != "" {
		req.SetQueryParam("village", village)
	}
	return result[[]core.Post](req.Get(feedPath))
}

func (c *Client) AddPost(ctx context.Context, draft core.PostDraft) (core.Post, error) {
	return result[core.Post](c.r(ctx).
		SetBody(draft).
		SetResult(&core.Post{}).
		Post(postsPath))
}

func (c *Client) LikePost(ctx context.Context, postID string) (core.Post, error) {
	return result[core.Post](c.r(ctx).
		SetPathParam("postID", postID).
		SetResult(&core.Post{}).
		Post(likePath))
}

func (c *Client) Trending(ctx context.Context) ([]core.TrendingTopic, error) {
	return result[[]core.TrendingTopic](c.r(ctx).
		SetResult(&[]core.TrendingTopic{}).
		Get(trendingPath))
}
