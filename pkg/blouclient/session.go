package blouclient

import (
	"context"

	"blouconnect/internal/core"
)

const (
	loginPath    = "/v1/auth/login"
	registerPath = "/v1/register"
	mePath       = "/v1/me"
)

func (c *Client) Login(ctx context.Context, phone string) (core.User, error) {
	return result[core.User](c.r(ctx).
		SetBody(map[string]string{"phoneNumber": phone}).
		SetResult(&core.User{}).
		Post(loginPath))
}

// Register goes through the mock backend, which also seeds posts and chats.
func (c *Client) Register(ctx context.Context, details core.User) (core.User, error) {
	return result[core.User](c.r(ctx).
		SetBody(details).
		SetResult(&core.User{}).
		Post(registerPath))
}

func (c *Client) Me(ctx context.Context) (core.User, error) {
	return result[core.User](c.r(ctx).
		SetResult(&core.User{}).
		Get(mePath))
}
