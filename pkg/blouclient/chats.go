package blouclient

import (
	"context"

	"blouconnect/internal/core"
)

const (
	chatsPath    = "/v1/chats"
	messagesPath = "/v1/chats/{chatID}/messages"
)

func (c *Client) Chats(ctx context.Context) ([]core.Chat, error) {
	return result[[]core.Chat](c.r(ctx).
		SetResult(&[]core.Chat{}).
		Get(chatsPath))
}

func (c *Client) Messages(ctx context.Context, chatID string) ([]core.Message, error) {
	return result[[]core.Message](c.r(ctx).
		SetPathParam("chatID", chatID).
		SetResult(&[]core.Message{}).
		Get(messagesPath))
}

func (c *Client) SendMessage(ctx context.Context, chatID, content string) (core.Message, error) {
	return result[core.Message](c.r(ctx).
		SetPathParam("chatID", chatID).
		SetBody(map[string]any{"content": content, "type": core.MessageText}).
		SetResult(&core.Message{}).
		Post(messagesPath))
}
