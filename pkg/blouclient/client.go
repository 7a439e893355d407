package blouclient

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

// Client talks to a running blouconnect API server.
type Client struct {
	client *resty.Client
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = DefaultConfig
	}

	client := resty.NewWithTransportSettings(cfg.TransportSettings).
		SetBaseURL(cfg.BaseURL)

	for _, m := range cfg.RequestMiddlewares {
		client.AddRequestMiddleware(m)
	}
	for _, m := range cfg.ResponseMiddlewares {
		client.AddResponseMiddleware(m)
	}

	return &Client{
		client: client,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx).SetError(&APIError{})
}

// result unwraps a response into T, turning error statuses into *APIError.
func result[T any](res *resty.Response, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}

	if res.IsError() {
		apiErr, ok := res.Error().(*APIError)
		if !ok || apiErr == nil {
			apiErr = &APIError{Message: res.Status()}
		}
		apiErr.StatusCode = res.StatusCode()
		return zero, apiErr
	}

	if v, ok := res.Result().(*T); ok && v != nil {
		return *v, nil
	}
	return zero, nil
}
