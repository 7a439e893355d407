package cmd

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"
	"resty.dev/v3"

	"blouconnect/internal/cmd/flags"
	"blouconnect/pkg/blouclient"
)

var postsCmd = &cli.Command{
	Name:  "posts",
	Usage: "Print the feed of a running server",
	Flags: []cli.Flag{
		flags.ServerURL,
		&cli.StringFlag{Name: "village", Usage: "Only show posts from this village"},
	},
	Action: withClient(func(ctx context.Context, c *cli.Command, client *blouclient.Client) (any, error) {
		return client.Feed(ctx, c.String("village"))
	}),
}

var chatsCmd = &cli.Command{
	Name:  "chats",
	Usage: "Print the chats of the signed in user of a running server",
	Flags: []cli.Flag{flags.ServerURL},
	Action: withClient(func(ctx context.Context, _ *cli.Command, client *blouclient.Client) (any, error) {
		return client.Chats(ctx)
	}),
}

var trendingCmd = &cli.Command{
	Name:  "trending",
	Usage: "Print the trending topics of a running server",
	Flags: []cli.Flag{flags.ServerURL},
	Action: withClient(func(ctx context.Context, _ *cli.Command, client *blouclient.Client) (any, error) {
		return client.Trending(ctx)
	}),
}

func withClient(f func(context.Context, *cli.Command, *blouclient.Client) (any, error)) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		client := blouclient.NewClient(&blouclient.ClientConfig{
			BaseURL:           c.String("server"),
			TransportSettings: blouclient.DefaultConfig.TransportSettings,

			ResponseMiddlewares: []resty.ResponseMiddleware{logResponse},
		})
		defer client.Close()

		result, err := f(ctx, c, client)
		if err != nil {
			return err
		}

		pp.Println(result)
		return nil
	}
}

func logResponse(_ *resty.Client, response *resty.Response) error {
	reqURL, err := url.Parse(response.Request.URL)
	if err != nil {
		return err
	}

	slog.Debug("API call", "method", response.Request.Method, "path", reqURL.Path,
		"status", response.Status(), "duration", response.Duration())
	return nil
}
