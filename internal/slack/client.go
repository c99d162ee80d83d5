// Package slack wraps the Slack Web API behind the MessageFetcher
// interface. One call fetches exactly one page of channel history; the
// caller never paginates.
package slack

import (
	"context"
	"errors"
	"net/http"

	slackapi "github.com/slack-go/slack"

	"github.com/user/contextrelay/internal/config"
	"github.com/user/contextrelay/internal/types"
)

// DefaultLimit is the page size used when the caller does not ask for one.
const DefaultLimit = 100

// Client fetches channel history from the Slack Web API.
type Client struct {
	cfg *config.SlackConfig
	api *slackapi.Client
}

// New creates a Slack client using the configured bot token. Extra options
// are passed through to the underlying API client (tests point it at a
// local server).
func New(cfg *config.SlackConfig, opts ...slackapi.Option) *Client {
	return &Client{
		cfg: cfg,
		api: slackapi.New(cfg.BotToken, opts...),
	}
}

// FetchMessages retrieves one page of history for channel, newest first.
// olderThan, when set, bounds the page to messages older than that
// timestamp cursor.
func (c *Client) FetchMessages(ctx context.Context, channel string, limit int, olderThan string) (*types.History, error) {
	if c.cfg.BotToken == "" {
		return nil, &types.ConfigError{Missing: "SLACK_BOT_TOKEN"}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := &slackapi.GetConversationHistoryParameters{
		ChannelID: channel,
		Limit:     limit,
		Latest:    olderThan,
	}

	resp, err := c.api.GetConversationHistoryContext(ctx, params)
	if err != nil {
		// A non-nil response means the API answered ok:false; its error
		// string is what the caller should see. A nil response is a
		// transport or HTTP-level failure.
		if resp != nil {
			return nil, &types.UpstreamError{
				Service:    "slack",
				StatusCode: http.StatusBadRequest,
				Message:    err.Error(),
			}
		}
		var sce slackapi.StatusCodeError
		if errors.As(err, &sce) {
			return nil, &types.UpstreamError{
				Service:    "slack",
				StatusCode: sce.Code,
				Message:    err.Error(),
			}
		}
		return nil, &types.UpstreamError{Service: "slack", Message: err.Error()}
	}

	messages := make([]types.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, types.Message{
			Timestamp: m.Timestamp,
			Author:    authorOf(m),
			Text:      m.Text,
		})
	}

	return &types.History{Messages: messages, HasMore: resp.HasMore}, nil
}

func authorOf(m slackapi.Message) string {
	switch {
	case m.Username != "":
		return m.Username
	case m.User != "":
		return m.User
	case m.BotID != "":
		return m.BotID
	}
	return "Unknown"
}
