package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/config"
)

// Client posts messages through the Slack Web API. Delivery is best-effort:
// callers log returned errors but never roll back preceding work.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
}

// NewClient builds a Slack client from configuration.
func NewClient(cfg config.SlackConfig, logger *zap.Logger) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = "https://slack.com/api"
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      cfg.BotToken,
		logger:     logger,
	}
}

type postMessageRequest struct {
	Channel string  `json:"channel"`
	Text    string  `json:"text"`
	Blocks  []Block `json:"blocks,omitempty"`
}

type apiResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
}

// SendMessage posts text (and optional blocks) to a channel. DM channel ids
// the bot cannot post to are rerouted through conversations.open when a
// fallback user is known, both up front for D-prefixed ids and again after
// a channel_not_found rejection.
func (c *Client) SendMessage(ctx context.Context, channel, text string, blocks []Block, fallbackUser string) error {
	if strings.HasPrefix(channel, "D") && fallbackUser != "" {
		if opened, err := c.openConversation(ctx, fallbackUser); err == nil && opened != "" {
			channel = opened
		}
	}

	resp, err := c.postMessage(ctx, channel, text, blocks)
	if err != nil {
		c.logger.Error("slack send failed", zap.String("channel", channel), zap.Error(err))
		return err
	}
	if resp.OK {
		return nil
	}

	if resp.Error == "channel_not_found" && fallbackUser != "" {
		c.logger.Warn("slack channel not found, falling back to DM",
			zap.String("channel", channel),
			zap.String("user", fallbackUser))
		opened, err := c.openConversation(ctx, fallbackUser)
		if err != nil || opened == "" {
			return fmt.Errorf("slack fallback DM unavailable: %s", resp.Error)
		}
		retry, err := c.postMessage(ctx, opened, text, blocks)
		if err != nil {
			return err
		}
		if !retry.OK {
			return fmt.Errorf("slack fallback DM rejected: %s", retry.Error)
		}
		return nil
	}

	c.logger.Error("slack rejected message",
		zap.String("channel", channel),
		zap.String("error", resp.Error))
	return fmt.Errorf("slack rejected message: %s", resp.Error)
}

func (c *Client) postMessage(ctx context.Context, channel, text string, blocks []Block) (*apiResponse, error) {
	payload := postMessageRequest{Channel: channel, Text: text, Blocks: blocks}
	return c.call(ctx, "/chat.postMessage", payload)
}

func (c *Client) openConversation(ctx context.Context, userID string) (string, error) {
	resp, err := c.call(ctx, "/conversations.open", map[string]string{"users": userID})
	if err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("conversations.open rejected: %s", resp.Error)
	}
	return resp.Channel.ID, nil
}

func (c *Client) call(ctx context.Context, method string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack request: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode slack response: %w", err)
	}
	return &parsed, nil
}
