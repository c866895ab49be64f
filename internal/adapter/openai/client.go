package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/couchcryptid/pipeline-leak-watch/internal/diagnosis"
)

// Client implements diagnosis.Completer using the OpenAI chat completions API.
type Client struct {
	api    *goopenai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a chat completion client. An empty baseURL uses the
// public OpenAI endpoint; any OpenAI-compatible server can be set instead.
func NewClient(apiKey, model, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:    goopenai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Complete sends one system/user exchange and returns the first choice's
// text. A response without choices yields an empty string so callers can
// apply their own fallbacks.
func (c *Client) Complete(ctx context.Context, req diagnosis.CompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.logger.Warn("chat completion returned no choices", "model", c.model)
		return "", nil
	}

	c.logger.Debug("chat completion",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}
