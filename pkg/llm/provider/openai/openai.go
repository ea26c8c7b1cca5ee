// Package openai implements pkg/llm's Client against the OpenAI chat
// completion API, or any OpenAI-compatible server via a base URL override.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/inkloomco/inkloom/pkg/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Client wraps the go-openai chat completion client.
type Client struct {
	client *goopenai.Client
	model  string
}

// Config holds configuration for the OpenAI chat client.
type Config struct {
	// APIKey authenticates against the API. Required for api.openai.com,
	// optional for local compatible servers.
	APIKey string

	// BaseURL overrides the API endpoint (e.g. "http://localhost:11434/v1").
	BaseURL string

	// Model is the chat model name. Defaults to DefaultModel if empty.
	Model string
}

// NewClient creates a new OpenAI chat completion client.
func NewClient(cfg Config) (*Client, error) {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Invoke sends the prompt as a single user message using the sampling
// parameters of the given profile.
func (c *Client) Invoke(ctx context.Context, prompt string, profile llm.Profile) (string, error) {
	sampling := llm.Sampling(profile)

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:      sampling.Temperature,
		TopP:             sampling.TopP,
		MaxTokens:        sampling.MaxTokens,
		FrequencyPenalty: sampling.FrequencyPenalty,
		PresencePenalty:  sampling.PresencePenalty,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}
