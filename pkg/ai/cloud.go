package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/insightcrew/relata/pkg/config"
)

// CloudClient talks to a cloud aggregator (OpenRouter or any
// OpenAI-compatible endpoint) through the go-openai SDK.
type CloudClient struct {
	client *openai.Client
	model  string
	apiKey string
}

// NewCloudClient creates a client for the configured cloud aggregator.
func NewCloudClient(cfg *config.AIConfig) *CloudClient {
	clientCfg := openai.DefaultConfig(cfg.CloudAPIKey)
	if cfg.CloudBaseURL != "" {
		clientCfg.BaseURL = cfg.CloudBaseURL
	}

	return &CloudClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.CloudModel,
		apiKey: cfg.CloudAPIKey,
	}
}

// Name returns the provider name used in logs and fallback notices.
func (c *CloudClient) Name() string {
	return "cloud"
}

// Configured reports whether credentials are present. Without an API key
// the aggregator rejects every call, so the factory skips it.
func (c *CloudClient) Configured() bool {
	return c.apiKey != ""
}

// Complete sends a prompt to the aggregator and returns the assistant
// content.
func (c *CloudClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("cloud aggregator request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from cloud aggregator")
	}

	return resp.Choices[0].Message.Content, nil
}
