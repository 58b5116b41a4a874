package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/insightcrew/relata/pkg/config"
)

// OnDeviceClient talks to a local model runtime (Ollama or any
// llama-server exposing the OpenAI-compatible chat completions route).
type OnDeviceClient struct {
	baseURL string
	model   string
	client  *resty.Client
}

// NewOnDeviceClient creates a client for the local model runtime.
func NewOnDeviceClient(cfg *config.AIConfig) *OnDeviceClient {
	client := resty.New().
		SetBaseURL(cfg.OnDeviceBaseURL).
		SetTimeout(120 * time.Second)

	return &OnDeviceClient{
		baseURL: cfg.OnDeviceBaseURL,
		model:   cfg.OnDeviceModel,
		client:  client,
	}
}

// Name returns the provider name used in logs and fallback notices.
func (c *OnDeviceClient) Name() string {
	return "on-device"
}

// Available probes the local runtime with a short deadline. A runtime
// that is installed but not running counts as unavailable.
func (c *OnDeviceClient) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := c.client.R().SetContext(probeCtx).Get("/")
	if err != nil {
		return false
	}
	return resp.StatusCode() < 500
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a prompt to the local runtime and returns the assistant
// content.
func (c *OnDeviceClient) Complete(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		Stream:      false,
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("on-device request failed: %w", err)
	}

	if resp.IsError() {
		if result.Error.Message != "" {
			return "", fmt.Errorf("on-device runtime returned status %d: %s", resp.StatusCode(), result.Error.Message)
		}
		return "", fmt.Errorf("on-device runtime returned status %d", resp.StatusCode())
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty response from on-device runtime")
	}

	return result.Choices[0].Message.Content, nil
}
