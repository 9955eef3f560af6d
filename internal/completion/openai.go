package completion

import (
	"context"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient is the Completer backed by the OpenAI chat completions API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI completer. An empty baseURL uses the public API.
func NewOpenAI(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

// Complete sends the system and user messages and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	temperature := req.Temperature
	if temperature == 0 {
		// zero is dropped by omitempty and the API would apply its default
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.User,
			},
		},
	})
	if err != nil {
		return "", &ServiceError{Provider: "openai", Model: req.Model, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Provider: "openai", Model: req.Model, Err: ErrEmptyCompletion}
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &ServiceError{Provider: "openai", Model: req.Model, Err: ErrEmptyCompletion}
	}
	return text, nil
}

var _ Completer = (*OpenAIClient)(nil)
