package completion

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient is the Completer backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
}

// NewGemini creates a Gemini completer using an API key.
func NewGemini(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NewGemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Complete sends the user payload with the system instruction attached.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	temperature := req.Temperature
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       &temperature,
	})
	if err != nil {
		return "", &ServiceError{Provider: "gemini", Model: req.Model, Err: err}
	}

	rawText := resp.Text()
	if strings.TrimSpace(rawText) == "" {
		return "", &ServiceError{Provider: "gemini", Model: req.Model, Err: ErrEmptyCompletion}
	}
	return rawText, nil
}

var _ Completer = (*GeminiClient)(nil)
