package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PromptGenClient asks a text model to synthesize a bespoke image
// prompt from review data (the dynamic prompt variant).
type PromptGenClient struct {
	http  *resty.Client
	key   string
	model string
}

func NewPromptGenClient(endpoint, apiKey, model string) *PromptGenClient {
	return &PromptGenClient{
		http: resty.New().
			SetBaseURL(endpoint).
			SetTimeout(60 * time.Second),
		key:   apiKey,
		model: model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *PromptGenClient) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		MaxTokens:   1024,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var out chatCompletionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.key).
		SetBody(req).
		SetResult(&out).
		Post("")
	if err != nil {
		return "", fmt.Errorf("prompt model request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("prompt model returned %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.New("prompt model returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
