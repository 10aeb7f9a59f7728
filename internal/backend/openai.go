package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenAI is a chat-completions backend. It also serves OpenRouter, which
// exposes the same API under a different base URL.
type OpenAI struct {
	name   string
	client *openai.Client
}

// NewOpenAI returns a client for api.openai.com, or for baseURL when set.
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	return &OpenAI{name: "openai", client: openai.NewClientWithConfig(cfg)}
}

// NewOpenRouter returns an OpenAI-compatible client pointed at OpenRouter.
func NewOpenRouter(apiKey, baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	c := NewOpenAI(apiKey, baseURL)
	c.name = "openrouter"
	return c
}

func (p *OpenAI) Name() string {
	return p.name
}

func (p *OpenAI) Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Stop:        opts.Stop,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
