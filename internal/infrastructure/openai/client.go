package openai

import (
	"context"
	"fmt"

	"dreamstay-backend/internal/domain"

	goopenai "github.com/sashabaranov/go-openai"
)

// Config selects the endpoint and models.
type Config struct {
	APIKey     string
	BaseURL    string // empty = api.openai.com
	TextModel  string
	ImageModel string
}

// Client talks to an OpenAI-compatible API for both listing text and listing images.
type Client struct {
	api        *goopenai.Client
	textModel  string
	imageModel string
}

// New builds a Client. Missing models fall back to gpt-4o-mini and dall-e-2.
func New(cfg Config) *Client {
	c := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = goopenai.GPT4oMini
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = goopenai.CreateImageModelDallE2
	}
	return &Client{
		api:        goopenai.NewClientWithConfig(c),
		textModel:  textModel,
		imageModel: imageModel,
	}
}

// Complete sends one chat completion and returns the first choice's content ("" when there is none).
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	chat := goopenai.ChatCompletionRequest{
		Model: c.textModel,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		chat.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	resp, err := c.api.CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", &domain.UpstreamError{Service: "text", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests one image returned as a URL.
func (c *Client) GenerateImage(ctx context.Context, req domain.ImageRequest) ([]domain.GeneratedImage, error) {
	resp, err := c.api.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          c.imageModel,
		Size:           req.Size,
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
		N:              1,
	})
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	out := make([]domain.GeneratedImage, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, domain.GeneratedImage{URL: d.URL})
	}
	return out, nil
}
