package generation

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/StyNW7/Zenium/internal/config"
)

// OpenAIStrategy is the hosted chat-completion backend, tried first in
// the chain.
type OpenAIStrategy struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIStrategy creates the hosted backend. With no API key the
// strategy stays constructible but reports unavailability at call time,
// so the chain simply falls through.
func NewOpenAIStrategy(cfg config.OpenAIConfig) *OpenAIStrategy {
	s := &OpenAIStrategy{
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
	if s.model == "" {
		s.model = "gpt-4o-mini"
	}
	if s.maxTokens <= 0 {
		s.maxTokens = 300
	}
	if s.temperature <= 0 {
		s.temperature = 0.7
	}
	if cfg.APIKey != "" {
		s.client = openai.NewClient(cfg.APIKey)
	}
	return s
}

func (s *OpenAIStrategy) Name() string { return "openai" }

// Configured reports whether an API key was provided.
func (s *OpenAIStrategy) Configured() bool { return s.client != nil }

// Generate sends the system instructions and composed prompt as a chat
// completion with bounded token and temperature parameters.
func (s *OpenAIStrategy) Generate(ctx context.Context, req Request) (string, error) {
	if s.client == nil {
		return "", errors.New("hosted backend not configured")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("hosted backend returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
