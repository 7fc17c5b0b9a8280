package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIService talks to OpenAI or any endpoint speaking its chat API.
type OpenAIService struct {
	client *openai.Client
	model  string
	slots  slots
}

func NewOpenAIService(apiKey, baseURL, model string, concurrentReqs int) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		slots:  newSlots(concurrentReqs),
	}
}

func (s *OpenAIService) Name() string { return "openai" }

func (s *OpenAIService) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := s.slots.acquire(ctx, s.Name()); err != nil {
		return "", err
	}
	defer s.slots.release()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		TopP:             topP,
		FrequencyPenalty: 0.2,
		N:                1,
	})
	if err != nil {
		return "", fmt.Errorf("create completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}
