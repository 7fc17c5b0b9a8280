package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiService struct {
	client    *genai.Client
	modelName string
	slots     slots
}

func NewGeminiService(apiKey, modelName string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
		slots:     newSlots(concurrentReqs),
	}, nil
}

func (s *GeminiService) Name() string { return "gemini" }

func (s *GeminiService) Close() {
	s.client.Close()
}

// Generate runs one completion. The model handle is built per call so the
// token budget never leaks between concurrent requests.
func (s *GeminiService) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := s.slots.acquire(ctx, s.Name()); err != nil {
		return "", err
	}
	defer s.slots.release()

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetTopK(topK)
	model.SetCandidateCount(1)
	model.SetMaxOutputTokens(int32(maxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonMaxTokens {
			log.Printf("WARNING: Gemini candidate %d stopped due to %s", i, cand.FinishReason)
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("Gemini returned an empty reply")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
