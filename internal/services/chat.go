package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"nuitbot/internal/evaluator"
	"nuitbot/internal/metrics"
	"nuitbot/internal/models"
)

// ChatService turns a prompt into an evaluated reply.
type ChatService struct {
	generator        Generator
	defaultMaxTokens int
	maxTokensLimit   int
}

func NewChatService(generator Generator, defaultMaxTokens, maxTokensLimit int) *ChatService {
	if defaultMaxTokens <= 0 {
		defaultMaxTokens = 150
	}
	if maxTokensLimit < defaultMaxTokens {
		maxTokensLimit = defaultMaxTokens
	}
	return &ChatService{
		generator:        generator,
		defaultMaxTokens: defaultMaxTokens,
		maxTokensLimit:   maxTokensLimit,
	}
}

// Respond generates a reply for req and evaluates it. Inference failures
// come back as *GenerationError.
func (s *ChatService) Respond(ctx context.Context, req models.PromptRequest) (*models.EvaluationResponse, error) {
	maxTokens, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, buildEnhancedPrompt(req.Prompt), maxTokens)
	metrics.ObserveGeneration(s.generator.Name(), start, err)
	if err != nil {
		log.Printf("Response generation failed (%s): %v", s.generator.Name(), err)
		return nil, newGenerationError(s.generator.Name(), err)
	}

	reply := stripPromptEcho(raw)
	if reply == "" {
		log.Printf("Response generation failed (%s): reply was only prompt echo", s.generator.Name())
		return nil, newGenerationError(s.generator.Name(), errors.New("model returned no answer"))
	}

	evaluation := evaluator.Evaluate(reply)
	metrics.ObserveEvaluation(evaluation, evaluator.Criteria())

	return &models.EvaluationResponse{
		Response:   reply,
		Evaluation: evaluation,
	}, nil
}

func (s *ChatService) validate(req models.PromptRequest) (int, error) {
	fields := map[string]string{}

	if strings.TrimSpace(req.Prompt) == "" {
		fields["prompt"] = "Prompt is required"
	}

	maxTokens := req.MaxTokens
	switch {
	case maxTokens == 0:
		maxTokens = s.defaultMaxTokens
	case maxTokens < 0:
		fields["max_tokens"] = "max_tokens must be positive"
	case maxTokens > s.maxTokensLimit:
		fields["max_tokens"] = fmt.Sprintf("max_tokens must be at most %d", s.maxTokensLimit)
	}

	if len(fields) > 0 {
		return 0, &ValidationError{Fields: fields}
	}
	return maxTokens, nil
}
