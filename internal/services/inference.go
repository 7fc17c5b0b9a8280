package services

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator is a hosted text-generation model.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Sampling parameters shared by every provider.
const (
	temperature = 0.7
	topP        = 0.9
	topK        = 40
)

// answerMarker ends the enhanced prompt; anything up to its last
// occurrence in a reply is prompt echo.
const answerMarker = "Answer:"

// buildEnhancedPrompt wraps a user question in the competition context.
func buildEnhancedPrompt(question string) string {
	var b strings.Builder

	b.WriteString("Consider La Nuit de l'Info 2024 requirements:\n")
	b.WriteString("- Simple and efficient web application\n")
	b.WriteString("- Data centralization and clear interface\n")
	b.WriteString("- Dashboard, notifications, and simulations\n")
	b.WriteString("- Technical relevance and reliability\n")
	b.WriteString("- Possibility for creative/humorous approaches\n\n")
	b.WriteString("Question: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n")
	b.WriteString(answerMarker)

	return b.String()
}

// stripPromptEcho drops everything up to the last answer marker.
func stripPromptEcho(text string) string {
	if i := strings.LastIndex(text, answerMarker); i >= 0 {
		text = text[i+len(answerMarker):]
	}
	return strings.TrimSpace(text)
}

// slots bounds the number of in-flight inference calls.
type slots chan struct{}

func newSlots(n int) slots {
	if n <= 0 {
		n = 1
	}
	s := make(slots, n)
	for i := 0; i < n; i++ {
		s <- struct{}{}
	}
	return s
}

// acquire blocks until a slot is available
func (s slots) acquire(ctx context.Context, provider string) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for %s inference slot", provider)
	}
}

func (s slots) release() {
	s <- struct{}{}
}
