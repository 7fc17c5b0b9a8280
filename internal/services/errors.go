package services

import "fmt"

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// GenerationError reports that the inference step failed. It is never retried.
type GenerationError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }

func newGenerationError(provider string, err error) *GenerationError {
	return &GenerationError{Provider: provider, Reason: err.Error(), Err: err}
}

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }
