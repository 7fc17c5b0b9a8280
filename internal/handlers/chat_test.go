package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuitbot/internal/models"
	"nuitbot/internal/services"
)

type stubGenerator struct {
	reply      string
	err        error
	lastPrompt string
	lastMax    int
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.lastPrompt = prompt
	s.lastMax = maxTokens
	return s.reply, s.err
}

func newTestHandler(gen *stubGenerator) *ChatHandler {
	return NewChatHandler(services.NewChatService(gen, 150, 1024))
}

func post(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-1")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

// ─── Generate ───

func TestChatHandler_Generate_EndToEnd(t *testing.T) {
	gen := &stubGenerator{reply: "A simple and scalable dashboard with real time data."}
	h := newTestHandler(gen)

	rr := post(t, h.Generate, "/generate", models.PromptRequest{Prompt: "How should I design the dashboard?", MaxTokens: 200})
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))

	assert.Equal(t, map[string]interface{}{
		"response":            "A simple and scalable dashboard with real time data.",
		"simplicity":          true,
		"technical_relevance": true,
		"technical_bonus":     true,
		"creative_bonus":      false,
	}, body, "evaluation booleans are flattened next to the response")
	assert.Equal(t, 200, gen.lastMax)
}

func TestChatHandler_Generate_DefaultTokenBudget(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	h := newTestHandler(gen)

	rr := post(t, h.Generate, "/generate", `{"prompt":"hello"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 150, gen.lastMax)
}

func TestChatHandler_Generate_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"malformed json", `{"prompt":`, ""},
		{"wrong type", `{"prompt": 12}`, ""},
		{"missing prompt", `{}`, "prompt"},
		{"negative max tokens", `{"prompt":"hi","max_tokens":-3}`, "max_tokens"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(&stubGenerator{reply: "ok"})
			rr := post(t, h.Generate, "/generate", tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			apiErr := decodeError(t, rr)
			assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
			assert.Equal(t, "req-1", apiErr.RequestID)
			if tc.field != "" {
				assert.Contains(t, apiErr.Fields, tc.field)
			}
		})
	}
}

func TestChatHandler_Generate_OversizedBody(t *testing.T) {
	h := newTestHandler(&stubGenerator{reply: "ok"})
	body := `{"prompt":"` + strings.Repeat("a", maxBodyBytes) + `"}`

	rr := post(t, h.Generate, "/generate", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChatHandler_Generate_InferenceFailure(t *testing.T) {
	h := newTestHandler(&stubGenerator{err: errors.New("model unavailable")})

	rr := post(t, h.Generate, "/generate", models.PromptRequest{Prompt: "hi"})

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, "GENERATION_FAILED", apiErr.Code)
	assert.Equal(t, "generation failed: model unavailable", apiErr.Message)
}

// ─── Chatbot ───

func TestChatHandler_Chatbot_UsesQuestion(t *testing.T) {
	gen := &stubGenerator{reply: "Answer: Build an innovative web API."}
	h := newTestHandler(gen)

	rr := post(t, h.Chatbot, "/chatbot/", models.ChatbotRequest{Question: "What should we build?"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.EvaluationResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Build an innovative web API.", resp.Response)
	assert.True(t, resp.TechnicalRelevance)
	assert.True(t, resp.CreativeBonus)
	assert.False(t, resp.Simplicity)
	assert.Contains(t, gen.lastPrompt, "Question: What should we build?")
	assert.Equal(t, 150, gen.lastMax)
}

func TestChatHandler_Chatbot_EmptyQuestion(t *testing.T) {
	h := newTestHandler(&stubGenerator{reply: "ok"})

	rr := post(t, h.Chatbot, "/chatbot/", models.ChatbotRequest{Question: "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ─── Error mapping ───

type stubResponder struct{ err error }

func (s stubResponder) Respond(ctx context.Context, req models.PromptRequest) (*models.EvaluationResponse, error) {
	return nil, s.err
}

func TestHandleServiceError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"rate limit", &services.RateLimitError{Message: "slow down"}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"wrapped generation", errors.Join(errors.New("ctx"), &services.GenerationError{Reason: "x"}), http.StatusServiceUnavailable, "GENERATION_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewChatHandler(stubResponder{err: tc.err})
			rr := post(t, h.Generate, "/generate", models.PromptRequest{Prompt: "hi"})

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.code, decodeError(t, rr).Code)
		})
	}
}

func TestChatHandler_Criteria(t *testing.T) {
	h := NewChatHandler(stubResponder{})
	rr := httptest.NewRecorder()
	h.Criteria(rr, httptest.NewRequest(http.MethodGet, "/criteria", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Criteria []models.CriterionInfo `json:"criteria"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Criteria, 4)
	assert.Equal(t, "Technical Relevance", body.Criteria[1].Label)
}
