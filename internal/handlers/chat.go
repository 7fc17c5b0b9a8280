package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"nuitbot/internal/evaluator"
	"nuitbot/internal/models"
)

// Request bodies above this size are rejected before decoding.
const maxBodyBytes = 64 << 10

type responder interface {
	Respond(ctx context.Context, req models.PromptRequest) (*models.EvaluationResponse, error)
}

type ChatHandler struct {
	chatService responder
}

func NewChatHandler(chatService responder) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Generate handles POST /generate with {prompt, max_tokens?}.
func (h *ChatHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.PromptRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.respond(w, r, req)
}

// Chatbot handles POST /chatbot/ with {question}, using the default token budget.
func (h *ChatHandler) Chatbot(w http.ResponseWriter, r *http.Request) {
	var req models.ChatbotRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.respond(w, r, models.PromptRequest{Prompt: req.Question})
}

// Criteria lists the evaluation criteria in display order.
func (h *ChatHandler) Criteria(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"criteria": evaluator.Describe(),
	})
}

func (h *ChatHandler) respond(w http.ResponseWriter, r *http.Request, req models.PromptRequest) {
	resp, err := h.chatService.Respond(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
