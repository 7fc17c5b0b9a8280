package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nuitbot/internal/middleware"
	"nuitbot/internal/models"
)

const serviceName = "chat-client"

// TransportError is any failed exchange with the backend.
type TransportError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return "backend unreachable: " + e.Err.Error()
	case e.Message != "":
		return e.Message
	default:
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client sends one question per turn to the backend's /chatbot/ endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	auth     *middleware.ServiceAuth
}

func NewClient(backendURL string, timeout time.Duration, auth *middleware.ServiceAuth) *Client {
	return &Client{
		endpoint: backendURL + "/chatbot/",
		http:     &http.Client{Timeout: timeout},
		auth:     auth,
	}
}

// Ask posts {question} and returns the reply with its evaluation. The
// evaluation is taken from the backend as-is.
func (c *Client) Ask(ctx context.Context, question string) (*models.EvaluationResponse, error) {
	body, err := json.Marshal(models.ChatbotRequest{Question: question})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if c.auth != nil {
		token, err := c.auth.GenerateServiceToken(serviceName)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("sign service token: %w", err)}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeTransportError(resp)
	}

	var out models.EvaluationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &out, nil
}

func decodeTransportError(resp *http.Response) *TransportError {
	te := &TransportError{Status: resp.StatusCode}

	var envelope models.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
		te.Code = envelope.Error.Code
		te.Message = envelope.Error.Message
	}
	return te
}
