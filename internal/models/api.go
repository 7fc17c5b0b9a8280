package models

// APIError is the body of every non-2xx JSON response.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// CriterionInfo describes one evaluation criterion for clients.
type CriterionInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
