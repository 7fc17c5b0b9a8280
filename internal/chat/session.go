// Package chat is the browser-facing chat client. It keeps each visitor's
// conversation in memory, forwards questions to the backend and renders the
// history together with the evaluation dashboard.
package chat

import (
	"sync"
	"time"

	"nuitbot/internal/models"
)

// Session is one visitor's conversation. Messages and evaluations are
// append-only; a turn adds a user message, an assistant message and one
// evaluation together, or nothing at all.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.RWMutex
	messages    []models.ChatMessage
	evaluations []models.Evaluation
	lastError   string
	updatedAt   time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, updatedAt: now}
}

// RecordTurn appends a successful exchange and clears any pending error.
func (s *Session) RecordTurn(question string, result *models.EvaluationResponse, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages,
		models.ChatMessage{Role: models.RoleUser, Content: question, CreatedAt: now},
		models.ChatMessage{Role: models.RoleAssistant, Content: result.Response, CreatedAt: now},
	)
	s.evaluations = append(s.evaluations, result.Evaluation)
	s.lastError = ""
	s.updatedAt = now
}

// RecordFailure keeps the error for the next render without touching history.
func (s *Session) RecordFailure(msg string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
	s.updatedAt = now
}

// TakeError returns the pending error once.
func (s *Session) TakeError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.lastError
	s.lastError = ""
	return msg
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.updatedAt = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.updatedAt)
}

// Snapshot is a consistent copy of a session for rendering.
type Snapshot struct {
	ID          string
	Messages    []models.ChatMessage
	Evaluations []models.Evaluation
	Tally       models.Tally
	Error       string
}

// Latest returns the most recent evaluation, if any.
func (s Snapshot) Latest() (models.Evaluation, bool) {
	if len(s.Evaluations) == 0 {
		return models.Evaluation{}, false
	}
	return s.Evaluations[len(s.Evaluations)-1], true
}

// Snapshot copies the history and recomputes the tally from it.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:          s.ID,
		Messages:    append([]models.ChatMessage(nil), s.messages...),
		Evaluations: append([]models.Evaluation(nil), s.evaluations...),
		Error:       s.lastError,
	}
	snap.Tally = tally(snap.Evaluations)
	return snap
}

// Tally recomputes per-criterion counts from the evaluation history.
func (s *Session) Tally() models.Tally {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tally(s.evaluations)
}

func tally(evaluations []models.Evaluation) models.Tally {
	var t models.Tally
	for _, e := range evaluations {
		t.Add(e)
	}
	return t
}
