package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"nuitbot/internal/models"
)

const sessionCookie = "nuitbot_session"

type asker interface {
	Ask(ctx context.Context, question string) (*models.EvaluationResponse, error)
}

type Handler struct {
	store  *Store
	client asker
	secure bool
}

func NewHandler(store *Store, client asker, secureCookies bool) *Handler {
	return &Handler{store: store, client: client, secure: secureCookies}
}

// Routes mounts the chat UI.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", h.Index)
	r.Post("/ask", h.Ask)
	r.Post("/reset", h.Reset)
	r.Get("/tally", h.Tally)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Index renders the conversation, the form and the dashboard. A pending
// error from the last turn is shown once.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	snap := sess.Snapshot()
	snap.Error = sess.TakeError()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(snap).Render(r.Context(), w); err != nil {
		log.Printf("Error rendering chat page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// Ask forwards one question. History only changes when the backend answers.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	question := strings.TrimSpace(r.FormValue("question"))

	if question != "" {
		result, err := h.client.Ask(r.Context(), question)
		if err != nil {
			log.Printf("Chat turn failed for session %s: %v", sess.ID, err)
			sess.RecordFailure(userMessage(err), time.Now())
		} else {
			sess.RecordTurn(question, result, time.Now())
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Reset discards the session; the next visit starts a new one.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		h.store.Discard(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Tally returns the running per-criterion counts as JSON.
func (h *Handler) Tally(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Tally())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	sess := h.store.Get(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func userMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Error()
	}
	return "an unexpected error occurred"
}
