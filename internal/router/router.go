package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nuitbot/internal/handlers"
	"nuitbot/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	serviceAuth *middleware.ServiceAuth,
	limiter middleware.Limiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/criteria", chatHandler.Criteria)

	// ──── Generation Routes ────
	r.Group(func(r chi.Router) {
		r.Use(serviceAuth.Middleware)
		if limiter != nil {
			r.Use(middleware.RateLimit(limiter))
		}
		r.Post("/generate", chatHandler.Generate)
		r.Post("/chatbot", chatHandler.Chatbot)
		r.Post("/chatbot/", chatHandler.Chatbot)
	})

	return r
}
