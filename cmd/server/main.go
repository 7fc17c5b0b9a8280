package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"nuitbot/internal/config"
	"nuitbot/internal/database"
	"nuitbot/internal/handlers"
	"nuitbot/internal/metrics"
	"nuitbot/internal/middleware"
	"nuitbot/internal/router"
	"nuitbot/internal/services"
)

func main() {
	log.Println("🚀 Starting Nuit de l'Info backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Inference Provider ────
	var generator services.Generator
	switch cfg.LLMProvider {
	case "openai":
		generator = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.InferenceConcurrentReqs)
		log.Printf("✓ OpenAI client initialized (%s)", cfg.OpenAIModel)
	default:
		geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.InferenceConcurrentReqs)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer geminiService.Close()
		generator = geminiService
		log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)
	}

	metrics.Register()
	chatService := services.NewChatService(generator, cfg.DefaultMaxTokens, cfg.MaxTokensLimit)

	// ──── Step 3: Initialize Rate Limiter ────
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		limiter = middleware.NewRedisRateLimiter(redisClient, cfg.RateLimitPerMin, time.Minute)
		log.Printf("✓ Redis rate limiter enabled (%d req/min)", cfg.RateLimitPerMin)
	} else if cfg.RateLimitPerMin > 0 {
		memLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
		defer memLimiter.Stop()
		limiter = memLimiter
		log.Printf("✓ In-memory rate limiter enabled (%d req/min)", cfg.RateLimitPerMin)
	}

	serviceAuth := middleware.NewServiceAuth(cfg.ServiceTokenSecret)
	if serviceAuth == nil {
		log.Println("⚠ SERVICE_TOKEN_SECRET not set, generation endpoints are open")
	}

	// ──── Step 4: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(chatService)
	r := router.New(chatHandler, serviceAuth, limiter, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("✓ Backend ready on http://localhost:%s (provider: %s)", cfg.Port, generator.Name())
	log.Printf("  Chat:    POST http://localhost:%s/chatbot/", cfg.Port)
	log.Printf("  Metrics: http://localhost:%s/metrics", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-idleConnsClosed
}
