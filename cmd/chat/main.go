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

	"nuitbot/internal/chat"
	"nuitbot/internal/config"
	"nuitbot/internal/middleware"
)

func main() {
	log.Println("🚀 Starting Nuit de l'Info chat client...")

	cfg := config.LoadChat()
	log.Println("✓ Environment variables loaded")

	store := chat.NewStore(cfg.SessionIdleTimeout)
	store.Start()
	log.Printf("✓ Session store started (idle timeout %s)", cfg.SessionIdleTimeout)

	client := chat.NewClient(cfg.BackendURL, cfg.BackendTimeout, middleware.NewServiceAuth(cfg.ServiceTokenSecret))
	log.Printf("✓ Backend client configured (%s)", cfg.BackendURL)

	handler := chat.NewHandler(store, client, cfg.Env == "production")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		store.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("✓ Chat client ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-idleConnsClosed
}
