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

	"github.com/robfig/cron/v3"

	"github.com/smartnews-english/enricher/internal/config"
	"github.com/smartnews-english/enricher/internal/handlers"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create server
	server, err := handlers.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer server.Close()

	// Setup routes
	router := server.SetupRoutes()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep the hosted inference models warm so requests don't hit the
	// model-loading 503 path. Disabled when no schedule is configured.
	var scheduler *cron.Cron
	if cfg.KeepWarmSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.KeepWarmSchedule, func() {
			warmCtx, warmCancel := context.WithTimeout(ctx, 60*time.Second)
			defer warmCancel()
			server.WarmModels(warmCtx)
		})
		if err != nil {
			log.Fatalf("Invalid keep-warm schedule %q: %v", cfg.KeepWarmSchedule, err)
		}
		scheduler.Start()
		log.Printf("Keep-warm scheduler running: %s", cfg.KeepWarmSchedule)
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server
	go func() {
		log.Printf("Starting server on %s:%s", cfg.Host, cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down server...")

	// Stop background tasks
	cancel()
	if scheduler != nil {
		scheduler.Stop()
	}

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
