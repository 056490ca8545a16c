package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentscout/screener/api"
	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/internal/interview"
	"github.com/talentscout/screener/internal/store"
	"github.com/talentscout/screener/pkg/genai"
	"github.com/talentscout/screener/pkg/repository"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	genai.SetLogger(logger)

	log.Printf("Starting screener server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	candidateStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open candidate store: %v", err)
	}

	client, err := genai.NewDefaultClient(cfg.GenAI)
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}
	if err := client.Health(ctx); err != nil {
		// the first session will retry; a cold model host is not fatal
		logger.Warn("model host not reachable", slog.Any("err", err))
	}

	manager := interview.NewManager(client, candidateStore, interview.Config{
		CompanyName:  cfg.CompanyName,
		ExitKeywords: cfg.ExitKeywords,
	}, cfg.SessionIdle, logger)

	handler := api.SetupRoutes(cfg, version, buildTime, manager, candidateStore)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Sweep idle sessions in the background
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				manager.SweepIdle()
			case <-sweepDone:
				return
			}
		}
	}()

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	close(sweepDone)

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := client.Close(); err != nil {
		log.Printf("Error closing model client: %v", err)
	}
	if err := closeStore(); err != nil {
		log.Printf("Error closing store: %v", err)
	}

	log.Println("Server exited")
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.CandidateStore, func() error, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		s, err := store.NewSQLiteStore(ctx, cfg.DatabasePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "json", "":
		s, err := store.NewJSONStore(cfg.CandidatesFile, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
