// Package main implements the llmchess server application with a RESTful
// API and optional SQLite persistence.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llmchess/cmd/llmchess-server/cli"
	"llmchess/internal/ai"
	"llmchess/internal/service"
	"llmchess/internal/storage"
	"llmchess/internal/transport/http"

	"github.com/joho/godotenv"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	// Command-line flags
	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")

		// Completion service flags
		llmURL   = flag.String("llm-url", "https://api.openai.com/v1", "Chat completion API base URL")
		llmModel = flag.String("llm-model", "gpt-4o-mini", "Model name for the opponent")
		llmTemp  = flag.Float64("llm-temperature", 0.7, "Sampling temperature for completions")

		// Rule-adherence policy defaults, overridable per game
		breakThreshold = flag.Int("break-threshold", 6, "Model moves that are always rule-bound before rule-breaking may begin")
		breakProb      = flag.Float64("break-probability", 0.2, "Per-turn probability of a rule-breaking move past the threshold")
	)
	flag.Parse()

	// Validate PID flags
	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	// Manage PID file if requested
	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// .env holds the API key; absence is fine when the environment is set
	_ = godotenv.Load()
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		log.Printf("Warning: LLM_API_KEY not set, completion requests may be rejected")
	}

	// 1. Initialize Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Initialize the completion client
	client := ai.NewClient(*llmURL, apiKey, *llmModel)
	client.Temperature = *llmTemp

	// 3. Initialize the Service with optional storage
	svc := service.New(store, client, ai.Config{
		BreakThreshold:   *breakThreshold,
		BreakProbability: *breakProb,
	})

	// 4. Initialize the Fiber App/HTTP Handler
	app := http.NewFiberApp(svc, *dev)

	// API Server configuration
	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	// Start API server in a goroutine
	go func() {
		log.Printf("llmchess API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		log.Printf("API Version: v1")
		log.Printf("Opponent model: %s (%s)", *llmModel, *llmURL)
		log.Printf("Rule-breaking: threshold=%d probability=%.2f", *breakThreshold, *breakProb)
		if *storagePath != "" {
			log.Printf("Storage: Enabled (%s)", *storagePath)
		} else {
			log.Printf("Storage: Disabled")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown of HTTP server with timeout
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown service last (includes wait registry and storage cleanup)
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	log.Println("Server exited")
}
