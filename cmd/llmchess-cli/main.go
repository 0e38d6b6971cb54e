// Package main implements local interactive play against a language model
// opponent, without running the HTTP server.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"llmchess/internal/ai"
	"llmchess/internal/cli"
	"llmchess/internal/service"
	transportcli "llmchess/internal/transport/cli"

	"github.com/joho/godotenv"
)

func main() {
	var (
		llmURL   = flag.String("llm-url", "https://api.openai.com/v1", "Chat completion API base URL")
		llmModel = flag.String("llm-model", "gpt-4o-mini", "Model name for the opponent")
		llmTemp  = flag.Float64("llm-temperature", 0.7, "Sampling temperature for completions")

		breakThreshold = flag.Int("break-threshold", 6, "Model moves that are always rule-bound before rule-breaking may begin")
		breakProb      = flag.Float64("break-probability", 0.2, "Per-turn probability of a rule-breaking move past the threshold")
	)
	flag.Parse()

	_ = godotenv.Load()
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		log.Printf("Warning: LLM_API_KEY not set, completion requests may be rejected")
	}

	client := ai.NewClient(*llmURL, apiKey, *llmModel)
	client.Temperature = *llmTemp

	// No persistence for local play
	svc := service.New(nil, client, ai.Config{
		BreakThreshold:   *breakThreshold,
		BreakProbability: *breakProb,
	})
	defer svc.Shutdown(2 * time.Second)

	view, err := cli.New()
	if err != nil {
		log.Fatalf("Failed to initialize terminal: %v", err)
	}
	defer view.Close()

	handler := transportcli.New(svc, view, *llmModel)
	handler.Run()
}
