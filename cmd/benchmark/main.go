// ABOUTME: Command-line runner for personality fidelity benchmarks
// ABOUTME: Plays scenarios through the chat path and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/harper/plant-texts/benchmarks/persona"
	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/config"
	"github.com/harper/plant-texts/internal/llm"
	"github.com/harper/plant-texts/internal/personality"
	"github.com/joho/godotenv"
)

func main() {
	scenarioID := flag.String("scenario", "", "Run one scenario by ID. If empty, runs all.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	templates := flag.Bool("templates", false, "Benchmark template fallbacks even if a model is configured")
	verbose := flag.Bool("verbose", false, "Print the conversation transcript")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger, err := app.NewLogger("warn")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	table, err := personality.DefaultTable()
	if cfg.PersonalityFile != "" {
		table, err = personality.LoadTableFile(cfg.PersonalityFile)
	}
	if err != nil {
		log.Fatalf("Failed to load personalities: %v", err)
	}

	var model chat.Completer
	modelName := "templates"
	if cfg.ModelEnabled() && !*templates {
		client, err := llm.NewClient(&llm.ClientConfig{
			APIKey:      cfg.OpenAIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			ChatModel:   cfg.ChatModel,
			MaxAttempts: cfg.MaxAttempts,
			RetryDelay:  cfg.RetryDelay,
			Timeout:     cfg.Timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: 0.9,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to create model client: %v", err)
		}
		model = client
		modelName = client.Model()
	}

	scenarios := persona.AllScenarios()
	if *scenarioID != "" {
		s, ok := persona.ScenarioByID(*scenarioID)
		if !ok {
			log.Fatalf("Unknown scenario: %s", *scenarioID)
		}
		scenarios = []persona.Scenario{s}
	}

	fmt.Println("========================================")
	fmt.Printf("Plant Texts personality benchmark (%s)\n", modelName)
	fmt.Println("========================================")

	var transcript io.Writer
	if *verbose {
		transcript = os.Stdout
	}
	runner := persona.NewRunner(model, personality.NewResolver(table), logger, transcript)

	results, err := runner.RunAll(context.Background(), scenarios)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	summary := persona.Summarize(results, modelName)
	fmt.Println()
	for _, r := range results {
		fmt.Printf("%-20s fidelity %.2f  constraints %.2f  %s\n",
			r.ScenarioID, r.FidelityScore, r.ConstraintScore, r.Status)
	}
	fmt.Println("========================================")
	fmt.Printf("Total: %d  Passed: %d  Failed: %d\n", summary.Total, summary.Passed, summary.Failed)

	if err := persona.ExportResults(summary, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
