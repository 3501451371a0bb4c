// ABOUTME: Runner for personality fidelity benchmarks
// ABOUTME: Plays each scenario through the real chat path against a fresh in-memory database

package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	"github.com/harper/plant-texts/internal/storage/sqlite"
	"go.uber.org/zap"
)

// Runner executes benchmark scenarios
type Runner struct {
	model    chat.Completer
	resolver *personality.Resolver
	logger   *zap.Logger
	out      io.Writer
}

// NewRunner creates a runner. A nil model benchmarks the template fallbacks;
// out receives a transcript and may be nil.
func NewRunner(model chat.Completer, resolver *personality.Resolver, logger *zap.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{model: model, resolver: resolver, logger: logger, out: out}
}

// Run plays one scenario and scores its final reply
func (r *Runner) Run(ctx context.Context, scenario Scenario) (Result, error) {
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create test storage: %w", err)
	}
	defer store.Close()

	user, err := models.NewUser("Benchmark", "")
	if err != nil {
		return Result{}, err
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return Result{}, err
	}
	plant, err := models.NewPlant(user.UserID, scenario.ID, scenario.Species, scenario.Personality.String())
	if err != nil {
		return Result{}, err
	}
	if err := store.CreatePlant(ctx, plant); err != nil {
		return Result{}, err
	}

	svc := &chat.Service{
		Plants:    store,
		Turns:     store,
		Resolver:  r.resolver,
		Generator: chat.NewGenerator(r.model, chat.DefaultHistoryWindow, r.logger),
		Logger:    r.logger,
	}

	fmt.Fprintf(r.out, "\n== %s (%s) ==\n", scenario.Name, scenario.Personality)

	var last *chat.Reply
	for i, msg := range scenario.Messages {
		reply, err := svc.Chat(ctx, plant.PlantID, msg)
		if err != nil {
			return Result{}, fmt.Errorf("message %d failed: %w", i+1, err)
		}
		fmt.Fprintf(r.out, "  user:  %s\n  plant: %s\n", msg, reply.ResponseText)
		last = reply
	}
	if last == nil {
		return Result{}, fmt.Errorf("scenario %s has no messages", scenario.ID)
	}

	result := Evaluate(scenario, r.resolver.ResolveType(scenario.Personality), last.ResponseText, last.Fallback)
	fmt.Fprintf(r.out, "  fidelity %.2f  constraints %.2f  %s\n", result.FidelityScore, result.ConstraintScore, result.Status)
	return result, nil
}

// RunAll plays every scenario in order
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, scenario := range scenarios {
		result, err := r.Run(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %s failed: %w", scenario.ID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Summary is the exported benchmark report
type Summary struct {
	Timestamp string   `json:"timestamp"`
	Model     string   `json:"model"`
	Total     int      `json:"total"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// Summarize counts passes and failures
func Summarize(results []Result, model string) Summary {
	s := Summary{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Model:     model,
		Total:     len(results),
		Results:   results,
	}
	for _, r := range results {
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// ExportResults writes the summary as indented JSON
func ExportResults(summary Summary, outputPath string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
