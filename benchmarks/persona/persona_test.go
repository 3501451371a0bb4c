// ABOUTME: Tests for the personality fidelity benchmark
// ABOUTME: Runs every scenario in template mode and checks scoring rules

package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/llm"
	"github.com/harper/plant-texts/internal/personality"
	openai "github.com/sashabaranov/go-openai"
)

type cannedModel struct{ text string }

func (c cannedModel) Complete(context.Context, []openai.ChatCompletionMessage) (llm.Completion, error) {
	return llm.Completion{Text: c.text, Attempts: 1}, nil
}

func newRunner(model chat.Completer, out io.Writer) *Runner {
	return NewRunner(model, personality.NewResolver(personality.MustDefaultTable()), nil, out)
}

func TestScenarioIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range AllScenarios() {
		if seen[s.ID] {
			t.Errorf("duplicate scenario ID %q", s.ID)
		}
		seen[s.ID] = true
		if len(s.Messages) == 0 {
			t.Errorf("scenario %q has no messages", s.ID)
		}
	}
	if _, ok := ScenarioByID("sarcastic-water"); !ok {
		t.Error("ScenarioByID(sarcastic-water) not found")
	}
	if _, ok := ScenarioByID("nope"); ok {
		t.Error("ScenarioByID(nope) should not be found")
	}
}

func TestRunAll_TemplatesPass(t *testing.T) {
	var out bytes.Buffer
	results, err := newRunner(nil, &out).RunAll(context.Background(), AllScenarios())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != len(AllScenarios()) {
		t.Fatalf("got %d results, want %d", len(results), len(AllScenarios()))
	}
	for _, r := range results {
		if !r.Fallback {
			t.Errorf("%s: Fallback = false without a model", r.ScenarioID)
		}
		if !r.Passed() {
			t.Errorf("%s: %s (%v)", r.ScenarioID, r.Status, r.Details["constraint_detail"])
		}
	}
	if out.Len() == 0 {
		t.Error("expected a transcript")
	}
}

func TestRun_ModelReplyIsCleaned(t *testing.T) {
	scenario, _ := ScenarioByID("sarcastic-water")
	result, err := newRunner(cannedModel{"Sorry, oh wow, water. Shocking."}, nil).Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Fallback {
		t.Error("Fallback = true with a working model")
	}
	if result.FidelityScore != 1.0 {
		t.Errorf("FidelityScore = %v, want 1.0 once avoided words are stripped", result.FidelityScore)
	}
	if !result.Passed() {
		t.Errorf("Status = %s (%v)", result.Status, result.Details)
	}
}

func TestCalculateConstraints(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		fallback bool
		truth    GroundTruth
		want     float64
	}{
		{"clean model reply", "Hmph. Fine.", false, GroundTruth{}, 1.0},
		{"marked fallback", "Hmph. " + chat.FallbackMarker, true, GroundTruth{}, 1.0},
		{"unmarked fallback", "Hmph.", true, GroundTruth{}, 0.5},
		{"marker on model reply", "Hmph. " + chat.FallbackMarker, false, GroundTruth{}, 0.5},
		{"forbidden present", "WOW!!!", false, GroundTruth{Forbidden: []string{"!!!"}}, 0.5},
		{"expected missing", "hello", false, GroundTruth{ExpectAny: []string{"water"}}, 0.5},
		{"expected present", "More WATER", false, GroundTruth{ExpectAny: []string{"water", "sun"}}, 1.0},
		{"too many tokens", strings.Repeat("leaf ", 200), false, GroundTruth{}, 0.5},
		{"many problems floor at zero", "x!!!", true, GroundTruth{ExpectAny: []string{"y"}, Forbidden: []string{"!!!"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, detail := CalculateConstraints(tt.reply, tt.fallback, tt.truth)
			if got != tt.want {
				t.Errorf("CalculateConstraints() = %v (%s), want %v", got, detail, tt.want)
			}
		})
	}
}

func TestExportResults(t *testing.T) {
	results := []Result{{ScenarioID: "a", Status: "PASS"}, {ScenarioID: "b", Status: "FAIL"}}
	summary := Summarize(results, "templates")
	if summary.Passed != 1 || summary.Failed != 1 || summary.Total != 2 {
		t.Errorf("Summarize() = %+v", summary)
	}

	path := filepath.Join(t.TempDir(), "results.json")
	if err := ExportResults(summary, path); err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Summary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("exported file is not JSON: %v", err)
	}
	if got.Model != "templates" || len(got.Results) != 2 {
		t.Errorf("round trip = %+v", got)
	}
}
