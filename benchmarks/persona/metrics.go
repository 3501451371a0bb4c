// ABOUTME: Scoring for personality fidelity benchmarks
// ABOUTME: Combines the evaluation heuristics with per-scenario ground truth

package persona

import (
	"fmt"
	"strings"

	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/evaluation"
	"github.com/harper/plant-texts/internal/personality"
)

const (
	// PassThreshold is the minimum fidelity and constraint score for a PASS
	PassThreshold = 0.9
	// MaxReplyTokens bounds a reply in estimated tokens
	MaxReplyTokens = 200
)

// Result is the outcome of one scenario
type Result struct {
	ScenarioID      string                 `json:"scenario_id"`
	ScenarioName    string                 `json:"scenario_name"`
	Personality     string                 `json:"personality"`
	FidelityScore   float64                `json:"fidelity_score"`
	ConstraintScore float64                `json:"constraint_score"`
	OverallScore    float64                `json:"overall_score"`
	Fallback        bool                   `json:"fallback"`
	Status          string                 `json:"status"`
	Details         map[string]interface{} `json:"details"`
}

// Passed reports whether the scenario passed
func (r Result) Passed() bool {
	return r.Status == "PASS"
}

// CalculateConstraints checks the ground truth, the token bound and the fallback marker rule
func CalculateConstraints(reply string, fallback bool, truth GroundTruth) (float64, string) {
	upper := strings.ToUpper(reply)
	var problems []string

	if len(truth.ExpectAny) > 0 {
		found := false
		for _, want := range truth.ExpectAny {
			if strings.Contains(upper, strings.ToUpper(want)) {
				found = true
				break
			}
		}
		if !found {
			problems = append(problems, fmt.Sprintf("none of %v present", truth.ExpectAny))
		}
	}

	for _, bad := range truth.Forbidden {
		if strings.Contains(upper, strings.ToUpper(bad)) {
			problems = append(problems, fmt.Sprintf("forbidden %q present", bad))
		}
	}

	if tokens := chat.TokenEstimate(reply); tokens > MaxReplyTokens {
		problems = append(problems, fmt.Sprintf("reply is ~%d tokens, over %d", tokens, MaxReplyTokens))
	}

	marked := strings.HasSuffix(reply, chat.FallbackMarker)
	if marked != fallback {
		problems = append(problems, fmt.Sprintf("fallback=%v but marker present=%v", fallback, marked))
	}

	if len(problems) == 0 {
		return 1.0, "all constraints met"
	}
	score := 1.0 - 0.5*float64(len(problems))
	if score < 0 {
		score = 0
	}
	return score, strings.Join(problems, "; ")
}

// Evaluate scores the final reply of a scenario
func Evaluate(scenario Scenario, profile personality.Profile, reply string, fallback bool) Result {
	scores := evaluation.Score(profile, reply)
	fidelity := (scores["length_ok"] + scores["avoided_vocabulary"]) / 2
	constraint, detail := CalculateConstraints(reply, fallback, scenario.GroundTruth)

	status := "FAIL"
	if fidelity >= PassThreshold && constraint >= PassThreshold {
		status = "PASS"
	}

	return Result{
		ScenarioID:      scenario.ID,
		ScenarioName:    scenario.Name,
		Personality:     profile.Type.String(),
		FidelityScore:   fidelity,
		ConstraintScore: constraint,
		OverallScore:    (fidelity + constraint) / 2,
		Fallback:        fallback,
		Status:          status,
		Details: map[string]interface{}{
			"constraint_detail": detail,
			"tone_overlap":      scores["tone_phrase_overlap"],
			"reply_tokens":      chat.TokenEstimate(reply),
			"final_reply":       reply,
		},
	}
}
