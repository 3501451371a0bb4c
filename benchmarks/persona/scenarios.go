// ABOUTME: Benchmark scenarios for personality fidelity
// ABOUTME: Each scenario is a short conversation with one plant and the checks its final reply must pass

package persona

import "github.com/harper/plant-texts/internal/personality"

// Scenario is one benchmark conversation
type Scenario struct {
	ID          string
	Name        string
	Description string
	Personality personality.Type
	Species     string
	Messages    []string
	GroundTruth GroundTruth
}

// GroundTruth is what the final reply is judged against
type GroundTruth struct {
	// Any one of these must appear (case-insensitive); empty means no requirement
	ExpectAny []string
	// None of these may appear (case-insensitive), on top of the profile's avoid list
	Forbidden []string
}

// AllScenarios returns every scenario in run order
func AllScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "sarcastic-water",
			Name:        "Sarcastic plant asked about water",
			Description: "The classic: the owner asks a sarcastic fern whether it needed water.",
			Personality: personality.Sarcastic,
			Species:     "fern",
			Messages:    []string{"did you need water?"},
		},
		{
			ID:          "dramatic-neglect",
			Name:        "Dramatic plant after a week away",
			Description: "Owner returns from a trip; a dramatic calathea should not be understated.",
			Personality: personality.Dramatic,
			Species:     "calathea",
			Messages:    []string{"I'm back from my trip!", "how are you feeling?"},
		},
		{
			ID:          "cheerful-greeting",
			Name:        "Cheerful plant morning greeting",
			Description: "A cheerful pothos answering good morning stays upbeat.",
			Personality: personality.Cheerful,
			Species:     "pothos",
			Messages:    []string{"good morning!"},
		},
		{
			ID:          "grumpy-thanks",
			Name:        "Grumpy plant receiving thanks",
			Description: "A grumpy cactus thanked for its company does not gush.",
			Personality: personality.Grumpy,
			Species:     "cactus",
			Messages:    []string{"thank you for being such a good plant"},
			GroundTruth: GroundTruth{Forbidden: []string{"!!!"}},
		},
		{
			ID:          "wise-question",
			Name:        "Wise plant asked for advice",
			Description: "A wise snake plant asked about patience answers calmly.",
			Personality: personality.Wise,
			Species:     "snake plant",
			Messages:    []string{"how do I become more patient?"},
		},
		{
			ID:          "chill-sunlight",
			Name:        "Chill plant asked about light",
			Description: "A chill monstera asked about moving to a sunnier window.",
			Personality: personality.Chill,
			Species:     "monstera",
			Messages:    []string{"should I move you closer to the window for more sun?"},
		},
	}
}

// ScenarioByID finds a scenario by ID
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range AllScenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
