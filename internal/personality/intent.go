// ABOUTME: Coarse intent detection for user messages
// ABOUTME: Keyword based, used to pick fallback templates
package personality

import (
	"strings"
	"unicode"
)

// Intent is the coarse topic of a user message, used to pick fallback
// templates and reminder wording.
type Intent string

const (
	IntentWatering    Intent = "watering"
	IntentFertilizing Intent = "fertilizing"
	IntentMisting     Intent = "misting"
	IntentPruning     Intent = "pruning"
	IntentRepotting   Intent = "repotting"
	IntentLight       Intent = "light"
	IntentGreeting    Intent = "greeting"
	IntentGeneral     Intent = "general"
)

// Intents lists every intent.
func Intents() []Intent {
	return []Intent{
		IntentWatering, IntentFertilizing, IntentMisting, IntentPruning,
		IntentRepotting, IntentLight, IntentGreeting, IntentGeneral,
	}
}

func (i Intent) valid() bool {
	for _, known := range Intents() {
		if i == known {
			return true
		}
	}
	return false
}

type intentRule struct {
	intent   Intent
	prefixes []string // token prefixes
	exact    []string // whole tokens
}

// Checked in order; care topics win over greetings so "hi, need water?" is watering.
var intentRules = []intentRule{
	{IntentRepotting, []string{"repot", "root"}, []string{"pot", "pots", "rootbound"}},
	{IntentWatering, []string{"water", "thirst", "drink", "dry", "soggy", "parch"}, []string{"wet"}},
	{IntentFertilizing, []string{"fertili", "nutrient", "feed", "plantfood"}, []string{"food", "fed"}},
	{IntentMisting, []string{"humid", "spritz", "spray"}, []string{"mist", "misting", "misted", "mister"}},
	{IntentPruning, []string{"prun", "trim", "brown", "yellow", "wilt", "dead"}, []string{"cut", "leggy"}},
	{IntentLight, []string{"light", "shade", "window"}, []string{"sun", "sunny", "sunlight", "sunshine", "dark", "bright", "lamp"}},
	{IntentGreeting, []string{"hello", "hey", "morning", "evening", "howdy"}, []string{"hi", "hiya", "yo", "sup"}},
}

// DetectIntent classifies a message by keyword. Messages with no keyword
// match are IntentGeneral.
func DetectIntent(message string) Intent {
	tokens := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, rule := range intentRules {
		for _, tok := range tokens {
			if rule.matches(tok) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

func (r intentRule) matches(tok string) bool {
	for _, e := range r.exact {
		if tok == e {
			return true
		}
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(tok, p) {
			return true
		}
	}
	return false
}
