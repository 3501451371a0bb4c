// ABOUTME: Deterministic style scores attached to evaluation records
// ABOUTME: Cheap heuristics only; the evaluation service does the real grading
package evaluation

import (
	"strings"
	"unicode/utf8"

	"github.com/harper/plant-texts/internal/personality"
)

// smsRunes is the length a reply should fit in to read as a text message
const smsRunes = 320

// Score computes heuristic scores in [0,1]:
//   - length_ok: 1 when the reply fits in smsRunes, decaying linearly to 0 at twice that
//   - avoided_vocabulary: 1 when no avoided word appears, minus 0.5 per hit
//   - tone_phrase_overlap: fraction of preferred words/phrases present, capped at 1 after two hits
func Score(profile personality.Profile, response string) map[string]float64 {
	return map[string]float64{
		"length_ok":           lengthScore(response),
		"avoided_vocabulary":  avoidScore(profile, response),
		"tone_phrase_overlap": overlapScore(profile, response),
	}
}

func lengthScore(response string) float64 {
	n := utf8.RuneCountInString(response)
	if n <= smsRunes {
		return 1.0
	}
	if n >= 2*smsRunes {
		return 0.0
	}
	return float64(2*smsRunes-n) / float64(smsRunes)
}

func avoidScore(profile personality.Profile, response string) float64 {
	words := wordSet(response)
	score := 1.0
	for _, avoid := range profile.Vocabulary.Avoid {
		if words[strings.ToLower(avoid)] {
			score -= 0.5
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

func overlapScore(profile personality.Profile, response string) float64 {
	if len(profile.Vocabulary.Prefer) == 0 {
		return 0
	}
	lower := strings.ToLower(response)
	hits := 0
	for _, phrase := range profile.Vocabulary.Prefer {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			hits++
		}
	}
	if hits >= 2 {
		return 1.0
	}
	return float64(hits) / 2
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r == '\'' || r == '-' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'))
	}) {
		set[w] = true
	}
	return set
}
