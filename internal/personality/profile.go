// ABOUTME: Personality profile with tone, vocabulary and fallbacks
// ABOUTME: Selects fallback templates deterministically
package personality

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// lastResort is used only if a profile somehow has no templates at all.
const lastResort = "I'm here, quietly photosynthesizing."

// Vocabulary constrains word choice for a personality.
type Vocabulary struct {
	Prefer []string `yaml:"prefer" json:"prefer"`
	Avoid  []string `yaml:"avoid" json:"avoid"`
}

// Profile is the response style for one personality type. Profiles are
// reference data: callers must treat the slices and map as read-only.
type Profile struct {
	Type            Type                `yaml:"type" json:"type"`
	DisplayName     string              `yaml:"display_name" json:"display_name"`
	ToneDescriptors []string            `yaml:"tone" json:"tone_descriptors"`
	Vocabulary      Vocabulary          `yaml:"vocabulary" json:"vocabulary"`
	SamplePhrases   []string            `yaml:"sample_phrases" json:"sample_phrases"`
	Fallbacks       map[Intent][]string `yaml:"fallbacks" json:"-"`
}

// Template returns a pre-written line for the intent, falling back to the
// general templates. The choice is a pure function of seed.
func (p Profile) Template(intent Intent, seed string) string {
	templates := p.Fallbacks[intent]
	if len(templates) == 0 {
		templates = p.Fallbacks[IntentGeneral]
	}
	if len(templates) == 0 {
		return lastResort
	}
	key := strings.ToLower(strings.TrimSpace(seed))
	return templates[xxhash.Sum64String(key)%uint64(len(templates))]
}

// Avoids reports whether word is on the profile's avoid list.
func (p Profile) Avoids(word string) bool {
	for _, w := range p.Vocabulary.Avoid {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}
