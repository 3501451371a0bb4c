// ABOUTME: Tests for personality types, tables and resolution
// ABOUTME: Includes intent detection and template selection
package personality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_CoversEveryType(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	for _, typ := range Types() {
		p := table.Profile(typ)
		assert.Equal(t, typ, p.Type)
		assert.NotEmpty(t, p.ToneDescriptors, "%s has no tone descriptors", typ)
		assert.NotEmpty(t, p.SamplePhrases, "%s has no sample phrases", typ)
		assert.NotEmpty(t, p.Fallbacks[IntentGeneral], "%s has no general fallback", typ)
		for _, intent := range []Intent{IntentWatering, IntentFertilizing, IntentMisting, IntentPruning, IntentRepotting} {
			assert.NotEmpty(t, p.Fallbacks[intent], "%s has no %s fallback", typ, intent)
		}
	}
}

func TestDefaultTable_TemplatesRespectVocabulary(t *testing.T) {
	table := MustDefaultTable()
	for _, p := range table.Profiles() {
		for intent, templates := range p.Fallbacks {
			for _, tmpl := range templates {
				for _, word := range p.Vocabulary.Avoid {
					assert.NotContains(t, strings.ToLower(tmpl), strings.ToLower(word),
						"%s %s template uses avoided word", p.Type, intent)
				}
			}
		}
	}
}

func TestResolve_RecognizedTypes(t *testing.T) {
	r := NewResolver(MustDefaultTable())

	for _, typ := range Types() {
		p := r.Resolve(typ.String())
		assert.Equal(t, typ, p.Type)
		assert.NotEmpty(t, p.ToneDescriptors)
	}

	assert.Equal(t, Sarcastic, r.Resolve("  SARCASTIC ").Type)
}

func TestResolve_UnknownFallsBackToDefault(t *testing.T) {
	r := NewResolver(MustDefaultTable())

	for _, name := range []string{"", "passive-aggressive", "chill!", "42"} {
		first := r.Resolve(name)
		second := r.Resolve(name)
		assert.Equal(t, Default, first.Type, "name %q", name)
		assert.Equal(t, first.DisplayName, second.DisplayName)
		assert.Equal(t, first.ToneDescriptors, second.ToneDescriptors)
	}
}

func TestResolveType_OutOfRange(t *testing.T) {
	r := NewResolver(MustDefaultTable())

	assert.Equal(t, Default, r.ResolveType(Type(-1)).Type)
	assert.Equal(t, Default, r.ResolveType(numTypes).Type)
	assert.Equal(t, Wise, r.ResolveType(Wise).Type)
}

func TestType_TextRoundTrip(t *testing.T) {
	for _, typ := range Types() {
		text, err := typ.MarshalText()
		require.NoError(t, err)

		var got Type
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, typ, got)
	}

	var bad Type
	assert.Error(t, bad.UnmarshalText([]byte("moody")))
	_, err := Type(99).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "personality(99)", Type(99).String())
}

func TestLoadTable_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing types",
			yaml: `
personalities:
  - type: chill
    display_name: Chill
    tone: [mellow]
    fallbacks:
      general: ["hi"]
`,
			want: "missing from table",
		},
		{
			name: "unknown type",
			yaml: `
personalities:
  - type: moody
`,
			want: "unknown personality type",
		},
		{
			name: "no type",
			yaml: `
personalities:
  - display_name: Chill
    tone: [mellow]
    fallbacks:
      general: ["hi"]
`,
			want: "entry 1 has no type",
		},
		{
			name: "no tone",
			yaml: `
personalities:
  - type: chill
    display_name: Chill
    fallbacks:
      general: ["hi"]
`,
			want: "no tone descriptors",
		},
		{
			name: "duplicate",
			yaml: `
personalities:
  - type: chill
    display_name: Chill
    tone: [mellow]
    fallbacks:
      general: ["hi"]
  - type: chill
    display_name: Chill
    tone: [mellow]
    fallbacks:
      general: ["hi"]
`,
			want: "more than once",
		},
		{
			name: "unknown intent",
			yaml: `
personalities:
  - type: chill
    display_name: Chill
    tone: [mellow]
    fallbacks:
      general: ["hi"]
      dancing: ["wheee"]
`,
			want: "unknown fallback intent",
		},
		{
			name: "unknown field",
			yaml: `
personalities:
  - type: chill
    mood: happy
`,
			want: "decoding personality table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTemplate_Deterministic(t *testing.T) {
	p := MustDefaultTable().Profile(Sarcastic)

	first := p.Template(IntentWatering, "did you need water?")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, p.Template(IntentWatering, "did you need water?"))
	}
	assert.Contains(t, p.Fallbacks[IntentWatering], first)

	// Seed normalization
	assert.Equal(t, first, p.Template(IntentWatering, "  DID YOU NEED WATER?  "))
}

func TestTemplate_FallsBackToGeneral(t *testing.T) {
	p := Profile{
		Type: Chill,
		Fallbacks: map[Intent][]string{
			IntentGeneral: {"just chilling"},
		},
	}
	assert.Equal(t, "just chilling", p.Template(IntentMisting, "mist me"))

	empty := Profile{Type: Chill}
	assert.Equal(t, lastResort, empty.Template(IntentGeneral, "anything"))
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"did you need water?", IntentWatering},
		{"Are you THIRSTY", IntentWatering},
		{"soil looks dry", IntentWatering},
		{"time for some fertilizer", IntentFertilizing},
		{"should I mist you", IntentMisting},
		{"that was a mistake", IntentGeneral},
		{"your leaves are turning brown", IntentPruning},
		{"do you need a bigger pot", IntentRepotting},
		{"time to repot?", IntentRepotting},
		{"is this window too bright", IntentLight},
		{"hello there", IntentGreeting},
		{"hi, need water?", IntentWatering},
		{"darling you look great", IntentGeneral},
		{"they said nothing", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIntent(tt.message))
		})
	}
}

func TestProfile_Avoids(t *testing.T) {
	p := MustDefaultTable().Profile(Grumpy)
	assert.True(t, p.Avoids("YAY"))
	assert.False(t, p.Avoids("hmph"))
}
