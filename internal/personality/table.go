// ABOUTME: Read-only personality profile table loaded from YAML
// ABOUTME: Ships an embedded default table
package personality

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// Table holds exactly one profile per Type. It is built once at startup and
// never mutated afterwards.
type Table struct {
	profiles [numTypes]Profile
}

type tableFile struct {
	Personalities []Profile `yaml:"personalities"`
}

// typeKeys records which entries spell out a type. An absent key would
// otherwise decode to the zero Type.
type typeKeys struct {
	Personalities []struct {
		Type *string `yaml:"type"`
	} `yaml:"personalities"`
}

// LoadTable parses a YAML personality table and checks that it covers every
// Type exactly once.
func LoadTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading personality table: %w", err)
	}

	var file tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding personality table: %w", err)
	}
	var keys typeKeys
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decoding personality table: %w", err)
	}
	for i, entry := range keys.Personalities {
		if entry.Type == nil {
			return nil, fmt.Errorf("personality entry %d has no type", i+1)
		}
	}

	var (
		t    Table
		seen [numTypes]bool
	)
	for _, p := range file.Personalities {
		if seen[p.Type] {
			return nil, fmt.Errorf("personality %q defined more than once", p.Type)
		}
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		seen[p.Type] = true
		t.profiles[p.Type] = p
	}
	for typ, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("personality %q missing from table", Type(typ))
		}
	}
	return &t, nil
}

// LoadTableFile reads a table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening personality table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadTable(f)
}

// DefaultTable returns the table compiled into the binary.
func DefaultTable() (*Table, error) {
	return LoadTable(bytes.NewReader(defaultProfiles))
}

// MustDefaultTable is DefaultTable for program initialization and tests.
func MustDefaultTable() *Table {
	t, err := DefaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

// Profile returns the profile for a valid Type.
func (t *Table) Profile(typ Type) Profile {
	return t.profiles[typ]
}

// Profiles returns every profile in Type order.
func (t *Table) Profiles() []Profile {
	out := make([]Profile, 0, numTypes)
	for _, typ := range Types() {
		out = append(out, t.profiles[typ])
	}
	return out
}

func validateProfile(p Profile) error {
	if len(p.ToneDescriptors) == 0 {
		return fmt.Errorf("personality %q has no tone descriptors", p.Type)
	}
	if len(p.Fallbacks[IntentGeneral]) == 0 {
		return fmt.Errorf("personality %q has no general fallback templates", p.Type)
	}
	for intent, templates := range p.Fallbacks {
		if !intent.valid() {
			return fmt.Errorf("personality %q: unknown fallback intent %q", p.Type, intent)
		}
		for _, tmpl := range templates {
			if tmpl == "" {
				return fmt.Errorf("personality %q: empty %s template", p.Type, intent)
			}
		}
	}
	if p.DisplayName == "" {
		return fmt.Errorf("personality %q has no display name", p.Type)
	}
	return nil
}
