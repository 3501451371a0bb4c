// ABOUTME: Closed set of plant personality types
// ABOUTME: Parses and (un)marshals type names
package personality

import (
	"fmt"
	"strings"
)

// Type is a plant personality. The set is closed; Default is used whenever a
// stored or requested type is not recognized.
type Type int

const (
	Chill Type = iota
	Sarcastic
	Dramatic
	Cheerful
	Grumpy
	Wise

	numTypes
)

// Default is the personality every unrecognized type resolves to.
const Default = Chill

var typeNames = [numTypes]string{
	Chill:     "chill",
	Sarcastic: "sarcastic",
	Dramatic:  "dramatic",
	Cheerful:  "cheerful",
	Grumpy:    "grumpy",
	Wise:      "wise",
}

// Types returns every personality type in declaration order.
func Types() []Type {
	out := make([]Type, 0, numTypes)
	for t := Type(0); t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	return t >= 0 && t < numTypes
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("personality(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType maps a name to a Type, ignoring case and surrounding space.
func ParseType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return Type(t), true
		}
	}
	return Default, false
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid personality type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names are an
// error here; lenient resolution belongs to Resolver.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, ok := ParseType(string(text))
	if !ok {
		return fmt.Errorf("unknown personality type %q", string(text))
	}
	*t = parsed
	return nil
}
