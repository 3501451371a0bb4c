// ABOUTME: Resolves stored personality names to profiles
// ABOUTME: Unknown names fall back to the default profile
package personality

// Resolver maps stored personality names to profiles. It never fails:
// anything it does not recognize gets the Default profile.
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over an already-loaded table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve returns the profile for name, or the Default profile.
func (r *Resolver) Resolve(name string) Profile {
	typ, _ := ParseType(name)
	return r.table.Profile(typ)
}

// ResolveType returns the profile for typ, or the Default profile when typ
// is out of range.
func (r *Resolver) ResolveType(typ Type) Profile {
	if !typ.Valid() {
		typ = Default
	}
	return r.table.Profile(typ)
}

// Profiles lists every profile in the underlying table.
func (r *Resolver) Profiles() []Profile {
	return r.table.Profiles()
}
