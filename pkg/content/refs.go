package content

import "regexp"

// Resource references are embedded in document markup as resource:// URIs,
// e.g. ![diagram](resource://8f14e45f-ceea-467f-a8cb-4bfa2299b6d7).
var resourceRefRE = regexp.MustCompile(`resource://([A-Za-z0-9][A-Za-z0-9._-]*)`)

// RefSet is a set of resource identifiers referenced by a body.
type RefSet map[string]struct{}

// NewRefSet builds a RefSet from a list of ids.
func NewRefSet(ids ...string) RefSet {
	s := make(RefSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is a member of the set.
func (s RefSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new set holding the members of both sets.
func (s RefSet) Union(other RefSet) RefSet {
	out := make(RefSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Diff returns the members of s that are not members of other.
func (s RefSet) Diff(other RefSet) RefSet {
	out := make(RefSet)
	for id := range s {
		if _, ok := other[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// References returns the set of resource identifiers embedded in the body.
// Presentation slides carry plain text only, so they never contribute
// references. A nil body references nothing.
func (b *Body) References() RefSet {
	refs := make(RefSet)
	if b == nil || b.Kind != KindDocument {
		return refs
	}
	for _, m := range resourceRefRE.FindAllStringSubmatch(b.Markdown, -1) {
		refs[m[1]] = struct{}{}
	}
	return refs
}
