package packages

import "sort"

// Set is an unordered collection of package names
type Set map[string]struct{}

// NewSet builds a set from names, collapsing duplicates
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts names into the set
func (s Set) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Contains reports whether name is in the set
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names
func (s Set) Len() int {
	return len(s)
}

// Union returns a new set with the names of both sets
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Difference returns a new set with the names of s not in other
func (s Set) Difference(other Set) Set {
	out := make(Set, len(s))
	for n := range s {
		if !other.Contains(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold the same names
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// Sorted returns the names in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
