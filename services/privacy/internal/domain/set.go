package domain

import (
	"slices"
)

// Set is an immutable set of string-like identifiers. The zero value is an
// empty set. Mutating methods return a new Set and leave the receiver as is.
type Set[T ~string] struct {
	m map[T]struct{}
}

// NewSet builds a set from items. Duplicates collapse.
func NewSet[T ~string](items ...T) Set[T] {
	m := make(map[T]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return Set[T]{m: m}
}

// Has reports whether v is a member.
func (s Set[T]) Has(v T) bool {
	_, ok := s.m[v]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int {
	return len(s.m)
}

// IsEmpty reports whether the set has no members.
func (s Set[T]) IsEmpty() bool {
	return len(s.m) == 0
}

func (s Set[T]) clone() Set[T] {
	m := make(map[T]struct{}, len(s.m)+1)
	for k := range s.m {
		m[k] = struct{}{}
	}
	return Set[T]{m: m}
}

// With returns a copy of s that contains v.
func (s Set[T]) With(v T) Set[T] {
	out := s.clone()
	out.m[v] = struct{}{}
	return out
}

// Without returns a copy of s that does not contain v.
func (s Set[T]) Without(v T) Set[T] {
	out := s.clone()
	delete(out.m, v)
	return out
}

// Toggle flips the membership of v. It returns the new set and whether v is
// a member afterwards. Toggling the same value twice yields the original set.
func (s Set[T]) Toggle(v T) (Set[T], bool) {
	if s.Has(v) {
		return s.Without(v), false
	}
	return s.With(v), true
}

// Equal reports whether both sets have the same members.
func (s Set[T]) Equal(o Set[T]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k := range s.m {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order. It never returns nil so the
// result encodes as a JSON array.
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Strings returns the sorted members as plain strings, the form stored in
// TEXT[] columns.
func (s Set[T]) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, v := range sorted {
		out[i] = string(v)
	}
	return out
}

// SetFromStrings converts a stored TEXT[] value back into a Set.
func SetFromStrings[T ~string](values []string) Set[T] {
	items := make([]T, len(values))
	for i, v := range values {
		items[i] = T(v)
	}
	return NewSet(items...)
}
