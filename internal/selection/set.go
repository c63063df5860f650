package selection

import (
	"maps"
	"slices"
)

// Set holds selected panel IDs. The zero value is an empty set ready for reads;
// use NewSet or Clone before writing.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int { return len(s) }

func (s Set) Empty() bool { return len(s) == 0 }

// IDs returns the members in lexical order.
func (s Set) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	maps.Copy(out, s)
	return out
}

// Union returns a new set with the members of both sets.
func (s Set) Union(other Set) Set {
	out := s.Clone()
	maps.Copy(out, other)
	return out
}

// Without returns a new set minus the given IDs.
func (s Set) Without(ids ...string) Set {
	out := s.Clone()
	for _, id := range ids {
		delete(out, id)
	}
	return out
}

// Toggle returns a new set with id flipped.
func (s Set) Toggle(id string) Set {
	if s.Has(id) {
		return s.Without(id)
	}
	out := s.Clone()
	out[id] = struct{}{}
	return out
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
