package colour

import "errors"

// ErrEmptyReferenceSet is returned when a matcher is built without any
// reference colours.
var ErrEmptyReferenceSet = errors.New("reference colour set is empty")

// Reference is a named reference colour.
type Reference struct {
	Name string `json:"name"`
	Lab  Lab    `json:"lab"`
}

// ReferenceSet is an ordered collection of uniquely named reference colours.
// Iteration order is insertion order and is the tie-break order used by
// Matcher.
type ReferenceSet struct {
	entries []Reference
	index   map[string]int
}

// NewReferenceSet builds a set from refs, applying Add to each in order.
func NewReferenceSet(refs ...Reference) ReferenceSet {
	var s ReferenceSet
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

// Add inserts a reference colour. Adding a name that already exists
// replaces its colour but keeps its original position.
// It reports whether an existing entry was replaced.
func (s *ReferenceSet) Add(r Reference) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[r.Name]; ok {
		s.entries[i] = r
		return true
	}
	s.index[r.Name] = len(s.entries)
	s.entries = append(s.entries, r)
	return false
}

// Len returns the number of entries.
func (s ReferenceSet) Len() int {
	return len(s.entries)
}

// Lookup returns the colour registered under name.
func (s ReferenceSet) Lookup(name string) (Lab, bool) {
	i, ok := s.index[name]
	if !ok {
		return Lab{}, false
	}
	return s.entries[i].Lab, true
}

// Entries returns a copy of the entries in iteration order.
func (s ReferenceSet) Entries() []Reference {
	out := make([]Reference, len(s.entries))
	copy(out, s.entries)
	return out
}

// All returns an iterator over all entries in iteration order.
func (s ReferenceSet) All() func(func(int, Reference) bool) {
	return func(yield func(int, Reference) bool) {
		for i, r := range s.entries {
			if !yield(i, r) {
				return
			}
		}
	}
}
